package storage

// Config holds configuration for the backup vault provider.
type Config struct {
	// Enabled switches the vault on. Everything else is ignored while false.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the host:port of the S3-compatible service. A leading
	// http:// or https:// scheme is tolerated and stripped.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket save backups live in.
	Bucket string `mapstructure:"bucket" default:"cogsaver"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
