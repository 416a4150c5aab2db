package server

// Config holds configuration for the local HTTP server.
type Config struct {
	// Bind is the address the server listens on. The default keeps the API
	// on loopback; widen it only if other machines must reach the tool.
	Bind string `mapstructure:"bind" default:"127.0.0.1"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"7283"`
	// ApiKey is the secret key required to access the API.
	// Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return c.Bind + ":" + c.Port
}
