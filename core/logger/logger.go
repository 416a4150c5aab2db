package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger from the given configuration. The console format
// is meant for interactive use, json for anything that scrapes the output.
func New(cfg *Config) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	default:
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg.DisableStacktrace = true

	return zapCfg.Build()
}

// WithRayID returns a child logger annotated with the request's ray id,
// if the ray id middleware has stored one on the fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rayID, ok := c.Locals("ray_id").(string)
	if !ok || rayID == "" {
		return l
	}

	return l.With(zap.String("ray_id", rayID))
}
