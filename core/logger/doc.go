// Package logger wires zap into the rest of the application.
//
// # Formats
//
// Two output formats are supported. The default "console" format uses the
// colorized development encoder and is what the CLI and TUI run with. The
// "json" format switches to the production encoder for machine-readable
// output, which is the sensible choice when the HTTP server runs unattended.
//
// # Ray IDs
//
// HTTP handlers should log through WithRayID so every line produced while
// serving a request carries the ray id assigned by the middleware. That makes
// it possible to stitch together all log lines for a single request.
package logger
