// Package logger builds log/slog loggers from environment configuration.
//
// Output format (text for development, json for log aggregation) and level
// are driven by LOG_FORMAT and LOG_LEVEL. Subsystems attach a component
// attribute so records can be filtered per concern.
package logger
