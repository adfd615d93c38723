package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldClientID  = "client_id"
	FieldNodeID    = "node_id"
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldQuery     = "query"
	FieldMessage   = "message_type"
	FieldPath      = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldNodes      = "nodes"
	FieldEdges      = "edges"
	FieldActive     = "active"
	FieldSelected   = "selected"
	FieldIterations = "iterations"

	// Status
	FieldState = "state"

	// Network
	FieldAddress = "address"
	FieldPort    = "port"

	// Dataset
	FieldSource = "source"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	func NewLoop(ex *Explorer) *Loop {
//	    return &Loop{logger: logger.ComponentLogger("explorer.loop")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	clientLogger := logger.ChildLogger(base, logger.FieldClientID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
