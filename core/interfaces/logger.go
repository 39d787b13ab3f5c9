package interfaces

// Logger defines the interface for logging throughout the application.
// The pipeline only depends on this abstraction; the concrete logger is
// backed by logrus.
//
// Example usage:
//
//	logger.Info("Fetched feed", map[string]interface{}{
//		"label":   "WSB",
//		"entries": 25,
//	})
//
//	logger.Warn("Feed failed, skipping", map[string]interface{}{
//		"label": "Options",
//		"error": err.Error(),
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Warnings mark degraded but non-fatal stages.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}
