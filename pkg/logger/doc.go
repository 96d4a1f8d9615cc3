// Package logger provides structured logging for the relay daemon, backed by
// zerolog.
//
// The package exposes a Logger interface so components can be tested with the
// included TestLogger, plus a global instance initialized from the logging
// configuration.
//
// Usage:
//
//	logger.Initialize(&cfg.Logging)
//
//	log := logger.GetLogger()
//	log.InfoWithFields("sync pass completed", map[string]interface{}{
//		"account":   account.Name,
//		"delivered": delivered,
//	})
//
//	log.WithError(err).WithField("account", account.Name).Error("fetch failed")
package logger
