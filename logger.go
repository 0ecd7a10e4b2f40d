package hanami

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// loggerPtr stores the active logger. Accessed atomically so SetLogger can be
// called while a frame pump goroutine is logging.
var loggerPtr atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	loggerPtr.Store(&nop)
}

// SetLogger configures the logger for hanami and its sub-packages.
// By default nothing is logged.
//
// Levels used:
//   - debug: per-batch lifecycle, cancelled entities, frame stats
//   - info: host lifecycle (window, terminal, server start/stop)
//   - warn: recoverable failures (sink errors, element creation failures)
//
// Example:
//
//	hanami.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
//		Level(zerolog.DebugLevel).With().Timestamp().Logger())
func SetLogger(l zerolog.Logger) {
	loggerPtr.Store(&l)
}

// Logger returns the active logger.
func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}
