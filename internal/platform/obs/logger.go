package obs

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

// Init installs the process-wide logger. dev toggles human-readable console
// output for local runs.
func Init(dev bool) error {
	var (
		base *zap.Logger
		err  error
	)

	if dev {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	logger = base.Sugar()
	mu.Unlock()

	return nil
}

// L returns the installed logger, falling back to a no-op logger so library
// code and tests never nil-check.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()

	if logger != nil {
		_ = logger.Sync()
	}
}
