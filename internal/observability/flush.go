package observability

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"go.uber.org/zap"
)

// FlushTelemetry closes the given resources, logging each failure, then flushes the
// logger. Call last during shutdown. Sync errors on a terminal (EINVAL/ENOTTY) are ignored.
func FlushTelemetry(logger *zap.Logger, closers map[string]io.Closer) error {
	var errs []error
	for name, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
			if logger != nil {
				logger.Error("close failed", zap.String("resource", name), zap.Error(err))
			}
		}
	}
	if logger != nil {
		if err := logger.Sync(); err != nil && !isTerminalSyncError(err) {
			errs = append(errs, fmt.Errorf("flush logs: %w", err))
		}
	}
	return errors.Join(errs...)
}

func isTerminalSyncError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr.Err, syscall.EINVAL) || errors.Is(pathErr.Err, syscall.ENOTTY)
	}
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
