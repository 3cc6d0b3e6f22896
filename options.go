package vault

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

type options struct {
	workers        int
	logger         logrus.FieldLogger
	cleanupOnError bool
}

func defaultOptions() *options {
	return &options{
		workers:        runtime.NumCPU(),
		logger:         logrus.StandardLogger(),
		cleanupOnError: true,
	}
}

// Option configures Encrypt or Decrypt.
type Option func(*options)

// WithWorkers overrides the crypto pipeline's worker pool size, which
// defaults to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the structured logger used for stage lifecycle and
// error-path events. The default is logrus's standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCleanupOnError controls whether a partially written destination
// is removed after a failed run. Only takes effect when dst is backed
// by something Encrypt/Decrypt can remove (see removableWriter);
// otherwise it is a no-op. Defaults to true.
func WithCleanupOnError(cleanup bool) Option {
	return func(o *options) {
		o.cleanupOnError = cleanup
	}
}
