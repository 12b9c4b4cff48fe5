package store

import (
	"go.uber.org/zap"

	"github.com/tastematch/backend/internal/infrastructure/logging"
)

// Option configures a profile store
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report unreadable stored profiles
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrNop(o.logger)
	return o
}

// skipUnreadable logs a stored profile that List could not decode. One bad
// row never fails the listing.
func skipUnreadable(logger *zap.Logger, userID string, err error) {
	logger.Warn("skipping unreadable stored profile",
		zap.String("user_id", userID),
		zap.Error(err),
	)
}
