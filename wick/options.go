// SPDX-License-Identifier: MIT

package wick

import (
	"runtime"

	"go.uber.org/zap"
)

// Option configures an Engine or a standalone setup stage.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	workers int
}

func defaultOptions() options {
	return options{logger: zap.NewNop(), workers: runtime.GOMAXPROCS(0)}
}

func gatherOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger used for setup diagnostics. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers bounds the goroutines of the Coulomb/exchange build.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}
