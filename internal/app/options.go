package app

import (
	"github.com/okian/gridcast/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for progress and skip diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTargets sets the evaluated targets in report order. Empty lists are
// ignored.
func WithTargets(targets []string) Option {
	return func(p *Pipeline) {
		if len(targets) > 0 {
			p.targets = append([]string(nil), targets...)
		}
	}
}

// WithWindowSize sets the number of trailing rows scored per target.
func WithWindowSize(rows int) Option {
	return func(p *Pipeline) {
		if rows > 0 {
			p.window = rows
		}
	}
}

// WithRecorder sets the sink for run metrics.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}
