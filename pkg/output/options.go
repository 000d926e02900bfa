package output

import (
	"time"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
)

type options struct {
	dir      string
	fullName string
	leanName string
	lean     bool
	version  Version
	now      func() time.Time
}

func defaultOptions() *options {
	return &options{
		dir:      constants.DefaultOutputDir,
		fullName: constants.DefaultOutputFile,
		leanName: constants.DefaultLeanOutputFile,
		lean:     true,
		version:  DefaultVersion,
		now:      time.Now,
	}
}

// Option configures a Writer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDir sets the output directory.
func WithDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return &errors.ValidationError{Field: "output_dir", Message: "cannot be empty"}
		}
		o.dir = dir
		return nil
	}
}

// WithFileNames sets the file names of the full and lean artifacts.
func WithFileNames(full, lean string) Option {
	return func(o *options) error {
		if full == "" || lean == "" || full == lean {
			return &errors.ValidationError{Field: "file names", Message: "must be two distinct non-empty names"}
		}
		o.fullName, o.leanName = full, lean
		return nil
	}
}

// WithLean controls whether the lean artifact is written.
func WithLean(enabled bool) Option {
	return func(o *options) error {
		o.lean = enabled
		return nil
	}
}

// WithVersion sets the envelope version.
func WithVersion(v Version) Option {
	return func(o *options) error {
		o.version = v
		return nil
	}
}

// WithClock sets the time source for the envelope timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}
