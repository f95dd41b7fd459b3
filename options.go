package md2thesis

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// WithRunner sets the runner used to invoke pandoc. Tests use it to avoid
// real subprocesses.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithLogger sets the logger for conversion progress and pass details.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout overrides pandoc.timeout for each pandoc run.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPandocBinary overrides pandoc.binary.
func WithPandocBinary(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithoutVerify skips re-reading the output with the independent parser.
func WithoutVerify() Option {
	return func(c *Converter) {
		c.verify = false
	}
}

// WithClock sets the clock {date} in output patterns is taken from.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}
