// Package logging constructs the leveled loggers used by avcp components.
//
// A single Provider is created at process start and handed to every
// component that logs. Each component asks for a logger by name; the
// provider returns the same logger for the same name, so repeated calls never
// duplicate output.
package logging

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Provider hands out named loggers that share one writer and level.
type Provider struct {
	mu        sync.Mutex
	w         io.Writer
	level     log.Level
	timestamp bool
	loggers   map[string]*log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLevel sets the minimum level for every logger from the provider.
func WithLevel(level log.Level) Option {
	return func(p *Provider) { p.level = level }
}

// WithTimestamp toggles the timestamp column.
func WithTimestamp(enabled bool) Option {
	return func(p *Provider) { p.timestamp = enabled }
}

// NewProvider creates a provider writing to w at info level with timestamps.
func NewProvider(w io.Writer, opts ...Option) *Provider {
	p := &Provider{
		w:         w,
		level:     log.InfoLevel,
		timestamp: true,
		loggers:   make(map[string]*log.Logger),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Discard returns a provider whose loggers drop everything.
func Discard() *Provider {
	return NewProvider(io.Discard, WithTimestamp(false))
}

// Logger returns the logger registered under name, creating it on first use.
// Output format: [TIME] LEVEL name: message key=value...
func (p *Provider) Logger(name string) *log.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()

	if logger, ok := p.loggers[name]; ok {
		return logger
	}

	logger := log.NewWithOptions(p.w, log.Options{
		Prefix:          name,
		Level:           p.level,
		ReportTimestamp: p.timestamp,
		TimeFormat:      time.DateTime,
	})
	p.loggers[name] = logger
	return logger
}

// ParseLevel maps a --log-level flag value to a level.
func ParseLevel(value string) (log.Level, error) {
	return log.ParseLevel(value)
}
