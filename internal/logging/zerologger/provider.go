// Package zerologger adapts github.com/rs/zerolog to the sitepages logging
// contracts. Entries are newline delimited JSON.
package zerologger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// Config captures the options exposed by the zerolog adapter.
type Config struct {
	Level  string
	Writer io.Writer
	// Focus limits output to the listed module names. Empty logs every module.
	Focus []string
}

// Provider hands out zerolog child loggers keyed by module name.
type Provider struct {
	root  zerolog.Logger
	focus map[string]struct{}
}

// NewProvider builds a provider writing to cfg.Writer (stdout by default).
func NewProvider(cfg Config) (*Provider, error) {
	level := zerolog.InfoLevel
	if trimmed := strings.ToLower(strings.TrimSpace(cfg.Level)); trimmed != "" {
		if trimmed == "warning" {
			trimmed = "warn"
		}
		parsed, err := zerolog.ParseLevel(trimmed)
		if err != nil || parsed == zerolog.NoLevel {
			return nil, fmt.Errorf("logging: unsupported zerolog level %q", cfg.Level)
		}
		level = parsed
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	var focus map[string]struct{}
	for _, name := range cfg.Focus {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			if focus == nil {
				focus = map[string]struct{}{}
			}
			focus[trimmed] = struct{}{}
		}
	}

	return &Provider{
		root:  zerolog.New(writer).Level(level).With().Timestamp().Logger(),
		focus: focus,
	}, nil
}

// GetLogger satisfies interfaces.LoggerProvider.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if p.focus != nil {
		if _, ok := p.focus[name]; !ok {
			return logging.NoOp()
		}
	}
	if name == "" {
		return &adapter{inner: p.root}
	}
	return &adapter{inner: p.root.With().Str(logging.FieldLogger, name).Logger()}
}

type adapter struct {
	inner zerolog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.emit(l.inner.Trace(), msg, args) }
func (l *adapter) Debug(msg string, args ...any) { l.emit(l.inner.Debug(), msg, args) }
func (l *adapter) Info(msg string, args ...any)  { l.emit(l.inner.Info(), msg, args) }
func (l *adapter) Warn(msg string, args ...any)  { l.emit(l.inner.Warn(), msg, args) }
func (l *adapter) Error(msg string, args ...any) { l.emit(l.inner.Error(), msg, args) }

// Fatal logs at fatal level without exiting the process.
func (l *adapter) Fatal(msg string, args ...any) {
	l.emit(l.inner.WithLevel(zerolog.FatalLevel), msg, args)
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &adapter{inner: l.inner.With().Fields(fields).Logger()}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	fields := logging.ContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.WithFields(fields)
}

func (l *adapter) emit(event *zerolog.Event, msg string, args []any) {
	if event == nil {
		return
	}
	if len(args) > 0 {
		if len(args)%2 != 0 {
			args = append(args, "(MISSING)")
		}
		event = event.Fields(args)
	}
	event.Msg(msg)
}
