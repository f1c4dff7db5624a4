package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// Level is the severity of an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configuration level name onto a Level. Empty input
// resolves to LevelInfo.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("console: unknown log level %q", name)
}

// Options configures the console provider. The zero value writes INFO and
// above to stderr.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

// Provider writes one line per entry:
//
//	<time> <LEVEL> [<logger>] <event> module=.. page_slug=.. sequence=.. <other fields>
//
// The shared sitepages fields come first in logging.KnownFields order; the
// rest follow sorted by key.
type Provider struct {
	mu    sync.Mutex
	out   io.Writer
	now   func() time.Time
	level Level
}

// NewProvider returns a console provider configured by opts.
func NewProvider(opts Options) *Provider {
	p := &Provider{out: opts.Writer, now: opts.TimeFunc, level: LevelInfo}
	if p.out == nil {
		p.out = os.Stderr
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.MinLevel != nil {
		p.level = *opts.MinLevel
	}
	return p
}

// GetLogger returns a logger that prints name ahead of each event.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &Logger{provider: p, name: name}
}

// Logger is a console logger bound to a provider.
type Logger struct {
	provider *Provider
	name     string
	fields   map[string]any
	ctx      context.Context
}

var _ interfaces.FieldsLogger = (*Logger)(nil)

func (l *Logger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *Logger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *Logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(next.fields, l.fields)
	maps.Copy(next.fields, fields)
	return &next
}

func (l *Logger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

func (l *Logger) log(level Level, msg string, args []any) {
	p := l.provider
	if level < p.level {
		return
	}
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	line := format(p.now(), level, l.name, msg, fields)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, line)
}

func format(ts time.Time, level Level, name, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if name != "" {
		b.WriteString(" [")
		b.WriteString(name)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range orderedKeys(fields) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[key]))
	}
	b.WriteByte('\n')
	return b.String()
}

func orderedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for _, key := range logging.KnownFields {
		if _, ok := fields[key]; ok {
			keys = append(keys, key)
		}
	}
	known := len(keys)
	for key := range fields {
		if !slices.Contains(logging.KnownFields, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys[known:])
	return keys
}

func formatValue(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = v
	case error:
		s = v.Error()
	case time.Time:
		s = v.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
