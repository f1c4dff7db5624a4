package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// TelemetryStatus is the outcome category of a command.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one command execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	// Fields holds the command, operation and message fields, e.g. page_id
	// and section_id for section edits.
	Fields   map[string]any
	Duration time.Duration
	Error    error
	Status   TelemetryStatus
}

// Event returns the log event for the outcome, named after the operation:
// "pages.update_section.completed", "pages.delete.failed" or
// "pages.reorder_sections.cancelled".
func (info TelemetryInfo) Event() string {
	name := info.Operation
	if name == "" {
		name = info.Command
	}
	switch info.Status {
	case TelemetryStatusSuccess:
		return name + ".completed"
	case TelemetryStatusContextError:
		return name + ".cancelled"
	default:
		return name + ".failed"
	}
}

// Telemetry is called after every command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs outcomes to logger: completions at info, cancellations
// at warn and failures at error.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields).WithContext(ctx)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info(info.Event(), args...)
		case TelemetryStatusContextError:
			entry.Warn(info.Event(), append(args, "error", info.Error)...)
		default:
			entry.Error(info.Event(), append(args, "error", info.Error)...)
		}
	}
}
