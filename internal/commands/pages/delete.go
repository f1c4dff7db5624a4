package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitepages/internal/commands"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
	"github.com/google/uuid"
)

const deletePageMessageType = "sitepages.pages.delete"

// DeletePageCommand removes a page document.
type DeletePageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

// Type implements command.Message.
func (DeletePageCommand) Type() string { return deletePageMessageType }

// Validate ensures the page identifier is present.
func (m DeletePageCommand) Validate() error {
	if m.PageID == uuid.Nil {
		return validation.Errors{
			"page_id": validation.NewError("sitepages.pages.delete.page_id_required", "page_id is required"),
		}
	}
	return nil
}

// DeletePageHandler deletes pages through the page service.
type DeletePageHandler struct {
	inner *commands.Handler[DeletePageCommand]
}

// NewDeletePageHandler constructs a handler wired to the provided page service.
func NewDeletePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeletePageCommand]) *DeletePageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg DeletePageCommand) error {
		return service.Delete(ctx, msg.PageID)
	}

	handlerOpts := []commands.HandlerOption[DeletePageCommand]{
		commands.WithLogger[DeletePageCommand](baseLogger),
		commands.WithOperation[DeletePageCommand]("pages.delete"),
		commands.WithMessageFields(func(msg DeletePageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DeletePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeletePageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeletePageCommand].Execute.
func (h *DeletePageHandler) Execute(ctx context.Context, msg DeletePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
