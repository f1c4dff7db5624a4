package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitepages/internal/commands"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	updateSectionMessageType   = "sitepages.pages.update_section"
	reorderSectionsMessageType = "sitepages.pages.reorder_sections"
)

// UpdateSectionCommand changes a single section of a stored page.
type UpdateSectionCommand struct {
	PageID     uuid.UUID      `json:"page_id"`
	SectionID  string         `json:"section_id"`
	Enabled    *bool          `json:"enabled,omitempty"`
	Order      *int           `json:"order,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	ModifiedBy string         `json:"modified_by,omitempty"`
}

// Type implements command.Message.
func (UpdateSectionCommand) Type() string { return updateSectionMessageType }

// Validate ensures the command names its target and carries a change.
func (m UpdateSectionCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("sitepages.pages.update_section.page_id_required", "page_id is required")
	}
	if strings.TrimSpace(m.SectionID) == "" {
		errs["section_id"] = validation.NewError("sitepages.pages.update_section.section_id_required", "section_id is required")
	}
	if m.Enabled == nil && m.Order == nil && m.Data == nil {
		errs["data"] = validation.NewError("sitepages.pages.update_section.empty", "at least one of enabled, order or data is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateSectionHandler applies section updates through the page service.
type UpdateSectionHandler struct {
	inner *commands.Handler[UpdateSectionCommand]
}

// NewUpdateSectionHandler constructs a handler wired to the provided page service.
func NewUpdateSectionHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateSectionCommand]) *UpdateSectionHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg UpdateSectionCommand) error {
		_, err := service.UpdateSection(ctx, msg.PageID, strings.TrimSpace(msg.SectionID), pages.UpdateSectionRequest{
			Enabled:    msg.Enabled,
			Order:      msg.Order,
			Data:       msg.Data,
			ModifiedBy: msg.ModifiedBy,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[UpdateSectionCommand]{
		commands.WithLogger[UpdateSectionCommand](baseLogger),
		commands.WithOperation[UpdateSectionCommand]("pages.update_section"),
		commands.WithMessageFields(func(msg UpdateSectionCommand) map[string]any {
			fields := map[string]any{"section_id": msg.SectionID}
			if msg.PageID != uuid.Nil {
				fields["page_id"] = msg.PageID
			}
			if msg.Enabled != nil {
				fields["enabled"] = *msg.Enabled
			}
			if msg.Order != nil {
				fields["order"] = *msg.Order
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[UpdateSectionCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateSectionHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpdateSectionCommand].Execute.
func (h *UpdateSectionHandler) Execute(ctx context.Context, msg UpdateSectionCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReorderSectionsCommand assigns each listed section its position as order.
type ReorderSectionsCommand struct {
	PageID     uuid.UUID `json:"page_id"`
	SectionIDs []string  `json:"section_ids"`
}

// Type implements command.Message.
func (ReorderSectionsCommand) Type() string { return reorderSectionsMessageType }

// Validate rejects empty, blank and repeated section ids.
func (m ReorderSectionsCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("sitepages.pages.reorder_sections.page_id_required", "page_id is required")
	}
	if len(m.SectionIDs) == 0 {
		errs["section_ids"] = validation.NewError("sitepages.pages.reorder_sections.empty", "section_ids must list at least one section")
	} else {
		seen := make(map[string]struct{}, len(m.SectionIDs))
		for _, id := range m.SectionIDs {
			trimmed := strings.TrimSpace(id)
			if trimmed == "" {
				errs["section_ids"] = validation.NewError("sitepages.pages.reorder_sections.blank", "section ids cannot be blank")
				break
			}
			if _, dup := seen[trimmed]; dup {
				errs["section_ids"] = validation.NewError("sitepages.pages.reorder_sections.duplicate", "section ids must be unique")
				break
			}
			seen[trimmed] = struct{}{}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReorderSectionsHandler reorders sections through the page service.
type ReorderSectionsHandler struct {
	inner *commands.Handler[ReorderSectionsCommand]
}

// NewReorderSectionsHandler constructs a handler wired to the provided page service.
func NewReorderSectionsHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReorderSectionsCommand]) *ReorderSectionsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ReorderSectionsCommand) error {
		ids := make([]string, len(msg.SectionIDs))
		for i, id := range msg.SectionIDs {
			ids[i] = strings.TrimSpace(id)
		}
		_, err := service.ReorderSections(ctx, msg.PageID, ids)
		return err
	}

	handlerOpts := []commands.HandlerOption[ReorderSectionsCommand]{
		commands.WithLogger[ReorderSectionsCommand](baseLogger),
		commands.WithOperation[ReorderSectionsCommand]("pages.reorder_sections"),
		commands.WithMessageFields(func(msg ReorderSectionsCommand) map[string]any {
			return map[string]any{
				"page_id":       msg.PageID,
				"section_count": len(msg.SectionIDs),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ReorderSectionsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReorderSectionsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReorderSectionsCommand].Execute.
func (h *ReorderSectionsHandler) Execute(ctx context.Context, msg ReorderSectionsCommand) error {
	return h.inner.Execute(ctx, msg)
}
