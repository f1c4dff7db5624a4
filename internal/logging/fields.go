package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// Field keys shared by every sitepages log entry. Console output prints them
// in this order ahead of any other field.
const (
	FieldLogger    = "logger"
	FieldModule    = "module"
	FieldOperation = "operation"
	FieldPageSlug  = "page_slug"
	FieldPageID    = "page_id"
	FieldSectionID = "section_id"
	FieldSequence  = "sequence"
)

// KnownFields lists the shared field keys in display order.
var KnownFields = []string{
	FieldLogger,
	FieldModule,
	FieldOperation,
	FieldPageSlug,
	FieldPageID,
	FieldSectionID,
	FieldSequence,
}

type fieldsKey struct{}

// WithFields returns logger with fields attached when it implements
// interfaces.FieldsLogger, and logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// ContextWithFields stores fields on ctx for providers to merge into entries
// logged through WithContext. Later calls override earlier keys.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextWithSave tags ctx with the page and save sequence of a save.
func ContextWithSave(ctx context.Context, pageID any, sequence uint64) context.Context {
	return ContextWithFields(ctx, map[string]any{FieldPageID: pageID, FieldSequence: sequence})
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
