package editor

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-sitepages/internal/fields"
)

var (
	ErrFieldDisabled   = errors.New("editor: field is disabled")
	ErrUnknownOption   = errors.New("editor: value is not one of the select options")
	ErrIndexOutOfRange = errors.New("editor: index out of range")
	ErrNotAList        = errors.New("editor: field does not hold a list")
	ErrNotAnObject     = errors.New("editor: field does not hold a record")
	ErrUnknownChild    = errors.New("editor: no such child field")
	ErrDetachedView    = errors.New("editor: view was replaced by a structural edit")
)

// ValueTypeError reports a value that does not fit the kind of the field at Path.
type ValueTypeError struct {
	Path string
	Kind fields.Kind
	Got  any
}

func (e *ValueTypeError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("editor: %s expects a %s value, got %T", path, e.Kind, e.Got)
}
