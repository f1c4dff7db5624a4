package editor

import (
	"fmt"
	"math"

	"github.com/goliatone/go-sitepages/internal/fields"
)

// coerce checks value against the kind of the view's field and converts it
// into the canonical value model.
func coerce(v *View, value any) (any, error) {
	c := &coercer{view: v, value: fields.Normalize(value)}
	if value == nil {
		return nil, &ValueTypeError{Path: v.Path, Kind: v.Kind, Got: value}
	}
	v.Field.Accept(c)
	return c.out, c.err
}

type coercer struct {
	view  *View
	value any
	out   any
	err   error
}

func (c *coercer) mismatch() {
	c.err = &ValueTypeError{Path: c.view.Path, Kind: c.view.Kind, Got: c.value}
}

func (c *coercer) str() {
	if s, ok := c.value.(string); ok {
		c.out = s
		return
	}
	c.mismatch()
}

func (c *coercer) VisitText(*fields.Text)         { c.str() }
func (c *coercer) VisitTextarea(*fields.Textarea) { c.str() }
func (c *coercer) VisitRichText(*fields.RichText) { c.str() }
func (c *coercer) VisitImage(*fields.Image)       { c.str() }
func (c *coercer) VisitColor(*fields.Color)       { c.str() }
func (c *coercer) VisitURL(*fields.URL)           { c.str() }

func (c *coercer) VisitNumber(*fields.Number) {
	n, ok := c.value.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		c.mismatch()
		return
	}
	c.out = n
}

func (c *coercer) VisitBoolean(*fields.Boolean) {
	b, ok := c.value.(bool)
	if !ok {
		c.mismatch()
		return
	}
	c.out = b
}

func (c *coercer) VisitSelect(f *fields.Select) {
	s, ok := c.value.(string)
	if !ok {
		c.mismatch()
		return
	}
	if c.view.opts != nil && c.view.opts.strictSelect && !f.HasOption(s) {
		c.err = fmt.Errorf("%w: %q at %s", ErrUnknownOption, s, c.view.Path)
		return
	}
	c.out = s
}

func (c *coercer) VisitImages(*fields.Images) {
	list, ok := c.value.([]any)
	if !ok {
		c.mismatch()
		return
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			c.mismatch()
			return
		}
	}
	c.out = list
}

func (c *coercer) VisitArray(*fields.Array) {
	list, ok := c.value.([]any)
	if !ok {
		c.mismatch()
		return
	}
	c.out = list
}

func (c *coercer) VisitObject(*fields.Object) { c.record() }
func (c *coercer) VisitGroup(*fields.Group)   { c.record() }

func (c *coercer) record() {
	record, ok := c.value.(map[string]any)
	if !ok {
		c.mismatch()
		return
	}
	c.out = record
}
