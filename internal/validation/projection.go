package validation

import "github.com/goliatone/go-sitepages/internal/fields"

// SectionJSONSchema projects a field list onto a JSON schema object. Keys the
// list does not declare are allowed so stored extras never fail validation.
func SectionJSONSchema(list fields.List) map[string]any {
	return objectSchema(list)
}

// FieldJSONSchema projects a single field definition.
func FieldJSONSchema(f fields.Field) map[string]any {
	p := &projector{out: map[string]any{}}
	f.Accept(p)
	if meta := f.Meta(); meta.Description != "" {
		p.out["description"] = meta.Description
	}
	return p.out
}

func objectSchema(list fields.List) map[string]any {
	properties := make(map[string]any, len(list))
	required := []string{}
	for _, f := range list {
		if f == nil {
			continue
		}
		meta := f.Meta()
		properties[meta.Name] = FieldJSONSchema(f)
		if meta.Required {
			required = append(required, meta.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

type projector struct {
	out map[string]any
}

func (p *projector) str(minLength, maxLength *int, required bool) {
	p.out["type"] = "string"
	switch {
	case minLength != nil:
		p.out["minLength"] = *minLength
	case required:
		p.out["minLength"] = 1
	}
	if maxLength != nil {
		p.out["maxLength"] = *maxLength
	}
}

func (p *projector) VisitText(f *fields.Text) {
	p.str(f.MinLength, f.MaxLength, f.Required)
	if f.Pattern != "" {
		p.out["pattern"] = f.Pattern
	}
}

func (p *projector) VisitTextarea(f *fields.Textarea) {
	p.str(f.MinLength, f.MaxLength, f.Required)
}

func (p *projector) VisitRichText(f *fields.RichText) { p.str(nil, nil, f.Required) }
func (p *projector) VisitImage(f *fields.Image)       { p.str(nil, nil, f.Required) }
func (p *projector) VisitColor(f *fields.Color)       { p.str(nil, nil, f.Required) }
func (p *projector) VisitURL(f *fields.URL)           { p.str(nil, nil, f.Required) }

func (p *projector) VisitNumber(f *fields.Number) {
	p.out["type"] = "number"
	if f.Min != nil {
		p.out["minimum"] = *f.Min
	}
	if f.Max != nil {
		p.out["maximum"] = *f.Max
	}
}

func (p *projector) VisitBoolean(*fields.Boolean) {
	p.out["type"] = "boolean"
}

func (p *projector) VisitSelect(f *fields.Select) {
	p.out["type"] = "string"
	if len(f.Options) == 0 {
		return
	}
	values := make([]any, 0, len(f.Options)+1)
	for _, option := range f.Options {
		values = append(values, option.Value)
	}
	if !f.Required {
		values = append(values, "")
	}
	p.out["enum"] = values
}

func (p *projector) VisitImages(f *fields.Images) {
	p.out["type"] = "array"
	p.out["items"] = map[string]any{"type": "string"}
	if f.MaxItems != nil {
		p.out["maxItems"] = *f.MaxItems
	}
	if f.Required {
		p.out["minItems"] = 1
	}
}

func (p *projector) VisitArray(f *fields.Array) {
	p.out["type"] = "array"
	if f.ItemType != nil {
		p.out["items"] = FieldJSONSchema(f.ItemType)
	}
	if f.MinItems != nil {
		p.out["minItems"] = *f.MinItems
	}
	if f.MaxItems != nil {
		p.out["maxItems"] = *f.MaxItems
	}
}

func (p *projector) VisitObject(f *fields.Object) {
	p.out = mergeInto(p.out, objectSchema(f.Fields))
}

func (p *projector) VisitGroup(f *fields.Group) {
	p.out = mergeInto(p.out, objectSchema(f.Fields))
}

func mergeInto(dst, src map[string]any) map[string]any {
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
