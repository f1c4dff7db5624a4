package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// wireField is the JSON representation shared with the admin dashboard.
type wireField struct {
	Name             string          `json:"name"`
	Label            string          `json:"label"`
	Type             Kind            `json:"type"`
	Description      string          `json:"description,omitempty"`
	Placeholder      string          `json:"placeholder,omitempty"`
	Required         bool            `json:"required,omitempty"`
	Hidden           bool            `json:"hidden,omitempty"`
	Disabled         bool            `json:"disabled,omitempty"`
	Group            string          `json:"group,omitempty"`
	DefaultValue     json.RawMessage `json:"defaultValue,omitempty"`
	MinLength        *int            `json:"minLength,omitempty"`
	MaxLength        *int            `json:"maxLength,omitempty"`
	Pattern          string          `json:"pattern,omitempty"`
	Rows             *int            `json:"rows,omitempty"`
	Min              *float64        `json:"min,omitempty"`
	Max              *float64        `json:"max,omitempty"`
	Step             *float64        `json:"step,omitempty"`
	Options          []Option        `json:"options,omitempty"`
	Accept           string          `json:"accept,omitempty"`
	MaxSize          *int64          `json:"maxSize,omitempty"`
	MinItems         *int            `json:"minItems,omitempty"`
	MaxItems         *int            `json:"maxItems,omitempty"`
	ItemType         json.RawMessage `json:"itemType,omitempty"`
	Fields           json.RawMessage `json:"fields,omitempty"`
	Collapsible      bool            `json:"collapsible,omitempty"`
	DefaultCollapsed bool            `json:"defaultCollapsed,omitempty"`
}

// Decode parses a single field definition. Definitions that violate the
// structural rules of their kind are rejected with a *ShapeError.
func Decode(data []byte) (Field, error) {
	return decodeField(data, "")
}

// Encode renders f in the wire format.
func Encode(f Field) ([]byte, error) {
	wire, err := toWire(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes an array of field definitions.
func (l *List) UnmarshalJSON(data []byte) error {
	list, err := decodeList(data, "")
	if err != nil {
		return err
	}
	*l = list
	return nil
}

// MarshalJSON encodes the list in the wire format.
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]*wireField, 0, len(l))
	for _, f := range l {
		wire, err := toWire(f)
		if err != nil {
			return nil, err
		}
		out = append(out, wire)
	}
	return json.Marshal(out)
}

func decodeList(data []byte, path string) (List, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ShapeError{Path: path, Reason: "fields must be an array", Err: err}
	}
	list := make(List, 0, len(raw))
	for i, item := range raw {
		f, err := decodeField(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, nil
}

func decodeField(data []byte, path string) (Field, error) {
	var wire wireField
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &ShapeError{Path: path, Reason: "malformed field definition", Err: err}
	}
	if wire.Name != "" {
		path = joinPath(trimIndex(path), wire.Name)
	}
	if !wire.Type.Valid() {
		return nil, &ShapeError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownKind, wire.Type)}
	}

	hasItemType := present(wire.ItemType)
	hasFields := present(wire.Fields)
	switch wire.Type {
	case KindArray:
		if !hasItemType {
			return nil, shapeErr(path, "array fields require itemType")
		}
		if hasFields {
			return nil, shapeErr(path, "array fields must not declare fields")
		}
	case KindObject, KindGroup:
		if !hasFields {
			return nil, shapeErr(path, string(wire.Type)+" fields require fields")
		}
		if hasItemType {
			return nil, shapeErr(path, string(wire.Type)+" fields must not declare itemType")
		}
	default:
		if hasItemType || hasFields {
			return nil, shapeErr(path, string(wire.Type)+" fields must not declare itemType or fields")
		}
	}

	base := Base{
		Name:        wire.Name,
		Label:       wire.Label,
		Description: wire.Description,
		Placeholder: wire.Placeholder,
		Required:    wire.Required,
		Hidden:      wire.Hidden,
		Disabled:    wire.Disabled,
		Group:       wire.Group,
	}
	def := wire.DefaultValue
	if !present(def) {
		def = nil
	}

	switch wire.Type {
	case KindText:
		f := &Text{Base: base, MinLength: wire.MinLength, MaxLength: wire.MaxLength, Pattern: wire.Pattern}
		return f, decodeDefault(def, path, &f.Default)
	case KindTextarea:
		f := &Textarea{Base: base, MinLength: wire.MinLength, MaxLength: wire.MaxLength, Rows: wire.Rows}
		return f, decodeDefault(def, path, &f.Default)
	case KindRichText:
		f := &RichText{Base: base}
		return f, decodeDefault(def, path, &f.Default)
	case KindNumber:
		f := &Number{Base: base, Min: wire.Min, Max: wire.Max, Step: wire.Step}
		return f, decodeDefault(def, path, &f.Default)
	case KindBoolean:
		f := &Boolean{Base: base}
		return f, decodeDefault(def, path, &f.Default)
	case KindSelect:
		f := &Select{Base: base, Options: wire.Options}
		return f, decodeDefault(def, path, &f.Default)
	case KindImage:
		f := &Image{Base: base, AcceptTypes: wire.Accept, MaxSize: wire.MaxSize}
		return f, decodeDefault(def, path, &f.Default)
	case KindImages:
		f := &Images{Base: base, AcceptTypes: wire.Accept, MaxSize: wire.MaxSize, MaxItems: wire.MaxItems}
		return f, decodeDefault(def, path, &f.Default)
	case KindColor:
		f := &Color{Base: base}
		return f, decodeDefault(def, path, &f.Default)
	case KindURL:
		f := &URL{Base: base}
		return f, decodeDefault(def, path, &f.Default)
	case KindArray:
		item, err := decodeField(wire.ItemType, path+"[]")
		if err != nil {
			return nil, err
		}
		f := &Array{Base: base, ItemType: item, MinItems: wire.MinItems, MaxItems: wire.MaxItems}
		if err := decodeDefault(def, path, &f.Default); err != nil {
			return nil, err
		}
		f.Default = normalizeSlice(f.Default)
		return f, nil
	case KindObject:
		children, err := decodeList(wire.Fields, path)
		if err != nil {
			return nil, err
		}
		f := &Object{Base: base, Fields: children}
		if err := decodeDefault(def, path, &f.Default); err != nil {
			return nil, err
		}
		return f, nil
	case KindGroup:
		children, err := decodeList(wire.Fields, path)
		if err != nil {
			return nil, err
		}
		f := &Group{Base: base, Fields: children, Collapsible: wire.Collapsible, DefaultCollapsed: wire.DefaultCollapsed}
		if err := decodeDefault(def, path, &f.Default); err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, &ShapeError{Path: path, Err: ErrUnknownKind}
}

func decodeDefault[T any](raw json.RawMessage, path string, target *T) error {
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &ShapeError{Path: path, Reason: "defaultValue does not match the field kind", Err: err}
	}
	return nil
}

func normalizeSlice(values []any) []any {
	if values == nil {
		return nil
	}
	out, _ := Normalize(values).([]any)
	return out
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// trimIndex drops a trailing list position ("hero[2]" -> "hero") so named
// fields are addressed by name.
func trimIndex(path string) string {
	if !strings.HasSuffix(path, "]") {
		return path
	}
	i := strings.LastIndexByte(path, '[')
	if i < 0 || i == len(path)-2 {
		return path
	}
	return path[:i]
}

func toWire(f Field) (*wireField, error) {
	if f == nil {
		return nil, shapeErr("", "nil field")
	}
	meta := f.Meta()
	wire := &wireField{
		Name:        meta.Name,
		Label:       meta.Label,
		Type:        f.Kind(),
		Description: meta.Description,
		Placeholder: meta.Placeholder,
		Required:    meta.Required,
		Hidden:      meta.Hidden,
		Disabled:    meta.Disabled,
		Group:       meta.Group,
	}
	if value, ok := f.explicitDefault(); ok {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, &ShapeError{Path: meta.Name, Reason: "defaultValue is not encodable", Err: err}
		}
		wire.DefaultValue = encoded
	}

	switch typed := f.(type) {
	case *Text:
		wire.MinLength, wire.MaxLength, wire.Pattern = typed.MinLength, typed.MaxLength, typed.Pattern
	case *Textarea:
		wire.MinLength, wire.MaxLength, wire.Rows = typed.MinLength, typed.MaxLength, typed.Rows
	case *Number:
		wire.Min, wire.Max, wire.Step = typed.Min, typed.Max, typed.Step
	case *Select:
		wire.Options = typed.Options
	case *Image:
		wire.Accept, wire.MaxSize = typed.AcceptTypes, typed.MaxSize
	case *Images:
		wire.Accept, wire.MaxSize, wire.MaxItems = typed.AcceptTypes, typed.MaxSize, typed.MaxItems
	case *Array:
		if typed.ItemType == nil {
			return nil, shapeErr(meta.Name, "array fields require itemType")
		}
		item, err := Encode(typed.ItemType)
		if err != nil {
			return nil, err
		}
		wire.ItemType = item
		wire.MinItems, wire.MaxItems = typed.MinItems, typed.MaxItems
	case *Object:
		children, err := encodeChildren(typed.Fields)
		if err != nil {
			return nil, err
		}
		wire.Fields = children
	case *Group:
		children, err := encodeChildren(typed.Fields)
		if err != nil {
			return nil, err
		}
		wire.Fields = children
		wire.Collapsible, wire.DefaultCollapsed = typed.Collapsible, typed.DefaultCollapsed
	}
	return wire, nil
}

func encodeChildren(list List) (json.RawMessage, error) {
	if list == nil {
		list = List{}
	}
	return list.MarshalJSON()
}
