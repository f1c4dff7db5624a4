package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DeriveDefault returns the initial value for f. An explicit default is
// returned as a deep copy equal to the schema literal; otherwise the kind's
// zero value is returned. Sub-fields are not consulted.
func DeriveDefault(f Field) any {
	if f == nil {
		return nil
	}
	if value, ok := f.explicitDefault(); ok {
		return Clone(value)
	}
	return f.zero()
}

// ZeroValue returns the value an editor displays for an absent value of f.
func ZeroValue(f Field) any {
	if f == nil {
		return nil
	}
	return f.zero()
}

// DefaultsFor derives the default record for a list of sibling fields.
func DefaultsFor(list List) map[string]any {
	out := make(map[string]any, len(list))
	for _, f := range list {
		if f == nil {
			continue
		}
		out[f.Meta().Name] = DeriveDefault(f)
	}
	return out
}

func (f *Text) zero() any     { return "" }
func (f *Textarea) zero() any { return "" }
func (f *RichText) zero() any { return "" }
func (f *Number) zero() any   { return float64(0) }
func (f *Boolean) zero() any  { return false }
func (f *Select) zero() any   { return "" }
func (f *Image) zero() any    { return "" }
func (f *Images) zero() any   { return []any{} }
func (f *Color) zero() any    { return "" }
func (f *URL) zero() any      { return "" }
func (f *Array) zero() any    { return []any{} }
func (f *Object) zero() any   { return map[string]any{} }
func (f *Group) zero() any    { return map[string]any{} }

func (f *Text) explicitDefault() (any, bool)     { return stringDefault(f.Default) }
func (f *Textarea) explicitDefault() (any, bool) { return stringDefault(f.Default) }
func (f *RichText) explicitDefault() (any, bool) { return stringDefault(f.Default) }
func (f *Select) explicitDefault() (any, bool)   { return stringDefault(f.Default) }
func (f *Image) explicitDefault() (any, bool)    { return stringDefault(f.Default) }
func (f *Color) explicitDefault() (any, bool)    { return stringDefault(f.Default) }
func (f *URL) explicitDefault() (any, bool)      { return stringDefault(f.Default) }

func (f *Number) explicitDefault() (any, bool) {
	if f.Default == nil {
		return nil, false
	}
	return *f.Default, true
}

func (f *Boolean) explicitDefault() (any, bool) {
	if f.Default == nil {
		return nil, false
	}
	return *f.Default, true
}

func (f *Images) explicitDefault() (any, bool) {
	if f.Default == nil {
		return nil, false
	}
	out := make([]any, len(f.Default))
	for i, ref := range f.Default {
		out[i] = ref
	}
	return out, true
}

func (f *Array) explicitDefault() (any, bool) {
	if f.Default == nil {
		return nil, false
	}
	return f.Default, true
}

func (f *Object) explicitDefault() (any, bool) {
	if f.Default == nil {
		return nil, false
	}
	return f.Default, true
}

func (f *Group) explicitDefault() (any, bool) {
	if f.Default == nil {
		return nil, false
	}
	return f.Default, true
}

func stringDefault(value *string) (any, bool) {
	if value == nil {
		return nil, false
	}
	return *value, true
}

// Clone deep copies a JSON-compatible value. Scalars are returned as is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneRecord(typed)
	case []any:
		if typed == nil {
			return []any(nil)
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	case []string:
		if typed == nil {
			return []string(nil)
		}
		return append([]string{}, typed...)
	case []map[string]any:
		if typed == nil {
			return []map[string]any(nil)
		}
		out := make([]map[string]any, len(typed))
		for i, item := range typed {
			out[i] = CloneRecord(item)
		}
		return out
	default:
		return value
	}
}

// CloneRecord deep copies a record. A nil record stays nil.
func CloneRecord(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for key, value := range record {
		out[key] = Clone(value)
	}
	return out
}

// Normalize converts decoded values into the canonical value model: numbers
// become float64, string slices become []any and maps are keyed by string.
// Decoders differ here (json.Number, yaml integer types, map[any]any).
func Normalize(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case float32:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(typed), 'g', -1, 32), 64)
		return f
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}
		return out
	default:
		return value
	}
}

// NormalizeRecord applies Normalize to every value of record.
func NormalizeRecord(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	normalized, _ := Normalize(record).(map[string]any)
	return normalized
}
