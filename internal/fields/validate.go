package fields

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks a field list for structural validity: every field is
// named, sibling names are unique, composite kinds declare their nested
// definitions and numeric bounds are consistent. The first violation is
// returned as a *ShapeError.
func Validate(list List) error {
	return validateList(list, "")
}

// ValidateField checks a single definition and its descendants.
func ValidateField(f Field) error {
	return validateField(f, "", true)
}

func validateList(list List, path string) error {
	seen := make(map[string]struct{}, len(list))
	for i, f := range list {
		if f == nil {
			return shapeErr(fmt.Sprintf("%s[%d]", path, i), "nil field definition")
		}
		name := f.Meta().Name
		if _, dup := seen[name]; dup && name != "" {
			return &ShapeError{Path: joinPath(path, name), Err: ErrDuplicateFieldName}
		}
		seen[name] = struct{}{}
		if err := validateField(f, path, true); err != nil {
			return err
		}
	}
	return nil
}

func validateField(f Field, parent string, named bool) error {
	if f == nil {
		return shapeErr(parent, "nil field definition")
	}
	meta := f.Meta()
	path := joinPath(parent, meta.Name)

	rules := []validation.Rule{validation.By(fieldName)}
	if named {
		rules = append([]validation.Rule{validation.Required.Error("field name is required")}, rules...)
	}
	if err := validation.ValidateStruct(&meta,
		validation.Field(&meta.Name, rules...),
	); err != nil {
		return &ShapeError{Path: path, Reason: flatten(err), Err: err}
	}

	switch typed := f.(type) {
	case *Text:
		return validateBounds(path, "length", intRange(typed.MinLength, typed.MaxLength))
	case *Textarea:
		if typed.Rows != nil && *typed.Rows < 0 {
			return shapeErr(path, "rows must not be negative")
		}
		return validateBounds(path, "length", intRange(typed.MinLength, typed.MaxLength))
	case *Number:
		if typed.Step != nil && *typed.Step <= 0 {
			return shapeErr(path, "step must be positive")
		}
		return validateBounds(path, "value", floatRange(typed.Min, typed.Max))
	case *Select:
		values := make(map[string]struct{}, len(typed.Options))
		for _, opt := range typed.Options {
			if _, dup := values[opt.Value]; dup {
				return shapeErr(path, fmt.Sprintf("duplicate option value %q", opt.Value))
			}
			values[opt.Value] = struct{}{}
		}
	case *Images:
		if typed.MaxItems != nil && *typed.MaxItems < 0 {
			return shapeErr(path, "maxItems must not be negative")
		}
	case *Array:
		if typed.ItemType == nil {
			return shapeErr(path, "array fields require itemType")
		}
		if err := validateBounds(path, "items", intRange(typed.MinItems, typed.MaxItems)); err != nil {
			return err
		}
		if typed.MaxItems != nil && *typed.MaxItems < 0 {
			return shapeErr(path, "maxItems must not be negative")
		}
		return validateField(typed.ItemType, path+"[]", false)
	case *Object:
		if typed.Fields == nil {
			return shapeErr(path, "object fields require fields")
		}
		return validateList(typed.Fields, path)
	case *Group:
		if typed.Fields == nil {
			return shapeErr(path, "group fields require fields")
		}
		return validateList(typed.Fields, path)
	}
	return nil
}

func fieldName(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	if strings.TrimSpace(name) != name || strings.ContainsAny(name, ".[] \t\n") {
		return validation.NewError("fields.name.invalid", "field name must not contain whitespace, dots or brackets")
	}
	return nil
}

type bounds struct {
	set      bool
	min, max float64
}

func intRange(min, max *int) bounds {
	if min == nil || max == nil {
		return bounds{}
	}
	return bounds{set: true, min: float64(*min), max: float64(*max)}
}

func floatRange(min, max *float64) bounds {
	if min == nil || max == nil {
		return bounds{}
	}
	return bounds{set: true, min: *min, max: *max}
}

func validateBounds(path, label string, b bounds) error {
	if b.set && b.min > b.max {
		return shapeErr(path, fmt.Sprintf("minimum %s exceeds maximum", label))
	}
	return nil
}

func flatten(err error) string {
	var errs validation.Errors
	if errors.As(err, &errs) {
		parts := make([]string, 0, len(errs))
		for key, inner := range errs {
			parts = append(parts, key+": "+inner.Error())
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
