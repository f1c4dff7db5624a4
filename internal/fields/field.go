package fields

// Kind identifies one of the closed set of field kinds a schema may declare.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindRichText Kind = "richtext"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindSelect   Kind = "select"
	KindImage    Kind = "image"
	KindImages   Kind = "images"
	KindColor    Kind = "color"
	KindURL      Kind = "url"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
	KindGroup    Kind = "group"
)

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindText, KindTextarea, KindRichText, KindNumber, KindBoolean, KindSelect, KindImage,
		KindImages, KindColor, KindURL, KindArray, KindObject, KindGroup,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Composite reports whether values of this kind hold nested values.
func (k Kind) Composite() bool {
	switch k {
	case KindImages, KindArray, KindObject, KindGroup:
		return true
	default:
		return false
	}
}

// Base carries the attributes every field kind shares.
type Base struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
	// Group is a presentation hint used to cluster sibling fields in the editor.
	Group string `json:"group,omitempty"`
}

// Meta returns the shared attributes.
func (b Base) Meta() Base { return b }

// Option is a selectable choice of a select field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field is the sealed sum of field kinds. Only the types declared in this
// package implement it.
type Field interface {
	Kind() Kind
	Meta() Base
	Accept(v Visitor)

	zero() any
	explicitDefault() (any, bool)
}

// Visitor dispatches over every field kind. Adding a kind extends this
// interface so every implementation has to handle it.
type Visitor interface {
	VisitText(f *Text)
	VisitTextarea(f *Textarea)
	VisitRichText(f *RichText)
	VisitNumber(f *Number)
	VisitBoolean(f *Boolean)
	VisitSelect(f *Select)
	VisitImage(f *Image)
	VisitImages(f *Images)
	VisitColor(f *Color)
	VisitURL(f *URL)
	VisitArray(f *Array)
	VisitObject(f *Object)
	VisitGroup(f *Group)
}

type Text struct {
	Base
	MinLength *int
	MaxLength *int
	Pattern   string
	Default   *string
}

type Textarea struct {
	Base
	MinLength *int
	MaxLength *int
	Rows      *int
	Default   *string
}

type RichText struct {
	Base
	Default *string
}

type Number struct {
	Base
	Min     *float64
	Max     *float64
	Step    *float64
	Default *float64
}

type Boolean struct {
	Base
	Default *bool
}

type Select struct {
	Base
	Options []Option
	Default *string
}

type Image struct {
	Base
	AcceptTypes string
	MaxSize     *int64
	Default     *string
}

// Images is an ordered list of image references.
type Images struct {
	Base
	AcceptTypes string
	MaxSize     *int64
	MaxItems    *int
	Default     []string
}

type Color struct {
	Base
	Default *string
}

type URL struct {
	Base
	Default *string
}

// Array is a homogeneous list whose elements are described by ItemType.
type Array struct {
	Base
	ItemType Field
	MinItems *int
	MaxItems *int
	Default  []any
}

// Object is a nested record keyed by the names of Fields.
type Object struct {
	Base
	Fields  List
	Default map[string]any
}

// Group behaves like Object and adds collapse hints for the editor.
type Group struct {
	Base
	Fields           List
	Collapsible      bool
	DefaultCollapsed bool
	Default          map[string]any
}

func (*Text) Kind() Kind     { return KindText }
func (*Textarea) Kind() Kind { return KindTextarea }
func (*RichText) Kind() Kind { return KindRichText }
func (*Number) Kind() Kind   { return KindNumber }
func (*Boolean) Kind() Kind  { return KindBoolean }
func (*Select) Kind() Kind   { return KindSelect }
func (*Image) Kind() Kind    { return KindImage }
func (*Images) Kind() Kind   { return KindImages }
func (*Color) Kind() Kind    { return KindColor }
func (*URL) Kind() Kind      { return KindURL }
func (*Array) Kind() Kind    { return KindArray }
func (*Object) Kind() Kind   { return KindObject }
func (*Group) Kind() Kind    { return KindGroup }

func (f *Text) Accept(v Visitor)     { v.VisitText(f) }
func (f *Textarea) Accept(v Visitor) { v.VisitTextarea(f) }
func (f *RichText) Accept(v Visitor) { v.VisitRichText(f) }
func (f *Number) Accept(v Visitor)   { v.VisitNumber(f) }
func (f *Boolean) Accept(v Visitor)  { v.VisitBoolean(f) }
func (f *Select) Accept(v Visitor)   { v.VisitSelect(f) }
func (f *Image) Accept(v Visitor)    { v.VisitImage(f) }
func (f *Images) Accept(v Visitor)   { v.VisitImages(f) }
func (f *Color) Accept(v Visitor)    { v.VisitColor(f) }
func (f *URL) Accept(v Visitor)      { v.VisitURL(f) }
func (f *Array) Accept(v Visitor)    { v.VisitArray(f) }
func (f *Object) Accept(v Visitor)   { v.VisitObject(f) }
func (f *Group) Accept(v Visitor)    { v.VisitGroup(f) }

// HasOption reports whether value is one of the declared options.
func (f *Select) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Children returns the sub-fields of object and group kinds.
func Children(f Field) (List, bool) {
	switch typed := f.(type) {
	case *Object:
		return typed.Fields, true
	case *Group:
		return typed.Fields, true
	default:
		return nil, false
	}
}

// MaxItems returns the list cap of images and array kinds.
func MaxItems(f Field) (int, bool) {
	switch typed := f.(type) {
	case *Images:
		if typed.MaxItems != nil {
			return *typed.MaxItems, true
		}
	case *Array:
		if typed.MaxItems != nil {
			return *typed.MaxItems, true
		}
	}
	return 0, false
}

// List is an ordered set of sibling fields.
type List []Field

// Find returns the sibling named name.
func (l List) Find(name string) (Field, bool) {
	for _, f := range l {
		if f != nil && f.Meta().Name == name {
			return f, true
		}
	}
	return nil, false
}

// Names returns sibling names in declaration order.
func (l List) Names() []string {
	out := make([]string, 0, len(l))
	for _, f := range l {
		if f != nil {
			out = append(out, f.Meta().Name)
		}
	}
	return out
}
