package editor

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-sitepages/internal/fields"
)

// Option customises rendering.
type Option func(*options)

type options struct {
	strictSelect bool
	basePath     string
}

// WithStrictSelect rejects select values outside the declared options.
// By default such values are preserved and reported through View.Matched.
func WithStrictSelect() Option {
	return func(o *options) {
		o.strictSelect = true
	}
}

// WithBasePath prefixes every view path, e.g. with a section id.
func WithBasePath(path string) Option {
	return func(o *options) {
		o.basePath = path
	}
}

// View is the editable projection of a field and its current value. Edits
// made through a view hand the complete replacement value for that subtree
// to the parent, and ultimately to the onChange callback given to Render.
//
// Views remain valid after edits: ancestors update in place. List views
// rebuild their Items after structural edits (Add, RemoveAt, Move, Set) and
// the replaced views are detached; editing a detached view returns
// ErrDetachedView. A view tree is not safe for concurrent use.
type View struct {
	Field       fields.Field
	Kind        fields.Kind
	Name        string
	Path        string
	Label       string
	Description string
	Placeholder string
	Group       string
	Required    bool
	Disabled    bool

	// Value is the stored value; nil when the value is absent.
	Value any
	// Present reports whether a value is stored for this field.
	Present bool
	// Display is what an editor shows: the value, or the kind zero value when absent.
	Display any

	Children []*View
	Items    []*View
	Options  []fields.Option
	// Matched is false when a select holds a value outside its options.
	Matched bool
	// CanAdd reports whether another list item may be appended.
	CanAdd      bool
	Collapsible bool
	Collapsed   bool

	parent   *View
	key      string
	index    int
	onChange func(any)
	opts     *options
	detached bool
}

// Render builds the view tree for f holding value. onChange receives the
// complete new value after every edit.
func Render(f fields.Field, value any, onChange func(any), opts ...Option) *View {
	cfg := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if onChange == nil {
		onChange = func(any) {}
	}
	v := &View{onChange: onChange, opts: cfg, index: -1}
	v.init(f, cfg.basePath, value, value != nil)
	return v
}

// RenderForm renders a list of sibling fields over a record, the way a
// section form is edited. The root view is an object view without a name.
func RenderForm(list fields.List, values map[string]any, onChange func(map[string]any), opts ...Option) *View {
	root := &fields.Object{Fields: list}
	var value any
	if values != nil {
		value = values
	}
	return Render(root, value, func(next any) {
		if onChange == nil {
			return
		}
		record, _ := next.(map[string]any)
		onChange(record)
	}, opts...)
}

func (v *View) init(f fields.Field, path string, value any, present bool) {
	meta := f.Meta()
	v.Field = f
	v.Kind = f.Kind()
	v.Name = meta.Name
	v.Path = path
	v.Label = meta.Label
	v.Description = meta.Description
	v.Placeholder = meta.Placeholder
	v.Group = meta.Group
	v.Required = meta.Required
	v.Disabled = meta.Disabled || (v.parent != nil && v.parent.Disabled)
	v.setValue(value, present)
	f.Accept(&builder{view: v})
}

func (v *View) setValue(value any, present bool) {
	v.Value = value
	v.Present = present && value != nil
	if v.Present {
		v.Display = value
	} else {
		v.Display = fields.ZeroValue(v.Field)
	}
}

// builder fills the kind specific parts of a view.
type builder struct {
	view *View
}

func (b *builder) VisitText(*fields.Text)         {}
func (b *builder) VisitTextarea(*fields.Textarea) {}
func (b *builder) VisitRichText(*fields.RichText) {}
func (b *builder) VisitNumber(*fields.Number)     {}
func (b *builder) VisitBoolean(*fields.Boolean)   {}
func (b *builder) VisitImage(*fields.Image)       {}
func (b *builder) VisitColor(*fields.Color)       {}
func (b *builder) VisitURL(*fields.URL)           {}

func (b *builder) VisitSelect(f *fields.Select) {
	v := b.view
	v.Options = append([]fields.Option(nil), f.Options...)
	v.Matched = true
	if v.Present {
		str, _ := v.Value.(string)
		if !f.HasOption(str) {
			v.Matched = false
			v.Display = ""
		}
	}
}

func (b *builder) VisitImages(f *fields.Images) {
	item := &fields.Image{
		Base:        fields.Base{Label: f.Label, Disabled: f.Disabled},
		AcceptTypes: f.AcceptTypes,
		MaxSize:     f.MaxSize,
	}
	b.view.buildItems(item, f.MaxItems)
}

func (b *builder) VisitArray(f *fields.Array) {
	b.view.buildItems(f.ItemType, f.MaxItems)
}

func (b *builder) VisitObject(f *fields.Object) {
	b.view.buildChildren(f.Fields)
}

func (b *builder) VisitGroup(f *fields.Group) {
	v := b.view
	v.Collapsible = f.Collapsible
	v.Collapsed = f.Collapsible && f.DefaultCollapsed
	v.buildChildren(f.Fields)
}

func (v *View) buildChildren(list fields.List) {
	record := asRecord(v.Value)
	v.Children = make([]*View, 0, len(list))
	for _, f := range list {
		if f == nil || f.Meta().Hidden {
			continue
		}
		name := f.Meta().Name
		value, ok := record[name]
		child := &View{parent: v, key: name, index: -1, opts: v.opts}
		child.init(f, joinPath(v.Path, name), value, ok)
		v.Children = append(v.Children, child)
	}
}

func (v *View) buildItems(item fields.Field, maxItems *int) {
	list := asList(v.Value)
	v.Items = make([]*View, 0, len(list))
	if item != nil {
		for i, value := range list {
			child := &View{parent: v, index: i, opts: v.opts}
			child.init(item, fmt.Sprintf("%s[%d]", v.Path, i), value, true)
			v.Items = append(v.Items, child)
		}
	}
	v.CanAdd = !v.Disabled && (maxItems == nil || len(list) < *maxItems)
}

// Child returns the visible child view named name.
func (v *View) Child(name string) (*View, bool) {
	for _, child := range v.Children {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// Item returns the list item view at index.
func (v *View) Item(index int) (*View, bool) {
	if index < 0 || index >= len(v.Items) {
		return nil, false
	}
	return v.Items[index], true
}

// Lookup resolves a dotted path of child names relative to v. List items
// are addressed by their numeric position ("items.0.title").
func (v *View) Lookup(names ...string) (*View, bool) {
	current := v
	for _, name := range names {
		if current.Kind == fields.KindArray || current.Kind == fields.KindImages {
			index, err := strconv.Atoi(name)
			if err != nil {
				return nil, false
			}
			next, ok := current.Item(index)
			if !ok {
				return nil, false
			}
			current = next
			continue
		}
		next, ok := current.Child(name)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Toggle flips the collapsed state of a collapsible group. It is a
// presentation concern and does not change the value.
func (v *View) Toggle() {
	if v.Collapsible {
		v.Collapsed = !v.Collapsed
	}
}

// Set replaces the value of this field. Composite kinds take the whole new
// subtree and rebuild their child views.
func (v *View) Set(value any) error {
	if err := v.requireAttached(); err != nil {
		return err
	}
	if v.Disabled {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, v.Path)
	}
	next, err := coerce(v, value)
	if err != nil {
		return err
	}
	v.replace(next)
	return nil
}

// Add appends a new item to an images or array field: an empty reference
// for images and the derived default of the item definition for arrays.
// It reports false without changing anything when the list is at MaxItems.
func (v *View) Add() (bool, error) {
	if err := v.requireList(); err != nil {
		return false, err
	}
	if !v.CanAdd {
		return false, nil
	}
	var item any
	switch f := v.Field.(type) {
	case *fields.Images:
		item = ""
	case *fields.Array:
		item = fields.DeriveDefault(f.ItemType)
	}
	v.replace(AppendItem(v.Value, item))
	return true, nil
}

// UpdateAt replaces the list item at index.
func (v *View) UpdateAt(index int, value any) error {
	if err := v.requireList(); err != nil {
		return err
	}
	item, ok := v.Item(index)
	if !ok {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(v.Items))
	}
	return item.Set(value)
}

// RemoveAt deletes the list item at index; later items shift down.
func (v *View) RemoveAt(index int) error {
	if err := v.requireList(); err != nil {
		return err
	}
	next, err := RemoveItem(v.Value, index)
	if err != nil {
		return err
	}
	v.replace(next)
	return nil
}

// Move relocates the list item at from to position to.
func (v *View) Move(from, to int) error {
	if err := v.requireList(); err != nil {
		return err
	}
	next, err := MoveItem(v.Value, from, to)
	if err != nil {
		return err
	}
	v.replace(next)
	return nil
}

// SetChild replaces the value of the named sub-field of an object or group.
func (v *View) SetChild(name string, value any) error {
	if v.Kind != fields.KindObject && v.Kind != fields.KindGroup {
		return fmt.Errorf("%w: %s", ErrNotAnObject, v.Path)
	}
	child, ok := v.Child(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChild, joinPath(v.Path, name))
	}
	return child.Set(value)
}

func (v *View) requireList() error {
	if err := v.requireAttached(); err != nil {
		return err
	}
	if v.Kind != fields.KindArray && v.Kind != fields.KindImages {
		return fmt.Errorf("%w: %s", ErrNotAList, v.Path)
	}
	if v.Disabled {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, v.Path)
	}
	return nil
}

// requireAttached rejects views dropped by a structural edit of an ancestor.
// Stale list items also match ErrIndexOutOfRange.
func (v *View) requireAttached() error {
	if !v.detached {
		return nil
	}
	if v.index >= 0 {
		return fmt.Errorf("%w: %w: %s", ErrDetachedView, ErrIndexOutOfRange, v.Path)
	}
	return fmt.Errorf("%w: %s", ErrDetachedView, v.Path)
}

func (v *View) detach() {
	v.detached = true
	for _, child := range v.Children {
		child.detach()
	}
	for _, item := range v.Items {
		item.detach()
	}
}

// replace installs a new value for this subtree, rebuilds the kind specific
// parts and propagates the change upward.
func (v *View) replace(next any) {
	for _, child := range v.Children {
		child.detach()
	}
	for _, item := range v.Items {
		item.detach()
	}
	v.setValue(next, true)
	v.Children, v.Items = nil, nil
	collapsed := v.Collapsed
	v.Field.Accept(&builder{view: v})
	v.Collapsed = collapsed
	v.propagate(next)
}

// childChanged merges a child's new value into this view's value without
// rebuilding sibling views.
func (v *View) childChanged(child *View, value any) {
	var next any
	if child.index >= 0 {
		replaced, err := ReplaceItem(v.Value, child.index, value)
		if err != nil {
			return
		}
		next = replaced
	} else {
		next = SetKey(v.Value, child.key, value)
	}
	v.setValue(next, true)
	if v.Kind == fields.KindArray || v.Kind == fields.KindImages {
		limit, capped := fields.MaxItems(v.Field)
		v.CanAdd = !v.Disabled && (!capped || len(asList(next)) < limit)
	}
	v.propagate(next)
}

func (v *View) propagate(next any) {
	if v.parent != nil {
		v.parent.childChanged(v, next)
		return
	}
	if v.onChange != nil {
		v.onChange(next)
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
