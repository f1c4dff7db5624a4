package fields

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDeriveDefaultZeroValues(t *testing.T) {
	cases := []struct {
		name  string
		field Field
		want  any
	}{
		{"text", &Text{Base: Base{Name: "t"}}, ""},
		{"textarea", &Textarea{Base: Base{Name: "t"}}, ""},
		{"richtext", &RichText{Base: Base{Name: "t"}}, ""},
		{"number", &Number{Base: Base{Name: "n"}}, float64(0)},
		{"boolean", &Boolean{Base: Base{Name: "b"}}, false},
		{"select", &Select{Base: Base{Name: "s"}, Options: []Option{{Label: "A", Value: "a"}}}, ""},
		{"image", &Image{Base: Base{Name: "i"}}, ""},
		{"images", &Images{Base: Base{Name: "i"}}, []any{}},
		{"color", &Color{Base: Base{Name: "c"}}, ""},
		{"url", &URL{Base: Base{Name: "u"}}, ""},
		{"array", &Array{Base: Base{Name: "a"}, ItemType: &Text{}}, []any{}},
		{"object", &Object{Base: Base{Name: "o"}, Fields: List{&Text{Base: Base{Name: "x", Label: "X"}, Default: Ptr("ignored")}}}, map[string]any{}},
		{"group", &Group{Base: Base{Name: "g"}, Fields: List{}}, map[string]any{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveDefault(tc.field)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %#v got %#v", tc.want, got)
			}
		})
	}
}

func TestDeriveDefaultExplicitValues(t *testing.T) {
	cases := []struct {
		name  string
		field Field
		want  any
	}{
		{"text", &Text{Default: Ptr("UTTER LORE")}, "UTTER LORE"},
		{"empty text default", &Text{Default: Ptr("")}, ""},
		{"number", &Number{Default: Ptr(885.0)}, 885.0},
		{"boolean false", &Boolean{Default: Ptr(false)}, false},
		{"boolean true", &Boolean{Default: Ptr(true)}, true},
		{"color", &Color{Default: Ptr("rgba(0, 0, 0, 0.5)")}, "rgba(0, 0, 0, 0.5)"},
		{"images", &Images{Default: []string{"/a.png", "/b.png"}}, []any{"/a.png", "/b.png"}},
		{"array", &Array{ItemType: &Text{}, Default: []any{map[string]any{"title": "Clarity"}}}, []any{map[string]any{"title": "Clarity"}}},
		{"object", &Object{Fields: List{}, Default: map[string]any{"k": "v"}}, map[string]any{"k": "v"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveDefault(tc.field)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %#v got %#v", tc.want, got)
			}
		})
	}
}

func TestDeriveDefaultReturnsIndependentCopies(t *testing.T) {
	field := &Array{
		ItemType: &Object{Fields: List{&Text{Base: Base{Name: "title"}}}},
		Default:  []any{map[string]any{"title": "Clarity"}},
	}

	first := DeriveDefault(field).([]any)
	first[0].(map[string]any)["title"] = "mutated"
	first = append(first, "extra")

	second := DeriveDefault(field).([]any)
	if len(second) != 1 {
		t.Fatalf("expected 1 item got %d", len(second))
	}
	if second[0].(map[string]any)["title"] != "Clarity" {
		t.Fatalf("expected schema default to be untouched, got %#v", second[0])
	}
	if field.Default[0].(map[string]any)["title"] != "Clarity" {
		t.Fatalf("schema literal was mutated: %#v", field.Default)
	}
}

func TestDefaultsFor(t *testing.T) {
	list := List{
		&Text{Base: Base{Name: "title"}, Default: Ptr("Hello")},
		&Number{Base: Base{Name: "count"}},
		&Images{Base: Base{Name: "gallery"}},
	}
	got := DefaultsFor(list)
	want := map[string]any{"title": "Hello", "count": float64(0), "gallery": []any{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v got %#v", want, got)
	}
}

func TestNormalize(t *testing.T) {
	input := map[string]any{
		"count":  json.Number("3"),
		"int":    7,
		"nested": map[any]any{"k": int64(2)},
		"tags":   []string{"a", "b"},
	}
	got := Normalize(input)
	want := map[string]any{
		"count":  float64(3),
		"int":    float64(7),
		"nested": map[string]any{"k": float64(2)},
		"tags":   []any{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v got %#v", want, got)
	}
}

func TestDeriveDefaultProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("explicit string defaults are returned verbatim", prop.ForAll(
		func(value string) bool {
			for _, f := range []Field{
				&Text{Default: &value},
				&Textarea{Default: &value},
				&RichText{Default: &value},
				&Select{Default: &value},
				&Image{Default: &value},
				&Color{Default: &value},
				&URL{Default: &value},
			} {
				if DeriveDefault(f) != value {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("explicit number defaults are returned verbatim", prop.ForAll(
		func(value float64) bool {
			return DeriveDefault(&Number{Default: &value}) == value
		},
		gen.Float64(),
	))

	properties.Property("images defaults equal the schema literal and are fresh copies", prop.ForAll(
		func(refs []string) bool {
			field := &Images{Default: refs}
			first, ok := DeriveDefault(field).([]any)
			if !ok || len(first) != len(refs) {
				return false
			}
			for i := range refs {
				if first[i] != refs[i] {
					return false
				}
			}
			if len(first) > 0 {
				first[0] = "changed"
				second := DeriveDefault(field).([]any)
				return second[0] == refs[0]
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("unset defaults yield the kind zero value", prop.ForAll(
		func(name string) bool {
			for _, f := range []Field{
				&Text{Base: Base{Name: name}},
				&Number{Base: Base{Name: name}},
				&Boolean{Base: Base{Name: name}},
				&Array{Base: Base{Name: name}, ItemType: &Text{}},
				&Group{Base: Base{Name: name}, Fields: List{}},
			} {
				if !reflect.DeepEqual(DeriveDefault(f), ZeroValue(f)) {
					return false
				}
			}
			return true
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
