// Package schemas embeds the page schemas shipped with the module.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/goliatone/go-sitepages/internal/pages"
)

//go:embed *.json
var files embed.FS

// Builtin returns every embedded page schema, ordered by file name.
func Builtin() ([]pages.PageSchema, error) {
	names, err := fs.Glob(files, "*.json")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []pages.PageSchema
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		loaded, err := pages.DecodeSchemas(data)
		if err != nil {
			return nil, fmt.Errorf("schemas: %s: %w", name, err)
		}
		out = append(out, loaded...)
	}
	return out, nil
}
