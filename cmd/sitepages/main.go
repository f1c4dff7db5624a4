package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/goliatone/go-sitepages/cmd/internal/bootstrap"
	"github.com/goliatone/go-sitepages/internal/markdown"
)

var moduleBuilder = bootstrap.BuildModule

const usage = `usage: sitepages [flags] <command> [args]

commands:
  schemas              list registered page schemas
  defaults <schema-id> print the default data of every section
  seed                 create default documents for schemas without one
  export <slug>        print the published projection of a page
  import <path>        apply a markdown file or directory of markdown files
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("sitepages: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sitepages", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }
	opts := bootstrap.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("command is required")
	}

	module, err := moduleBuilder(*opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	command, params := rest[0], rest[1:]
	switch command {
	case "schemas":
		type summary struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Slug     string `json:"slug"`
			Sections int    `json:"sections"`
		}
		list := []summary{}
		for _, schema := range module.Schemas() {
			list = append(list, summary{ID: schema.ID, Name: schema.Name, Slug: schema.Slug, Sections: len(schema.Sections)})
		}
		return writeJSON(out, list)
	case "defaults":
		if len(params) != 1 {
			return errors.New("defaults expects a schema id")
		}
		defaults, ok := module.Defaults(params[0])
		if !ok {
			return fmt.Errorf("unknown page schema %q", params[0])
		}
		return writeJSON(out, defaults)
	case "seed":
		created, err := module.SeedPages(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "seeded %d page(s)\n", len(created))
		return nil
	case "export":
		if len(params) != 1 {
			return errors.New("export expects a page slug")
		}
		exported, err := module.Export(ctx, params[0])
		if err != nil {
			return err
		}
		return writeJSON(out, exported)
	case "import":
		if len(params) != 1 {
			return errors.New("import expects a markdown file or directory")
		}
		docs, err := loadDocuments(ctx, module.Container().Loader, params[0])
		if err != nil {
			return err
		}
		results, err := module.Importer().ImportAll(ctx, docs)
		for _, result := range results {
			action := "updated"
			if result.Created {
				action = "created"
			}
			fmt.Fprintf(out, "%s %s from %s\n", action, result.Page.Slug, result.Path)
		}
		return err
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadDocuments(ctx context.Context, loader func(root string) *markdown.Loader, path string) ([]*markdown.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loader(path).LoadDirectory(ctx, ".")
	}
	doc, err := loader(filepath.Dir(path)).LoadFile(ctx, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return []*markdown.Document{doc}, nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
