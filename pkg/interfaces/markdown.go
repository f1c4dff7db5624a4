package interfaces

import "context"

// MarkdownRenderer converts Markdown into HTML. Rich text fields are stored
// as Markdown and rendered on export.
type MarkdownRenderer interface {
	// Render converts Markdown bytes using the renderer's configured extensions.
	Render(markdown []byte) ([]byte, error)
	// RenderHTML renders a single rich text value.
	RenderHTML(ctx context.Context, source string) (string, error)
}
