// Package markdown renders richtext field values with goldmark and imports
// page content from markdown files with front matter.
package markdown
