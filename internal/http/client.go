package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitepages/internal/pages"
)

// APIError is a non-success response from the page API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("page api: status %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("page api: status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap maps well known statuses onto the page sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusConflict:
		return pages.ErrSlugExists
	default:
		return nil
	}
}

// Client is a pages.Store backed by the page API.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient targets the API mounted at baseURL, e.g. http://localhost:8080/api.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ pages.Store = (*Client)(nil)

func (c *Client) Get(ctx context.Context, id uuid.UUID) (*pages.PageContent, error) {
	var out pages.PageContent
	if err := c.do(ctx, http.MethodGet, "/pages/"+id.String(), nil, &out); err != nil {
		return nil, notFoundAs(err, "page", id.String())
	}
	return &out, nil
}

func (c *Client) GetBySlug(ctx context.Context, slug string) (*pages.PageContent, error) {
	route := pages.NormalizeRoute(slug)
	var out pages.PageContent
	path := "/pages/by-slug?slug=" + url.QueryEscape(route)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, notFoundAs(err, "page", route)
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context) ([]*pages.PageContent, error) {
	var out []*pages.PageContent
	if err := c.do(ctx, http.MethodGet, "/pages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes the document to the page bound to its slug, creating the page
// when the backend has none.
func (c *Client) Save(ctx context.Context, page *pages.PageContent) (*pages.PageContent, error) {
	if page == nil {
		return nil, pages.ErrPageRequired
	}
	title := page.Metadata.Title
	description := page.Metadata.Description
	modifiedBy := page.Metadata.ModifiedBy
	metadata := pages.MetadataInput{Title: &title, Description: &description, ModifiedBy: &modifiedBy}

	existing, err := c.GetBySlug(ctx, page.Slug)
	switch {
	case err == nil:
		slug := page.Slug
		var out pages.PageContent
		err = c.do(ctx, http.MethodPut, "/pages/"+existing.ID.String(), pages.UpdatePageRequest{
			Slug:     &slug,
			Sections: page.Sections,
			Metadata: metadata,
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	case pages.IsNotFound(err):
		var out pages.PageContent
		err = c.do(ctx, http.MethodPost, "/pages", pages.CreatePageRequest{
			PageSchemaID: page.PageSchemaID,
			Slug:         page.Slug,
			Sections:     page.Sections,
			Metadata:     metadata,
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	default:
		return nil, err
	}
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/pages/"+id.String(), nil, nil); err != nil {
		return notFoundAs(err, "page", id.String())
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("page api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("page api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("page api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil {
			apiErr.Code = payload.Error
			apiErr.Message = payload.Message
		}
		return apiErr
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("page api: decode response: %w", err)
	}
	return nil
}

func notFoundAs(err error, resource, key string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return &pages.NotFoundError{Resource: resource, Key: key}
	}
	return err
}
