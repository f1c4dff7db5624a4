package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	pagescmd "github.com/goliatone/go-sitepages/internal/commands/pages"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// AdminAPI registers the page document endpoints.
type AdminAPI struct {
	basePath string
	pages    pages.Service
	renderer pages.RichTextRenderer
	logger   interfaces.Logger
	cmdLog   interfaces.Logger

	updateSection   *pagescmd.UpdateSectionHandler
	reorderSections *pagescmd.ReorderSectionsHandler
	deletePage      *pagescmd.DeletePageHandler
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithPageService wires the page service.
func WithPageService(service pages.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.pages = service
		}
	}
}

// WithRenderer sets the richtext renderer used by the export endpoint.
func WithRenderer(renderer pages.RichTextRenderer) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.renderer = renderer
		}
	}
}

// WithLogger sets the logger used for request failures and command handlers.
func WithLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// WithCommandLogger sets the logger handed to the default command handlers.
// It defaults to the request logger.
func WithCommandLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if api != nil && logger != nil {
			api.cmdLog = logger
		}
	}
}

// WithCommandHandlers replaces the command handlers built from the page
// service. Nil handlers keep the defaults.
func WithCommandHandlers(update *pagescmd.UpdateSectionHandler, reorder *pagescmd.ReorderSectionsHandler, remove *pagescmd.DeletePageHandler) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if update != nil {
			api.updateSection = update
		}
		if reorder != nil {
			api.reorderSections = reorder
		}
		if remove != nil {
			api.deletePage = remove
		}
	}
}

// Register attaches the endpoints to the provided router.
func (api *AdminAPI) Register(r chi.Router) error {
	if r == nil {
		return fmt.Errorf("http: router is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}
	if api.pages == nil {
		return fmt.Errorf("http: page service is required")
	}
	api.ensureCommands()

	r.Route(joinPath(api.basePath, ""), func(r chi.Router) {
		api.registerPageRoutes(r)
		api.registerSectionRoutes(r)
		api.registerSchemaRoutes(r)
	})
	return nil
}

// Handler returns a standalone router serving the endpoints.
func (api *AdminAPI) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	if err := api.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (api *AdminAPI) ensureCommands() {
	logger := api.cmdLog
	if logger == nil {
		logger = logging.WithFields(api.logger, map[string]any{"component": "commands"})
	}
	if api.updateSection == nil {
		api.updateSection = pagescmd.NewUpdateSectionHandler(api.pages, logger)
	}
	if api.reorderSections == nil {
		api.reorderSections = pagescmd.NewReorderSectionsHandler(api.pages, logger)
	}
	if api.deletePage == nil {
		api.deletePage = pagescmd.NewDeletePageHandler(api.pages, logger)
	}
}

func (api *AdminAPI) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		api.logger.Error("http.request.failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, payload)
}
