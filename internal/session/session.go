package session

import (
	"sync"
	"time"

	"github.com/goliatone/go-sitepages/internal/editor"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// State is the lifecycle position of an editing session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadFailed
	StateEditing
	StateSaving
	StateSaved
	StateSaveFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load_failed"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateSaveFailed:
		return "save_failed"
	default:
		return "unknown"
	}
}

// Validator checks section data. *validation.PageValidator satisfies it.
type Validator interface {
	ValidateSection(sectionID string, data map[string]any) error
}

// Option configures a Session.
type Option func(*Session)

// WithLocalCache sets the store holding the last known copy of the document.
func WithLocalCache(store pages.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.local = store
		}
	}
}

// WithClock overrides the clock used to stamp metadata.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithModifiedBy records the editor name on every local commit.
func WithModifiedBy(name string) Option {
	return func(s *Session) {
		s.modifiedBy = name
	}
}

// WithEditorOptions forwards options to the views built by View.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(s *Session) {
		s.editorOpts = append(s.editorOpts, opts...)
	}
}

// WithRemoteTimeout bounds each background remote save.
func WithRemoteTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.remoteTimeout = timeout
	}
}

// WithValidator enables strict validation on local commits.
func WithValidator(v Validator) Option {
	return func(s *Session) {
		s.validator = v
	}
}

// Session is a single-document editing session. It is owned by the caller;
// nothing is shared between sessions except the stores passed in.
type Session struct {
	mu sync.Mutex

	schema     pages.PageSchema
	remote     pages.Store
	local      pages.Store
	now        func() time.Time
	logger     interfaces.Logger
	modifiedBy string
	editorOpts []editor.Option
	validator  Validator

	remoteTimeout time.Duration

	state    State
	document *pages.PageContent
	sections []pages.SectionContent
	orphans  []pages.SectionContent
	warning  error

	editSeq uint64
	loadSeq uint64
	saveSeq uint64
}

// Open validates schema and returns an idle session bound to remote.
func Open(schema pages.PageSchema, remote pages.Store, opts ...Option) (*Session, error) {
	if remote == nil {
		return nil, ErrRemoteRequired
	}
	if err := pages.ValidateSchema(schema); err != nil {
		return nil, err
	}
	s := &Session{
		schema: schema,
		remote: remote,
		local:  pages.NewMemoryStore(),
		now:    time.Now,
		logger: logging.NoOp(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = logging.WithPageContext(s.logger, pages.NormalizeRoute(schema.Slug), "", "")
	return s, nil
}

// Schema returns the page schema the session edits.
func (s *Session) Schema() pages.PageSchema {
	return s.schema
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Warning returns the most recent non-fatal load or save error.
func (s *Session) Warning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// Sections returns the reconciled sections in display order.
func (s *Session) Sections() []pages.SectionContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pages.CloneSections(s.sections)
}

// Section returns a single reconciled section.
func (s *Session) Section(id string) (pages.SectionContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := indexOf(s.sections, id)
	if index < 0 {
		return pages.SectionContent{}, false
	}
	return s.sections[index].Clone(), true
}

// Orphans returns stored sections the schema no longer declares.
func (s *Session) Orphans() []pages.SectionContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pages.CloneSections(s.orphans)
}

// Document returns a copy of the working document, orphans included. It is
// nil until a load completes.
func (s *Session) Document() *pages.PageContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *pages.PageContent {
	if s.document == nil {
		return nil
	}
	doc := s.document.Clone()
	doc.Sections = pages.Merge(s.sections, s.orphans)
	return doc
}

// applyLocked replaces the working state with doc reconciled against the
// schema.
func (s *Session) applyLocked(doc *pages.PageContent) error {
	reconciled, err := pages.Reconcile(s.schema.Sections, doc.Sections)
	if err != nil {
		return err
	}
	s.document = doc.Clone()
	s.document.Sections = nil
	s.sections = reconciled.Sections
	s.orphans = reconciled.Orphans
	return nil
}

func indexOf(sections []pages.SectionContent, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}
