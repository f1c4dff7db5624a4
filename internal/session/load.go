package session

import (
	"context"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
)

// Source names where a loaded document came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceNew    Source = "new"
)

// LoadResult reports the outcome of Load. Err is a *LoadError when the remote
// store failed or had no document, ErrStaleLoad when the result was discarded
// and nil otherwise. The session is usable in every case except a discarded
// first load.
type LoadResult struct {
	Source Source
	Err    error
}

// Load fetches the document by the schema route. Remote failures fall back
// to the local cache and then to schema defaults. A result that arrives after
// a newer load or edit is discarded.
func (s *Session) Load(ctx context.Context) LoadResult {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	editMark := s.editSeq
	s.state = StateLoading
	s.mu.Unlock()

	slug := pages.NormalizeRoute(s.schema.Slug)
	source := SourceRemote
	var loadErr error

	doc, err := s.remote.GetBySlug(ctx, slug)
	if err != nil {
		loadErr = &LoadError{Slug: slug, Err: err}
		fields := []any{"error", err, "not_found", pages.IsNotFound(err)}
		if cached, cacheErr := s.local.GetBySlug(ctx, slug); cacheErr == nil {
			doc = cached
			source = SourceCache
			s.logger.Warn("session.load.cache_fallback", fields...)
		} else {
			doc = nil
			source = SourceNew
			s.logger.Warn("session.load.defaults_fallback", fields...)
		}
	}
	if doc == nil {
		created, createErr := pages.NewPageContent(s.schema, s.now())
		if createErr != nil {
			return LoadResult{Source: source, Err: createErr}
		}
		doc = created
	}

	s.mu.Lock()
	if seq != s.loadSeq || editMark != s.editSeq {
		if s.state == StateLoading && seq == s.loadSeq {
			s.state = s.settledStateLocked()
		}
		s.mu.Unlock()
		s.logger.Debug("session.load.discarded", "source", string(source))
		return LoadResult{Source: source, Err: ErrStaleLoad}
	}
	if err := s.applyLocked(doc); err != nil {
		s.state = StateLoadFailed
		s.mu.Unlock()
		return LoadResult{Source: source, Err: err}
	}
	if loadErr != nil {
		s.state = StateLoadFailed
		s.warning = loadErr
	} else {
		s.state = StateLoaded
		s.warning = nil
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if source == SourceRemote {
		if _, err := s.local.Save(ctx, snapshot); err != nil {
			s.logger.Warn("session.load.cache_refresh_failed", "error", err)
		}
	}
	s.logger.Info("session.load.completed", "source", string(source), logging.FieldPageID, snapshot.ID)
	return LoadResult{Source: source, Err: loadErr}
}

// settledStateLocked picks the state to return to when a load is discarded.
func (s *Session) settledStateLocked() State {
	if s.document == nil {
		return StateIdle
	}
	return StateEditing
}
