package session

import (
	"context"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/internal/validation"
)

// LocalCommit is the synchronous first phase of a save. Once it exists the
// session holds the committed sections regardless of what the remote does.
type LocalCommit struct {
	Sequence uint64
	Document *pages.PageContent
	// Issues holds strict validation issues keyed by section id. They never
	// block the commit.
	Issues map[string][]validation.ValidationIssue
	// Err is set when nothing could be committed, or when the local cache
	// refused the document. In the latter case the session state still holds
	// the commit.
	Err error
}

// RemoteSync is the asynchronous second phase of a save.
type RemoteSync struct {
	Sequence uint64
	Document *pages.PageContent
	// Skipped is set when a newer save was issued before this one was sent.
	Skipped bool
	// Stale is set when a newer save was issued while this one was in flight.
	// Stale completions never change the session state.
	Stale bool
	Err   error
}

// SaveOperation is the handle returned by Save and SaveSections.
type SaveOperation struct {
	Local  LocalCommit
	done   chan struct{}
	remote RemoteSync
}

// Done is closed when the remote phase settles.
func (op *SaveOperation) Done() <-chan struct{} {
	return op.done
}

// Wait blocks until the remote phase settles and returns its outcome.
func (op *SaveOperation) Wait() RemoteSync {
	<-op.done
	return op.remote
}

func settled(local LocalCommit, remote RemoteSync) *SaveOperation {
	op := &SaveOperation{Local: local, done: make(chan struct{}), remote: remote}
	close(op.done)
	return op
}

// Save commits the current working sections.
func (s *Session) Save(ctx context.Context) *SaveOperation {
	return s.SaveSections(ctx, s.Sections())
}

// SaveSections replaces the document sections with edited, stamps the
// metadata and updates the local cache, then sends the document to the remote
// store in the background. Declared sections missing from edited are filled
// from schema defaults; undeclared ones join the orphans. Cancelling ctx does
// not abort the remote phase once it has started; only the remote timeout
// bounds it.
func (s *Session) SaveSections(ctx context.Context, edited []pages.SectionContent) *SaveOperation {
	s.mu.Lock()
	if s.document == nil {
		s.mu.Unlock()
		return settled(LocalCommit{Err: ErrNotLoaded}, RemoteSync{Skipped: true, Err: ErrNotLoaded})
	}
	reconciled, err := pages.Reconcile(s.schema.Sections, normalized(edited))
	if err != nil {
		s.mu.Unlock()
		return settled(LocalCommit{Err: err}, RemoteSync{Skipped: true, Err: err})
	}
	committed := pages.CloneSections(reconciled.Sections)
	s.sections = reconciled.Sections
	s.orphans = mergeOrphans(s.orphans, reconciled.Orphans)
	s.document.Metadata.LastModified = s.now().UTC()
	if s.modifiedBy != "" {
		s.document.Metadata.ModifiedBy = s.modifiedBy
	}
	s.editSeq++
	s.saveSeq++
	seq := s.saveSeq
	s.state = StateSaving
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	local := LocalCommit{
		Sequence: seq,
		Document: snapshot.Clone(),
		Issues:   s.validate(committed),
	}
	if _, err := s.local.Save(ctx, snapshot); err != nil {
		local.Err = err
		s.logger.Warn("session.save.local_cache_failed", logging.FieldSequence, seq, "error", err)
	}

	op := &SaveOperation{Local: local, done: make(chan struct{})}
	go s.sync(context.WithoutCancel(ctx), op, snapshot)
	return op
}

func (s *Session) sync(ctx context.Context, op *SaveOperation, snapshot *pages.PageContent) {
	defer close(op.done)
	seq := op.Local.Sequence
	ctx = logging.ContextWithSave(ctx, snapshot.ID, seq)
	logger := s.logger.WithContext(ctx)

	s.mu.Lock()
	superseded := seq != s.saveSeq
	s.mu.Unlock()
	if superseded {
		op.remote = RemoteSync{Sequence: seq, Skipped: true, Err: ErrSaveSuperseded}
		logger.Debug("session.save.skipped")
		return
	}

	if s.remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.remoteTimeout)
		defer cancel()
	}
	saved, err := s.remote.Save(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.saveSeq {
		op.remote = RemoteSync{Sequence: seq, Document: saved, Stale: true, Err: err}
		logger.Debug("session.save.stale", "latest", s.saveSeq)
		return
	}
	if err != nil {
		saveErr := &SaveError{PageID: snapshot.ID, Slug: snapshot.Slug, Sequence: seq, Err: err}
		s.state = StateSaveFailed
		s.warning = saveErr
		op.remote = RemoteSync{Sequence: seq, Err: saveErr}
		logger.Warn("session.save.remote_failed", "error", err)
		return
	}
	if saved != nil && saved.ID != snapshot.ID && s.document != nil {
		s.document.ID = saved.ID
	}
	s.state = StateSaved
	s.warning = nil
	op.remote = RemoteSync{Sequence: seq, Document: saved}
	logger.Info("session.save.completed")
}

func (s *Session) validate(sections []pages.SectionContent) map[string][]validation.ValidationIssue {
	if s.validator == nil {
		return nil
	}
	var issues map[string][]validation.ValidationIssue
	for _, section := range sections {
		if err := s.validator.ValidateSection(section.ID, section.Data); err != nil {
			if issues == nil {
				issues = map[string][]validation.ValidationIssue{}
			}
			issues[section.ID] = validation.Issues(err)
		}
	}
	return issues
}

func normalized(sections []pages.SectionContent) []pages.SectionContent {
	out := pages.CloneSections(sections)
	for i := range out {
		out[i].Data = fields.NormalizeRecord(out[i].Data)
	}
	return out
}

// mergeOrphans keeps previous orphans and lets newly orphaned sections with
// the same id replace them.
func mergeOrphans(previous, next []pages.SectionContent) []pages.SectionContent {
	if len(next) == 0 {
		return previous
	}
	out := make([]pages.SectionContent, 0, len(previous)+len(next))
	replaced := make(map[string]bool, len(next))
	for _, orphan := range next {
		replaced[orphan.ID] = true
	}
	for _, orphan := range previous {
		if !replaced[orphan.ID] {
			out = append(out, orphan)
		}
	}
	return append(out, next...)
}
