package session

import (
	"fmt"

	"github.com/goliatone/go-sitepages/internal/editor"
	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
)

// View returns a live editor view over a section's data. Every change made
// through the view is written back into the session.
func (s *Session) View(sectionID string) (*editor.View, error) {
	sectionSchema, ok := s.schema.Section(sectionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
	}
	s.mu.Lock()
	if s.document == nil {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	index := indexOf(s.sections, sectionID)
	if index < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSectionMissing, sectionID)
	}
	data := fields.CloneRecord(s.sections[index].Data)
	s.mu.Unlock()

	opts := append([]editor.Option{editor.WithBasePath(sectionID)}, s.editorOpts...)
	return editor.RenderForm(sectionSchema.Fields, data, s.writeBack(sectionID), opts...), nil
}

// writeBack stores view edits in the session. A failed write is kept as the
// session warning.
func (s *Session) writeBack(sectionID string) func(map[string]any) {
	return func(next map[string]any) {
		if err := s.UpdateSection(sectionID, next); err != nil {
			s.mu.Lock()
			s.warning = err
			s.mu.Unlock()
			s.logger.Warn("session.view.update_failed", logging.FieldSectionID, sectionID, "error", err)
		}
	}
}

// UpdateSection replaces the data of a section.
func (s *Session) UpdateSection(sectionID string, data map[string]any) error {
	return s.edit(sectionID, func(section *pages.SectionContent) {
		section.Data = fields.NormalizeRecord(fields.CloneRecord(data))
		if section.Data == nil {
			section.Data = map[string]any{}
		}
	})
}

// SetSectionEnabled toggles section visibility.
func (s *Session) SetSectionEnabled(sectionID string, enabled bool) error {
	return s.edit(sectionID, func(section *pages.SectionContent) {
		section.Enabled = enabled
	})
}

// ReorderSections sets each listed section's order to its position in ids
// and re-sorts the working sections.
func (s *Session) ReorderSections(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.document == nil {
		return ErrNotLoaded
	}
	positions := make(map[string]int, len(ids))
	for index, id := range ids {
		if indexOf(s.sections, id) < 0 {
			return fmt.Errorf("%w: %s", ErrSectionMissing, id)
		}
		positions[id] = index
	}
	for i := range s.sections {
		if index, ok := positions[s.sections[i].ID]; ok {
			s.sections[i].Order = index
		}
	}
	pages.SortSections(s.sections)
	s.touchLocked()
	return nil
}

// ResetToDefault discards every section and orphan in favour of the schema
// defaults. The document identity and route are kept.
func (s *Session) ResetToDefault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.document == nil {
		return ErrNotLoaded
	}
	reconciled, err := pages.Reconcile(s.schema.Sections, nil)
	if err != nil {
		return err
	}
	s.sections = reconciled.Sections
	s.orphans = nil
	s.touchLocked()
	s.logger.Info("session.reset")
	return nil
}

func (s *Session) edit(sectionID string, mutate func(*pages.SectionContent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.document == nil {
		return ErrNotLoaded
	}
	index := indexOf(s.sections, sectionID)
	if index < 0 {
		if _, declared := s.schema.Section(sectionID); !declared {
			return fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
		}
		return fmt.Errorf("%w: %s", ErrSectionMissing, sectionID)
	}
	mutate(&s.sections[index])
	s.touchLocked()
	return nil
}

// touchLocked records an edit. Pending loads become stale.
func (s *Session) touchLocked() {
	s.editSeq++
	if s.state != StateSaving {
		s.state = StateEditing
	}
}
