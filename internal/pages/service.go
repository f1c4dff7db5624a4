package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/google/uuid"
)

// Service describes page document management on the backend.
type Service interface {
	List(ctx context.Context) ([]*PageContent, error)
	Get(ctx context.Context, id uuid.UUID) (*PageContent, error)
	GetBySlug(ctx context.Context, slug string) (*PageContent, error)
	FindBySchemaID(ctx context.Context, schemaID string) (*PageContent, error)
	Create(ctx context.Context, req CreatePageRequest) (*PageContent, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePageRequest) (*PageContent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetSection(ctx context.Context, pageID uuid.UUID, sectionID string) (SectionContent, error)
	UpdateSection(ctx context.Context, pageID uuid.UUID, sectionID string, req UpdateSectionRequest) (SectionContent, error)
	ReorderSections(ctx context.Context, pageID uuid.UUID, sectionIDs []string) (*PageContent, error)
	Schemas() *Registry
}

// CreatePageRequest captures the payload required to create a page document.
type CreatePageRequest struct {
	PageSchemaID string           `json:"pageSchemaId"`
	Slug         string           `json:"slug"`
	Sections     []SectionContent `json:"sections"`
	Metadata     MetadataInput    `json:"metadata"`
}

// MetadataInput carries the optional metadata of create and update requests.
type MetadataInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ModifiedBy  *string `json:"modifiedBy,omitempty"`
}

// Validate checks the request shape.
func (r CreatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PageSchemaID, validation.Required.Error("page schema id is required")),
		validation.Field(&r.Slug, validation.By(routeRule("pages.create.slug_invalid"))),
		validation.Field(&r.Sections, validation.By(sectionsRule("pages.create.section_invalid"))),
	)
}

// UpdatePageRequest captures mutable document fields. Sections are upserted
// by id; sections not listed keep their stored content.
type UpdatePageRequest struct {
	Slug     *string          `json:"slug,omitempty"`
	Sections []SectionContent `json:"sections,omitempty"`
	Metadata MetadataInput    `json:"metadata"`
}

// Validate checks the request shape.
func (r UpdatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.By(func(value any) error {
			slug, _ := value.(*string)
			if slug == nil {
				return nil
			}
			return routeRule("pages.update.slug_invalid")(*slug)
		})),
		validation.Field(&r.Sections, validation.By(sectionsRule("pages.update.section_invalid"))),
	)
}

// UpdateSectionRequest changes a single stored section. Nil fields are left
// untouched; Data replaces the stored data wholesale.
type UpdateSectionRequest struct {
	Enabled    *bool          `json:"enabled,omitempty"`
	Order      *int           `json:"order,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	ModifiedBy string         `json:"modifiedBy,omitempty"`
}

// Validate checks the request shape.
func (r UpdateSectionRequest) Validate() error {
	if r.Enabled == nil && r.Order == nil && r.Data == nil {
		return validation.Errors{
			"data": validation.NewError("pages.update_section.empty", "at least one of enabled, order or data is required"),
		}
	}
	return nil
}

func routeRule(code string) validation.RuleFunc {
	return func(value any) error {
		route, _ := value.(string)
		if strings.TrimSpace(route) == "" {
			return nil
		}
		if !IsValidRoute(route) {
			return validation.NewError(code, ErrSlugInvalid.Error())
		}
		return nil
	}
}

func sectionsRule(code string) validation.RuleFunc {
	return func(value any) error {
		sections, _ := value.([]SectionContent)
		seen := make(map[string]struct{}, len(sections))
		for _, section := range sections {
			id := strings.TrimSpace(section.ID)
			if id == "" {
				return validation.NewError(code, "section id is required")
			}
			if _, dup := seen[id]; dup {
				return validation.NewError(code, fmt.Sprintf("section %q listed twice", id))
			}
			seen[id] = struct{}{}
		}
		return nil
	}
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp documents.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces identifiers for new documents bound to schemaID.
type IDGenerator func(schemaID string) uuid.UUID

// WithIDGenerator overrides the generator used for created documents.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

type service struct {
	store   Store
	schemas *Registry
	now     func() time.Time
	id      IDGenerator
}

// NewService constructs a page service. A nil registry accepts any schema id.
func NewService(store Store, schemas *Registry, opts ...ServiceOption) Service {
	s := &service{
		store:   store,
		schemas: schemas,
		now:     time.Now,
		id:      func(string) uuid.UUID { return uuid.New() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Schemas() *Registry {
	return s.schemas
}

// List returns every stored document with sections in display order.
func (s *service) List(ctx context.Context) ([]*PageContent, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		SortSections(record.Sections)
	}
	return records, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PageContent, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	SortSections(record.Sections)
	return record, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*PageContent, error) {
	record, err := s.store.GetBySlug(ctx, NormalizeRoute(slug))
	if err != nil {
		return nil, err
	}
	SortSections(record.Sections)
	return record, nil
}

// FindBySchemaID returns the first document bound to a page schema.
func (s *service) FindBySchemaID(ctx context.Context, schemaID string) (*PageContent, error) {
	schemaID = strings.TrimSpace(schemaID)
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.PageSchemaID == schemaID {
			return record, nil
		}
	}
	return nil, &NotFoundError{Resource: "page", Key: schemaID}
}

// Create stores a new document. Sections the request omits are filled in
// from the schema defaults.
func (s *service) Create(ctx context.Context, req CreatePageRequest) (*PageContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	schemaID := strings.TrimSpace(req.PageSchemaID)
	schema, known := s.schemas.Get(schemaID)
	if s.schemas != nil && !known {
		return nil, fmt.Errorf("%w: %q", ErrSchemaUnknown, schemaID)
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = schema.Slug
	}
	if !IsValidRoute(slug) {
		return nil, ErrSlugInvalid
	}
	slug = NormalizeRoute(slug)
	if err := s.ensureSlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	sections := normalizeSections(CloneSections(req.Sections))
	if known {
		reconciled, err := Reconcile(schema.Sections, sections)
		if err != nil {
			return nil, err
		}
		sections = Merge(reconciled.Sections, reconciled.Orphans)
	}
	if sections == nil {
		sections = []SectionContent{}
	}

	record := &PageContent{
		ID:           s.id(schemaID),
		PageSchemaID: schemaID,
		Slug:         slug,
		Sections:     sections,
		Metadata: Metadata{
			Title:        stringValue(req.Metadata.Title, schema.Name),
			Description:  stringValue(req.Metadata.Description, schema.Description),
			ModifiedBy:   stringValue(req.Metadata.ModifiedBy, ""),
			LastModified: s.now(),
		},
	}
	created, err := s.store.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	SortSections(created.Sections)
	return created, nil
}

// Update applies metadata changes and upserts the listed sections.
func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdatePageRequest) (*PageContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug := NormalizeRoute(*req.Slug)
		if slug != NormalizeRoute(record.Slug) {
			if err := s.ensureSlugFree(ctx, slug, record.ID); err != nil {
				return nil, err
			}
		}
		record.Slug = slug
	}
	record.Metadata.Title = stringValue(req.Metadata.Title, record.Metadata.Title)
	record.Metadata.Description = stringValue(req.Metadata.Description, record.Metadata.Description)
	record.Metadata.ModifiedBy = stringValue(req.Metadata.ModifiedBy, record.Metadata.ModifiedBy)

	for _, section := range req.Sections {
		record.Sections = upsertSection(record.Sections, section.Clone())
	}
	record.Sections = normalizeSections(record.Sections)
	record.Metadata.LastModified = s.now()
	return s.save(ctx, record)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrPageRequired
	}
	return s.store.Delete(ctx, id)
}

func (s *service) GetSection(ctx context.Context, pageID uuid.UUID, sectionID string) (SectionContent, error) {
	record, err := s.Get(ctx, pageID)
	if err != nil {
		return SectionContent{}, err
	}
	section, ok := record.Section(sectionID)
	if !ok {
		return SectionContent{}, &NotFoundError{Resource: "section", Key: sectionID}
	}
	return section, nil
}

// UpdateSection changes one section. A section declared by the schema but
// never stored starts from its defaults.
func (s *service) UpdateSection(ctx context.Context, pageID uuid.UUID, sectionID string, req UpdateSectionRequest) (SectionContent, error) {
	if err := req.Validate(); err != nil {
		return SectionContent{}, err
	}
	record, err := s.Get(ctx, pageID)
	if err != nil {
		return SectionContent{}, err
	}
	section, ok := record.Section(sectionID)
	if !ok {
		declared, found := s.sectionSchema(record.PageSchemaID, sectionID)
		if !found {
			return SectionContent{}, &NotFoundError{Resource: "section", Key: sectionID}
		}
		section = DefaultSection(declared)
	}
	if req.Enabled != nil {
		section.Enabled = *req.Enabled
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if req.Data != nil {
		section.Data = fields.NormalizeRecord(fields.CloneRecord(req.Data))
	}
	record.Sections = upsertSection(record.Sections, section)
	if req.ModifiedBy != "" {
		record.Metadata.ModifiedBy = req.ModifiedBy
	}
	record.Metadata.LastModified = s.now()

	saved, err := s.save(ctx, record)
	if err != nil {
		return SectionContent{}, err
	}
	stored, _ := saved.Section(sectionID)
	return stored, nil
}

// ReorderSections sets each listed section's order to its position in ids.
// Every id must name a stored section.
func (s *service) ReorderSections(ctx context.Context, pageID uuid.UUID, sectionIDs []string) (*PageContent, error) {
	record, err := s.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	positions := make(map[string]int, len(sectionIDs))
	for index, id := range sectionIDs {
		if _, ok := record.Section(id); !ok {
			return nil, &NotFoundError{Resource: "section", Key: id}
		}
		positions[id] = index
	}
	for i := range record.Sections {
		if index, ok := positions[record.Sections[i].ID]; ok {
			record.Sections[i].Order = index
		}
	}
	record.Metadata.LastModified = s.now()
	return s.save(ctx, record)
}

func (s *service) save(ctx context.Context, record *PageContent) (*PageContent, error) {
	saved, err := s.store.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	SortSections(saved.Sections)
	return saved, nil
}

func (s *service) ensureSlugFree(ctx context.Context, slug string, owner uuid.UUID) error {
	existing, err := s.store.GetBySlug(ctx, slug)
	if err == nil && existing != nil && existing.ID != owner {
		return ErrSlugExists
	}
	if err != nil && !errors.Is(err, ErrPageNotFound) {
		return err
	}
	return nil
}

func (s *service) sectionSchema(pageSchemaID, sectionID string) (SectionSchema, bool) {
	schema, ok := s.schemas.Get(pageSchemaID)
	if !ok {
		return SectionSchema{}, false
	}
	return schema.Section(sectionID)
}

func upsertSection(sections []SectionContent, section SectionContent) []SectionContent {
	for i := range sections {
		if sections[i].ID == section.ID {
			sections[i] = section
			return sections
		}
	}
	return append(sections, section)
}

func stringValue(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return strings.TrimSpace(*value)
}
