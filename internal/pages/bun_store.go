package pages

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// pageDocumentRecord is the row stored for each page document. Sections are
// kept as a single json column and replaced wholesale on save.
type pageDocumentRecord struct {
	bun.BaseModel `bun:"table:page_documents,alias:pd"`

	ID           uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	PageSchemaID string           `bun:"page_schema_id,notnull" json:"page_schema_id"`
	Slug         string           `bun:"slug,notnull,unique" json:"slug"`
	Title        string           `bun:"title" json:"title"`
	Description  string           `bun:"description" json:"description"`
	Sections     []SectionContent `bun:"sections,type:jsonb,notnull" json:"sections"`
	ModifiedBy   string           `bun:"modified_by" json:"modified_by"`
	LastModified time.Time        `bun:"last_modified,notnull" json:"last_modified"`
	CreatedAt    time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// newPageDocumentRepository builds the go-repository-bun repository for page documents.
func newPageDocumentRepository(db *bun.DB) repository.Repository[*pageDocumentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*pageDocumentRecord]{
		NewRecord: func() *pageDocumentRecord { return &pageDocumentRecord{} },
		GetID: func(r *pageDocumentRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *pageDocumentRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *pageDocumentRecord) string {
			return r.Slug
		},
	})
}

// RegisterModels creates the tables used by BunStore when missing.
func RegisterModels(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return ErrStoreNotConfigured
	}
	models := []any{
		(*pageDocumentRecord)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// BunStore persists page documents through bun.
type BunStore struct {
	repo         repository.Repository[*pageDocumentRecord]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

const pageDocumentNamespace = "page_documents"

// NewBunStore constructs a Store backed by bun.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache constructs a Store backed by bun with optional caching.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	base := newPageDocumentRepository(db)
	store := &BunStore{
		repo: wrapWithCache(base, cacheService, keySerializer),
		now:  time.Now,
	}
	if cacheService != nil && keySerializer != nil {
		store.cacheService = cacheService
		store.cachePrefix = pageDocumentNamespace + cache.KeySeparator
	}
	return store
}

// InvalidateCache drops cached page documents.
func (s *BunStore) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil || s.cachePrefix == "" {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}

func (s *BunStore) Get(ctx context.Context, id uuid.UUID) (*PageContent, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record.toContent(), nil
}

func (s *BunStore) GetBySlug(ctx context.Context, slug string) (*PageContent, error) {
	route := NormalizeRoute(slug)
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", route)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return records[0].toContent(), nil
}

func (s *BunStore) List(ctx context.Context) ([]*PageContent, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", "")
	}
	out := make([]*PageContent, 0, len(records))
	for _, record := range records {
		out = append(out, record.toContent())
	}
	return out, nil
}

func (s *BunStore) Save(ctx context.Context, page *PageContent) (*PageContent, error) {
	if page == nil || page.ID == uuid.Nil {
		return nil, ErrPageRequired
	}
	record := newPageDocumentRecord(page)
	record.UpdatedAt = s.now().UTC()

	existing, err := s.repo.GetByID(ctx, page.ID.String())
	if err != nil {
		mapped := mapRepositoryError(err, "page", page.ID.String())
		if !IsNotFound(mapped) {
			return nil, mapped
		}
		record.CreatedAt = record.UpdatedAt
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, "page", page.ID.String())
		}
		if err := s.InvalidateCache(ctx); err != nil {
			return nil, err
		}
		return created.toContent(), nil
	}

	record.CreatedAt = existing.CreatedAt
	updated, err := s.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"page_schema_id",
			"slug",
			"title",
			"description",
			"sections",
			"modified_by",
			"last_modified",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", page.ID.String())
	}
	if err := s.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return updated.toContent(), nil
}

func (s *BunStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id.String()); err != nil {
		return mapRepositoryError(err, "page", id.String())
	}
	if err := s.repo.Delete(ctx, &pageDocumentRecord{ID: id}); err != nil {
		return mapRepositoryError(err, "page", id.String())
	}
	return s.InvalidateCache(ctx)
}

func newPageDocumentRecord(page *PageContent) *pageDocumentRecord {
	sections := CloneSections(page.Sections)
	if sections == nil {
		sections = []SectionContent{}
	}
	return &pageDocumentRecord{
		ID:           page.ID,
		PageSchemaID: page.PageSchemaID,
		Slug:         NormalizeRoute(page.Slug),
		Title:        page.Metadata.Title,
		Description:  page.Metadata.Description,
		Sections:     sections,
		ModifiedBy:   page.Metadata.ModifiedBy,
		LastModified: page.Metadata.LastModified.UTC(),
	}
}

func (r *pageDocumentRecord) toContent() *PageContent {
	if r == nil {
		return nil
	}
	return &PageContent{
		ID:           r.ID,
		PageSchemaID: r.PageSchemaID,
		Slug:         r.Slug,
		Sections:     normalizeSections(CloneSections(r.Sections)),
		Metadata: Metadata{
			Title:        r.Title,
			Description:  r.Description,
			LastModified: r.LastModified,
			ModifiedBy:   r.ModifiedBy,
		},
	}
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
