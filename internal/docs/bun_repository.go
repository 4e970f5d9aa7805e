package docs

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

// Cache namespaces match what the repositorycache decorator derives from the
// model type names.
const (
	pageCacheNamespace            = "page"
	pageTranslationCacheNamespace = "page_translation"
)

// BunPageRepository persists pages in a relational database via bun.
type BunPageRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Page]
	translations repository.Repository[*PageTranslation]
	cacheService cache.CacheService
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	translationBase := NewPageTranslationRepository(db)
	var svc cache.CacheService
	if cacheService != nil && keySerializer != nil {
		svc = cacheService
	}
	return &BunPageRepository{
		db:           db,
		repo:         wrapWithCache(base, cacheService, keySerializer),
		translations: wrapWithCache(translationBase, cacheService, keySerializer),
		cacheService: svc,
	}
}

// InvalidateCache drops cached page and translation reads. Translation writes
// and hard deletes run as raw transactions the cache decorator never sees, so
// they must invalidate explicitly.
func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil {
		return nil
	}
	if err := r.cacheService.DeleteByPrefix(ctx, pageCacheNamespace+cache.KeySeparator); err != nil {
		return fmt.Errorf("invalidate page cache: %w", err)
	}
	if err := r.cacheService.DeleteByPrefix(ctx, pageTranslationCacheNamespace+cache.KeySeparator); err != nil {
		return fmt.Errorf("invalidate page translation cache: %w", err)
	}
	return nil
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if len(record.Translations) > 0 {
		if err := r.ReplaceTranslations(ctx, created.ID, record.Translations); err != nil {
			return nil, err
		}
		created.Translations = record.Translations
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return r.attachTranslations(ctx, result)
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	if len(records) == 0 {
		return nil, &PageNotFoundError{Key: slug}
	}
	return r.attachTranslations(ctx, records[0])
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.category ASC, ?TableAlias.weight ASC, ?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if _, err := r.attachTranslations(ctx, record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"kind",
			"layout",
			"category",
			"weight",
			"status",
			"published_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, err
	}
	if len(record.Translations) > 0 {
		if err := r.ReplaceTranslations(ctx, record.ID, record.Translations); err != nil {
			return nil, err
		}
		updated.Translations = record.Translations
	}
	return updated, nil
}

func (r *BunPageRepository) ReplaceTranslations(ctx context.Context, pageID uuid.UUID, translations []*PageTranslation) error {
	if r.db == nil {
		return fmt.Errorf("page repository: database not configured")
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PageTranslation)(nil)).
			Where("?TableAlias.page_id = ?", pageID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page translations: %w", err)
		}

		if len(translations) == 0 {
			return nil
		}

		now := time.Now().UTC()
		toInsert := make([]*PageTranslation, 0, len(translations))
		for _, tr := range translations {
			if tr == nil {
				continue
			}
			cloned := *tr
			cloned.PageID = pageID
			if cloned.ID == uuid.Nil {
				cloned.ID = uuid.New()
			}
			if cloned.CreatedAt.IsZero() {
				cloned.CreatedAt = now
			}
			if cloned.UpdatedAt.IsZero() {
				cloned.UpdatedAt = now
			}
			toInsert = append(toInsert, &cloned)
		}

		if len(toInsert) == 0 {
			return nil
		}

		if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
			return fmt.Errorf("insert page translations: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.InvalidateCache(ctx)
}

// ListTranslations returns translations for a page record.
func (r *BunPageRepository) ListTranslations(ctx context.Context, pageID uuid.UUID) ([]*PageTranslation, error) {
	if r.translations == nil {
		return nil, fmt.Errorf("page repository: translations repository not configured")
	}
	records, _, err := r.translations.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.locale ASC")
		}),
	)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID, hardDelete bool) error {
	if !hardDelete {
		return ErrPageSoftDeleteUnsupported
	}
	if r.db == nil {
		return fmt.Errorf("page repository: database not configured")
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PageTranslation)(nil)).
			Where("?TableAlias.page_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page translations: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*Page)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete page: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("page delete rows affected: %w", err)
		}
		if affected == 0 {
			return &PageNotFoundError{Key: id.String()}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.InvalidateCache(ctx)
}

func (r *BunPageRepository) attachTranslations(ctx context.Context, page *Page) (*Page, error) {
	if page == nil {
		return nil, nil
	}
	translations, err := r.ListTranslations(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	page.Translations = translations
	return page, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{
			Key: key,
		}
	}

	return fmt.Errorf("page repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
