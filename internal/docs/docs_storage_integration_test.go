package docs_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsite/internal/docs"
	"github.com/goliatone/go-docsite/pkg/testsupport"
)

func TestPageService_WithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()

	bunDB, err := testsupport.NewSQLiteBunDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	registerPageModels(t, bunDB)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	repo := docs.NewBunPageRepositoryWithCache(bunDB, cacheService, keySerializer)
	svc := docs.NewService(repo,
		docs.WithDefaultLocale("en"),
		docs.WithLocales([]string{"en", "es"}),
	)

	created, err := svc.Create(ctx, docs.CreatePageRequest{
		Kind:     "doc",
		Layout:   "guide",
		Category: "basics",
		Slug:     "getting-started",
		Status:   "published",
		Translations: []docs.PageTranslationInput{
			{
				Locale:   "en",
				Title:    "Getting Started",
				Body:     "# Getting Started\n",
				BodyHTML: "<h1>Getting Started</h1>",
			},
		},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); err != nil {
		t.Fatalf("cached get: %v", err)
	}

	bySlug, err := svc.GetBySlug(ctx, "getting-started")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if len(bySlug.Translations) != 1 {
		t.Fatalf("expected 1 translation, got %d", len(bySlug.Translations))
	}
	if bySlug.Translations[0].Path != "/getting-started/" {
		t.Fatalf("unexpected route path %q", bySlug.Translations[0].Path)
	}
}

func TestPageService_UpdateRefreshesCachedTranslations(t *testing.T) {
	ctx := context.Background()

	bunDB, err := testsupport.NewSQLiteBunDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	registerPageModels(t, bunDB)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}

	repo := docs.NewBunPageRepositoryWithCache(bunDB, cacheService, repocache.NewDefaultKeySerializer())
	svc := docs.NewService(repo, docs.WithDefaultLocale("en"))

	created, err := svc.Create(ctx, docs.CreatePageRequest{
		Kind:     "doc",
		Layout:   "guide",
		Category: "basics",
		Slug:     "null-safety",
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Null Safety", Body: "first draft", Checksum: "v1"},
		},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	// Warm the translation cache before writing through the raw transaction.
	warmed, err := svc.GetBySlug(ctx, "null-safety")
	if err != nil {
		t.Fatalf("warm read: %v", err)
	}
	if warmed.Translations[0].Body != "first draft" {
		t.Fatalf("unexpected initial body %q", warmed.Translations[0].Body)
	}

	if _, err := svc.Update(ctx, docs.UpdatePageRequest{
		ID:       created.ID,
		Kind:     "doc",
		Layout:   "guide",
		Category: "basics",
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Null Safety", Body: "second draft", Checksum: "v2"},
		},
	}); err != nil {
		t.Fatalf("update page: %v", err)
	}

	fresh, err := svc.GetBySlug(ctx, "null-safety")
	if err != nil {
		t.Fatalf("read after update: %v", err)
	}
	if len(fresh.Translations) != 1 {
		t.Fatalf("expected 1 translation, got %d", len(fresh.Translations))
	}
	if fresh.Translations[0].Body != "second draft" {
		t.Fatalf("expected updated body, cached read returned %q", fresh.Translations[0].Body)
	}
}

func TestBunPageRepository_DeleteCascadesTranslations(t *testing.T) {
	ctx := context.Background()

	bunDB, err := testsupport.NewSQLiteBunDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	registerPageModels(t, bunDB)

	repo := docs.NewBunPageRepository(bunDB)
	svc := docs.NewService(repo, docs.WithDefaultLocale("en"))

	created, err := svc.Create(ctx, docs.CreatePageRequest{
		Kind:     "doc",
		Layout:   "guide",
		Category: "basics",
		Slug:     "temp-page",
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Temp", Body: "body", BodyHTML: "<p>body</p>"},
		},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	if err := svc.Delete(ctx, docs.DeletePageRequest{ID: created.ID, HardDelete: true}); err != nil {
		t.Fatalf("delete page: %v", err)
	}

	if _, err := svc.GetBySlug(ctx, "temp-page"); !docs.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	count, err := bunDB.NewSelect().Model((*docs.PageTranslation)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count translations: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected translations removed, found %d", count)
	}
}

func registerPageModels(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	models := []any{
		(*docs.Page)(nil),
		(*docs.PageTranslation)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_page_translations_page_locale_unique ON page_translations(page_id, locale)"); err != nil {
		t.Fatalf("create index idx_page_translations_page_locale_unique: %v", err)
	}
}
