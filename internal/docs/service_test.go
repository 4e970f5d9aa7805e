package docs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-docsite/internal/domain"
)

func TestServiceCreate(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.Create(context.Background(), basicCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if page.Slug != "null-safety" {
		t.Fatalf("expected slug null-safety, got %q", page.Slug)
	}
	if page.Status != string(domain.StatusDraft) {
		t.Fatalf("expected draft status, got %q", page.Status)
	}
	if page.ID != PageID("null-safety") {
		t.Fatalf("expected deterministic page id")
	}
	if len(page.Translations) != 2 {
		t.Fatalf("expected 2 translations, got %d", len(page.Translations))
	}

	paths := map[string]string{}
	for _, tr := range page.Translations {
		paths[tr.Locale] = tr.Path
	}
	if paths["en"] != "/null-safety/" {
		t.Fatalf("expected default locale route without prefix, got %q", paths["en"])
	}
	if paths["es"] != "/es/null-safety/" {
		t.Fatalf("expected locale-prefixed route, got %q", paths["es"])
	}
}

func TestServiceCreate_NormalizesSlug(t *testing.T) {
	svc := newTestService(t)

	req := basicCreateRequest()
	req.Slug = "Null Safety"

	page, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if page.Slug != "null-safety" {
		t.Fatalf("expected normalized slug, got %q", page.Slug)
	}
}

func TestServiceCreate_DuplicateSlug(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Create(context.Background(), basicCreateRequest()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), basicCreateRequest()); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestServiceCreate_DuplicateLocale(t *testing.T) {
	svc := newTestService(t)

	req := basicCreateRequest()
	req.Translations = append(req.Translations, req.Translations[0])

	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrDuplicateLocale) {
		t.Fatalf("expected ErrDuplicateLocale, got %v", err)
	}
}

func TestServiceCreate_UnknownLocale(t *testing.T) {
	svc := newTestService(t)

	req := basicCreateRequest()
	req.Translations[0].Locale = "fr"

	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrUnknownLocale) {
		t.Fatalf("expected ErrUnknownLocale, got %v", err)
	}
}

func TestServiceCreate_InvalidFrontMatter(t *testing.T) {
	svc := newTestService(t)

	req := basicCreateRequest()
	req.Translations[0].FrontMatter = map[string]any{
		"title": "Missing canonical keys",
	}

	if _, err := svc.Create(context.Background(), req); err == nil {
		t.Fatalf("expected front matter validation error")
	}
}

func TestServiceCreate_MissingFields(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Create(context.Background(), CreatePageRequest{}); err == nil {
		t.Fatalf("expected validation error for empty request")
	}
}

func TestServiceUpdate(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.Create(context.Background(), basicCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), UpdatePageRequest{
		ID:       page.ID,
		Category: "concepts",
		Weight:   10,
		Status:   string(domain.StatusPublished),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Category != "concepts" {
		t.Fatalf("expected category concepts, got %q", updated.Category)
	}
	if updated.Weight != 10 {
		t.Fatalf("expected weight 10, got %d", updated.Weight)
	}
	if updated.Status != string(domain.StatusPublished) {
		t.Fatalf("expected published status, got %q", updated.Status)
	}
	if len(updated.Translations) != 2 {
		t.Fatalf("expected translations to survive metadata update, got %d", len(updated.Translations))
	}
}

func TestServiceUpdate_InvalidStatus(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.Create(context.Background(), basicCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(context.Background(), UpdatePageRequest{
		ID:     page.ID,
		Status: "wip",
	}); !errors.Is(err, ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestServicePublishAndArchive(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.Create(context.Background(), basicCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	published, err := svc.Publish(context.Background(), PublishPageRequest{ID: page.ID})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Status != string(domain.StatusPublished) {
		t.Fatalf("expected published status, got %q", published.Status)
	}
	if published.PublishedAt == nil {
		t.Fatalf("expected PublishedAt to be stamped")
	}

	archived, err := svc.Archive(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if archived.Status != string(domain.StatusArchived) {
		t.Fatalf("expected archived status, got %q", archived.Status)
	}
}

func TestServiceList_FiltersDraftsByDefault(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.Create(context.Background(), basicCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	listed, err := svc.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected drafts to be hidden, got %d", len(listed))
	}

	if _, err := svc.Publish(context.Background(), PublishPageRequest{ID: page.ID}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	listed, err = svc.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 published page, got %d", len(listed))
	}

	drafts, err := svc.List(context.Background(), ListOptions{IncludeDrafts: true, Category: "missing"})
	if err != nil {
		t.Fatalf("List category filter: %v", err)
	}
	if len(drafts) != 0 {
		t.Fatalf("expected category filter to exclude pages, got %d", len(drafts))
	}
}

func TestServiceDelete(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.Create(context.Background(), basicCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), DeletePageRequest{ID: page.ID}); !errors.Is(err, ErrPageSoftDeleteUnsupported) {
		t.Fatalf("expected soft delete rejection, got %v", err)
	}

	if err := svc.Delete(context.Background(), DeletePageRequest{ID: page.ID, HardDelete: true}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.GetBySlug(context.Background(), "null-safety"); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func newTestService(tb testing.TB) Service {
	tb.Helper()

	return NewService(NewMemoryPageRepository(),
		WithDefaultLocale("en"),
		WithLocales([]string{"en", "es"}),
		WithClock(func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
}

func basicCreateRequest() CreatePageRequest {
	summary := "Nullable types and safe calls"
	return CreatePageRequest{
		Kind:     "doc",
		Layout:   "reference",
		Category: "types",
		Slug:     "null-safety",
		Weight:   40,
		Translations: []PageTranslationInput{
			{
				Locale:     "en",
				Title:      "Null Safety",
				Summary:    &summary,
				Tags:       []string{"types"},
				Body:       "# Null Safety\n",
				BodyHTML:   "<h1>Null Safety</h1>",
				SourcePath: "types/null-safety.md",
				Checksum:   "aa11",
				FrontMatter: map[string]any{
					"type":     "doc",
					"layout":   "reference",
					"category": "types",
					"title":    "Null Safety",
				},
			},
			{
				Locale:     "es",
				Title:      "Seguridad ante nulos",
				Body:       "# Seguridad ante nulos\n",
				BodyHTML:   "<h1>Seguridad ante nulos</h1>",
				SourcePath: "es/types/null-safety.md",
				Checksum:   "bb22",
				FrontMatter: map[string]any{
					"type":     "doc",
					"layout":   "reference",
					"category": "types",
					"title":    "Seguridad ante nulos",
				},
			},
		},
	}
}
