package docs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for scaffolding/tests.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePage(record)
	m.pages[copied.ID] = copied
	m.slugIndex[strings.TrimSpace(copied.Slug)] = copied.ID
	return clonePage(copied), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(page), nil
}

// GetBySlug retrieves a page by slug.
func (m *MemoryPageRepository) GetBySlug(_ context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[strings.TrimSpace(slug)]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return clonePage(m.pages[id]), nil
}

// List returns every page ordered by category, weight, then slug.
func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		if record == nil {
			continue
		}
		out = append(out, clonePage(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Weight != out[j].Weight {
			return out[i].Weight < out[j].Weight
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// Update persists metadata changes for a page.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.pages[record.ID]
	if !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}

	updated := clonePage(current)
	updated.Kind = record.Kind
	updated.Layout = record.Layout
	updated.Category = record.Category
	updated.Weight = record.Weight
	updated.Status = record.Status
	updated.PublishedAt = cloneTimePointer(record.PublishedAt)
	updated.UpdatedAt = record.UpdatedAt
	if len(record.Translations) > 0 {
		updated.Translations = clonePageTranslations(record.Translations)
	}

	m.pages[record.ID] = updated
	return clonePage(updated), nil
}

// ReplaceTranslations swaps the translations associated with a page.
func (m *MemoryPageRepository) ReplaceTranslations(_ context.Context, pageID uuid.UUID, translations []*PageTranslation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.pages[pageID]
	if !ok {
		return &PageNotFoundError{Key: pageID.String()}
	}
	record.Translations = clonePageTranslations(translations)
	return nil
}

// ListTranslations returns stored translations for a page.
func (m *MemoryPageRepository) ListTranslations(_ context.Context, pageID uuid.UUID) ([]*PageTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.pages[pageID]
	if !ok {
		return nil, &PageNotFoundError{Key: pageID.String()}
	}
	return clonePageTranslations(record.Translations), nil
}

// Delete removes the page when hard delete is requested.
func (m *MemoryPageRepository) Delete(_ context.Context, id uuid.UUID, hardDelete bool) error {
	if !hardDelete {
		return ErrPageSoftDeleteUnsupported
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.pages[id]
	if !ok {
		return &PageNotFoundError{Key: id.String()}
	}

	delete(m.pages, id)
	if slug := strings.TrimSpace(record.Slug); slug != "" {
		delete(m.slugIndex, slug)
	}
	return nil
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	copied := *src
	copied.PublishedAt = cloneTimePointer(src.PublishedAt)
	copied.Translations = clonePageTranslations(src.Translations)
	return &copied
}

func clonePageTranslations(src []*PageTranslation) []*PageTranslation {
	if len(src) == 0 {
		return nil
	}
	out := make([]*PageTranslation, len(src))
	for i, tr := range src {
		if tr == nil {
			continue
		}
		local := *tr
		local.Tags = append([]string(nil), tr.Tags...)
		local.Summary = cloneStringPointer(tr.Summary)
		local.FrontMatter = cloneMap(tr.FrontMatter)
		out[i] = &local
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func cloneStringPointer(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
