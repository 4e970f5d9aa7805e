package sync

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	goslug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-docsite/internal/docs"
	"github.com/goliatone/go-docsite/internal/domain"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	ErrPagesServiceRequired = errors.New("sync importer: pages service is required")
	ErrSlugMissing          = errors.New("sync importer: slug could not be determined")
	ErrLocaleMissing        = errors.New("sync importer: locale could not be determined")
)

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Pages         docs.Service
	Logger        interfaces.Logger
	DefaultLocale string
}

// Importer reconciles loaded Markdown documents into the page catalog.
// Documents sharing a slug become one page with one translation per locale.
type Importer struct {
	pages         docs.Service
	logger        interfaces.Logger
	defaultLocale string
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	defaultLocale := strings.TrimSpace(cfg.DefaultLocale)
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Importer{
		pages:         cfg.Pages,
		logger:        cfg.Logger,
		defaultLocale: defaultLocale,
	}
}

// SyncDocuments imports all provided documents and optionally deletes
// catalog pages whose source files no longer exist.
func (i *Importer) SyncDocuments(ctx context.Context, documents []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.pages == nil {
		return nil, ErrPagesServiceRequired
	}

	grouped := groupBySlug(documents)
	result := &interfaces.SyncResult{}

	slugs := make([]string, 0, len(grouped))
	for slug := range grouped {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)

	for _, slug := range slugs {
		group := sortDocuments(grouped[slug])
		if err := i.applyGroup(ctx, slug, group, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, grouped, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	if i.logger != nil {
		i.logger.WithContext(ctx).Info("sync complete",
			"documents", len(documents),
			"created", result.Created,
			"updated", result.Updated,
			"skipped", result.Skipped,
			"deleted", result.Deleted,
			"dry_run", opts.DryRun,
			"errors", len(result.Errors),
		)
	}

	return result, firstError(result.Errors)
}

// SyncDocument reconciles a single document.
func (i *Importer) SyncDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	return i.SyncDocuments(ctx, []*interfaces.Document{doc}, interfaces.SyncOptions{
		DryRun: opts.DryRun,
		Force:  opts.Force,
	})
}

func (i *Importer) applyGroup(ctx context.Context, slug string, group []*interfaces.Document, opts interfaces.SyncOptions, result *interfaces.SyncResult) error {
	if slug == "" {
		return ErrSlugMissing
	}

	translations := make([]docs.PageTranslationInput, 0, len(group))
	titleFallback := fallbackTitle(slug)

	for _, doc := range group {
		if doc == nil {
			return errors.New("sync importer: nil document")
		}
		if strings.TrimSpace(doc.Locale) == "" {
			return ErrLocaleMissing
		}

		title := strings.TrimSpace(doc.FrontMatter.Title)
		if title == "" {
			title = titleFallback
		}

		translations = append(translations, docs.PageTranslationInput{
			Locale:      doc.Locale,
			Title:       title,
			Summary:     optionalString(doc.FrontMatter.Summary),
			Tags:        doc.FrontMatter.Tags,
			Body:        string(doc.Body),
			BodyHTML:    string(doc.BodyHTML),
			SourcePath:  doc.FilePath,
			Checksum:    hex.EncodeToString(doc.Checksum),
			FrontMatter: doc.FrontMatter.Raw,
		})
	}

	meta := selectMetadata(group, i.defaultLocale)

	existing, err := i.pages.GetBySlug(ctx, slug)
	if err != nil && !docs.IsNotFound(err) {
		return fmt.Errorf("sync importer: page lookup %s: %w", slug, err)
	}

	if existing == nil {
		if opts.DryRun {
			result.Created++
			return nil
		}
		_, createErr := i.pages.Create(ctx, docs.CreatePageRequest{
			Kind:         meta.kind,
			Layout:       meta.layout,
			Category:     meta.category,
			Slug:         slug,
			Weight:       meta.weight,
			Status:       meta.status,
			Translations: translations,
		})
		if createErr != nil {
			return fmt.Errorf("sync importer: create page %s: %w", slug, createErr)
		}
		result.Created++
		return nil
	}

	if !opts.Force && !hasChanges(existing, meta, translations) {
		result.Skipped++
		return nil
	}

	if opts.DryRun {
		result.Updated++
		return nil
	}

	_, updateErr := i.pages.Update(ctx, docs.UpdatePageRequest{
		ID:           existing.ID,
		Kind:         meta.kind,
		Layout:       meta.layout,
		Category:     meta.category,
		Weight:       meta.weight,
		Status:       meta.status,
		Translations: translations,
	})
	if updateErr != nil {
		return fmt.Errorf("sync importer: update page %s: %w", slug, updateErr)
	}
	result.Updated++
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, grouped map[string][]*interfaces.Document, opts interfaces.SyncOptions, result *interfaces.SyncResult) error {
	existing, err := i.pages.List(ctx, docs.ListOptions{IncludeDrafts: true})
	if err != nil {
		return fmt.Errorf("sync importer: list pages: %w", err)
	}

	for _, record := range existing {
		if _, ok := grouped[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			result.Deleted++
			continue
		}
		if err := i.pages.Delete(ctx, docs.DeletePageRequest{
			ID:         record.ID,
			HardDelete: true,
		}); err != nil {
			return fmt.Errorf("sync importer: delete page %s: %w", record.Slug, err)
		}
		result.Deleted++
	}

	return nil
}

// pageMetadata is the locale-independent slice of a document group, taken
// from the default-locale document when present.
type pageMetadata struct {
	kind     string
	layout   string
	category string
	weight   int
	status   string
}

func selectMetadata(group []*interfaces.Document, defaultLocale string) pageMetadata {
	primary := group[0]
	for _, doc := range group {
		if doc != nil && doc.Locale == defaultLocale {
			primary = doc
			break
		}
	}

	meta := pageMetadata{
		kind:     strings.TrimSpace(primary.FrontMatter.Kind),
		layout:   strings.TrimSpace(primary.FrontMatter.Layout),
		category: strings.TrimSpace(primary.FrontMatter.Category),
		weight:   primary.FrontMatter.Weight,
		status:   string(domain.StatusPublished),
	}

	for _, doc := range group {
		if doc != nil && doc.FrontMatter.Draft {
			meta.status = string(domain.StatusDraft)
			break
		}
	}

	return meta
}

func hasChanges(existing *docs.Page, meta pageMetadata, inputs []docs.PageTranslationInput) bool {
	if existing.Kind != meta.kind ||
		existing.Layout != meta.layout ||
		existing.Category != meta.category ||
		existing.Weight != meta.weight ||
		existing.Status != meta.status {
		return true
	}

	current := map[string]string{}
	for _, tr := range existing.Translations {
		if tr == nil {
			continue
		}
		current[strings.ToLower(tr.Locale)] = tr.Checksum
	}

	seen := map[string]struct{}{}
	for _, in := range inputs {
		key := strings.ToLower(in.Locale)
		seen[key] = struct{}{}
		checksum, ok := current[key]
		if !ok || checksum != in.Checksum {
			return true
		}
	}

	return len(current) != len(seen)
}

// Slug determines the page slug for a document: the front-matter slug when
// present, otherwise the file name without its extension. The value is
// normalized so lookups agree with what the catalog stores.
func Slug(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}
	value := strings.TrimSpace(doc.FrontMatter.Slug)
	if value == "" {
		base := path.Base(strings.ReplaceAll(doc.FilePath, "\\", "/"))
		value = strings.TrimSuffix(base, path.Ext(base))
	}
	if goslug.IsValid(value) {
		return value
	}
	normalized, err := goslug.Normalize(value)
	if err != nil {
		return value
	}
	return normalized
}

func groupBySlug(documents []*interfaces.Document) map[string][]*interfaces.Document {
	result := map[string][]*interfaces.Document{}
	for _, doc := range documents {
		key := Slug(doc)
		result[key] = append(result[key], doc)
	}
	return result
}

func sortDocuments(documents []*interfaces.Document) []*interfaces.Document {
	slices.SortFunc(documents, func(a, b *interfaces.Document) int {
		if a == nil || b == nil {
			return 0
		}
		if cmp := strings.Compare(a.Locale, b.Locale); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
	return documents
}

func fallbackTitle(slug string) string {
	if slug == "" {
		return "Untitled"
	}
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
