package docs

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/domain"
	fm "github.com/goliatone/go-docsite/internal/validation"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Service exposes the page catalog use-cases.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context, opts ListOptions) ([]*Page, error)
	Publish(ctx context.Context, req PublishPageRequest) (*Page, error)
	Archive(ctx context.Context, id uuid.UUID) (*Page, error)
	Delete(ctx context.Context, req DeletePageRequest) error
}

// CreatePageRequest captures the information required to register a page.
type CreatePageRequest struct {
	Kind         string
	Layout       string
	Category     string
	Slug         string
	Weight       int
	Status       string
	Translations []PageTranslationInput
}

// Validate ensures the request carries the required fields.
func (r CreatePageRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.Kind) == "" {
		errs["kind"] = validation.NewError("docs.page.kind_required", "kind is required")
	}
	if strings.TrimSpace(r.Layout) == "" {
		errs["layout"] = validation.NewError("docs.page.layout_required", "layout is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		errs["category"] = validation.NewError("docs.page.category_required", "category is required")
	}
	if strings.TrimSpace(r.Slug) == "" {
		errs["slug"] = validation.NewError("docs.page.slug_required", "slug is required")
	}
	if r.Weight < 0 {
		errs["weight"] = validation.NewError("docs.page.weight_invalid", "weight must not be negative")
	}
	if len(r.Translations) == 0 {
		errs["translations"] = validation.NewError("docs.page.translations_required", "at least one translation is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PageTranslationInput represents localized fields supplied during create/update.
type PageTranslationInput struct {
	Locale      string
	Title       string
	Path        string
	Summary     *string
	Tags        []string
	Body        string
	BodyHTML    string
	SourcePath  string
	Checksum    string
	FrontMatter map[string]any
}

// UpdatePageRequest captures mutations to an existing page.
type UpdatePageRequest struct {
	ID           uuid.UUID
	Kind         string
	Layout       string
	Category     string
	Weight       int
	Status       string
	Translations []PageTranslationInput
}

// PublishPageRequest marks a page as published.
type PublishPageRequest struct {
	ID          uuid.UUID
	PublishedAt *time.Time
}

// DeletePageRequest removes a page from the catalog.
type DeletePageRequest struct {
	ID         uuid.UUID
	HardDelete bool
}

// ListOptions filters catalog listings.
type ListOptions struct {
	Category string
	Statuses []string
	// IncludeDrafts widens the default published-only view.
	IncludeDrafts bool
}

var (
	ErrPageIDRequired  = errors.New("docs: page id required")
	ErrSlugRequired    = errors.New("docs: slug is required")
	ErrSlugInvalid     = errors.New("docs: slug contains invalid characters")
	ErrSlugExists      = errors.New("docs: slug already exists")
	ErrNoTranslations  = errors.New("docs: at least one translation is required")
	ErrDuplicateLocale = errors.New("docs: duplicate locale provided")
	ErrUnknownLocale   = errors.New("docs: unknown locale")
	ErrStatusInvalid   = errors.New("docs: status is invalid")
)

// pageNamespace seeds deterministic page identifiers so repeated syncs of the
// same content tree produce stable ids across databases.
var pageNamespace = uuid.MustParse("9aa57b84-6ad7-5b64-8f76-1c1b8e3dd902")

// PageID derives the stable identifier for a slug.
func PageID(slugValue string) uuid.UUID {
	return uuid.NewSHA1(pageNamespace, []byte(strings.TrimSpace(slugValue)))
}

// TranslationID derives the stable identifier for a slug/locale pair.
func TranslationID(slugValue, locale string) uuid.UUID {
	return uuid.NewSHA1(pageNamespace, []byte(strings.TrimSpace(slugValue)+"|"+strings.TrimSpace(locale)))
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator derives page identifiers from slugs.
type IDGenerator func(slug string) uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDefaultLocale sets the locale whose routes omit the locale prefix.
func WithDefaultLocale(locale string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(locale) != "" {
			s.defaultLocale = strings.TrimSpace(locale)
		}
	}
}

// WithLocales restricts translations to the supplied locale set.
func WithLocales(locales []string) ServiceOption {
	return func(s *service) {
		s.locales = map[string]struct{}{}
		for _, locale := range locales {
			locale = strings.TrimSpace(locale)
			if locale != "" {
				s.locales[locale] = struct{}{}
			}
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFrontMatterValidation toggles schema validation of translation metadata.
func WithFrontMatterValidation(enabled bool) ServiceOption {
	return func(s *service) {
		s.validateFrontMatter = enabled
	}
}

type service struct {
	pages               PageRepository
	now                 func() time.Time
	id                  IDGenerator
	defaultLocale       string
	locales             map[string]struct{}
	logger              interfaces.Logger
	validateFrontMatter bool
}

// NewService constructs a page catalog service.
func NewService(pages PageRepository, opts ...ServiceOption) Service {
	s := &service{
		pages:               pages,
		now:                 time.Now,
		id:                  PageID,
		defaultLocale:       "en",
		validateFrontMatter: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create registers a new page with its translations.
func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slugValue, err := s.normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}

	if len(req.Translations) == 0 {
		return nil, ErrNoTranslations
	}

	if existing, err := s.pages.GetBySlug(ctx, slugValue); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil && !IsNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	record := &Page{
		ID:        s.id(slugValue),
		Kind:      strings.TrimSpace(req.Kind),
		Layout:    strings.TrimSpace(req.Layout),
		Category:  strings.TrimSpace(req.Category),
		Slug:      slugValue,
		Weight:    req.Weight,
		Status:    chooseStatus(req.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}

	translations, err := s.buildTranslations(record, req.Translations, now)
	if err != nil {
		return nil, err
	}
	record.Translations = translations

	created, err := s.pages.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update mutates page metadata and replaces translations when provided.
func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPageIDRequired
	}

	current, err := s.pages.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if kind := strings.TrimSpace(req.Kind); kind != "" {
		current.Kind = kind
	}
	if layout := strings.TrimSpace(req.Layout); layout != "" {
		current.Layout = layout
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		current.Category = category
	}
	if req.Weight >= 0 {
		current.Weight = req.Weight
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		if !domain.Status(status).Valid() {
			return nil, ErrStatusInvalid
		}
		current.Status = status
	}
	current.UpdatedAt = now

	if len(req.Translations) > 0 {
		translations, err := s.buildTranslations(current, req.Translations, now)
		if err != nil {
			return nil, err
		}
		current.Translations = translations
	}

	updated, err := s.pages.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get fetches a page by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageIDRequired
	}
	return s.pages.GetByID(ctx, id)
}

// GetBySlug fetches a page by its slug.
func (s *service) GetBySlug(ctx context.Context, slugValue string) (*Page, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, ErrSlugRequired
	}
	return s.pages.GetBySlug(ctx, slugValue)
}

// List returns catalog pages filtered by the supplied options.
func (s *service) List(ctx context.Context, opts ListOptions) ([]*Page, error) {
	records, err := s.pages.List(ctx)
	if err != nil {
		return nil, err
	}

	allowed := statusFilter(opts)
	category := strings.TrimSpace(opts.Category)

	out := make([]*Page, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if category != "" && record.Category != category {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[record.Status]; !ok {
				continue
			}
		}
		out = append(out, record)
	}
	return out, nil
}

// Publish transitions a page to the published status.
func (s *service) Publish(ctx context.Context, req PublishPageRequest) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPageIDRequired
	}

	current, err := s.pages.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	publishedAt := now
	if req.PublishedAt != nil {
		publishedAt = req.PublishedAt.UTC()
	}

	current.Status = string(domain.StatusPublished)
	current.PublishedAt = &publishedAt
	current.UpdatedAt = now

	return s.pages.Update(ctx, current)
}

// Archive transitions a page to the archived status.
func (s *service) Archive(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageIDRequired
	}

	current, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Status = string(domain.StatusArchived)
	current.UpdatedAt = s.now().UTC()

	return s.pages.Update(ctx, current)
}

// Delete removes a page from the catalog.
func (s *service) Delete(ctx context.Context, req DeletePageRequest) error {
	if req.ID == uuid.Nil {
		return ErrPageIDRequired
	}
	return s.pages.Delete(ctx, req.ID, req.HardDelete)
}

func (s *service) buildTranslations(page *Page, inputs []PageTranslationInput, now time.Time) ([]*PageTranslation, error) {
	seen := map[string]struct{}{}
	translations := make([]*PageTranslation, 0, len(inputs))

	for _, input := range inputs {
		locale := strings.TrimSpace(input.Locale)
		if locale == "" {
			return nil, ErrUnknownLocale
		}
		if len(s.locales) > 0 {
			if _, ok := s.locales[locale]; !ok {
				return nil, ErrUnknownLocale
			}
		}
		if _, ok := seen[locale]; ok {
			return nil, ErrDuplicateLocale
		}
		seen[locale] = struct{}{}

		if s.validateFrontMatter && input.FrontMatter != nil {
			if err := fm.ValidateFrontMatter(input.FrontMatter); err != nil {
				return nil, err
			}
		}

		path := strings.TrimSpace(input.Path)
		if path == "" {
			path = RoutePath(locale, s.defaultLocale, page.Slug)
		}

		translations = append(translations, &PageTranslation{
			ID:          TranslationID(page.Slug, locale),
			PageID:      page.ID,
			Locale:      locale,
			Title:       strings.TrimSpace(input.Title),
			Path:        path,
			Summary:     input.Summary,
			Tags:        append([]string(nil), input.Tags...),
			Body:        input.Body,
			BodyHTML:    input.BodyHTML,
			SourcePath:  input.SourcePath,
			Checksum:    input.Checksum,
			FrontMatter: cloneMap(input.FrontMatter),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return translations, nil
}

func (s *service) normalizeSlug(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrSlugRequired
	}
	if slug.IsValid(value) {
		return value, nil
	}
	normalized, err := slug.Normalize(value)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}

// RoutePath builds the site-relative route for a slug in a locale. The
// default locale lives at the root; every other locale is prefixed.
func RoutePath(locale, defaultLocale, slugValue string) string {
	slugValue = strings.Trim(strings.TrimSpace(slugValue), "/")
	if locale == defaultLocale || strings.TrimSpace(locale) == "" {
		return "/" + slugValue + "/"
	}
	return "/" + locale + "/" + slugValue + "/"
}

func chooseStatus(value string) string {
	status := domain.Status(strings.TrimSpace(value))
	if status.Valid() {
		return string(status)
	}
	return string(domain.StatusDraft)
}

func statusFilter(opts ListOptions) map[string]struct{} {
	if len(opts.Statuses) > 0 {
		allowed := make(map[string]struct{}, len(opts.Statuses))
		for _, status := range opts.Statuses {
			status = strings.TrimSpace(status)
			if status != "" {
				allowed[status] = struct{}{}
			}
		}
		return allowed
	}
	if opts.IncludeDrafts {
		return nil
	}
	return map[string]struct{}{
		string(domain.StatusPublished): {},
	}
}
