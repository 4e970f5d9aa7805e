package docs

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is a documentation page identified by its slug. Locale-independent
// metadata lives here; per-locale titles and bodies live on PageTranslation.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Kind     string    `bun:"kind,notnull" json:"kind"`
	Layout   string    `bun:"layout,notnull" json:"layout"`
	Category string    `bun:"category,notnull" json:"category"`
	Slug     string    `bun:"slug,notnull,unique" json:"slug"`
	Weight   int       `bun:"weight,notnull,default:0" json:"weight"`
	Status   string    `bun:"status,notnull,default:'draft'" json:"status"`

	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Translations []*PageTranslation `bun:"rel:has-many,join:id=page_id" json:"translations,omitempty"`
}

// PageTranslation stores the localized rendering of a page: title, route
// path, and both Markdown and HTML bodies.
type PageTranslation struct {
	bun.BaseModel `bun:"table:page_translations,alias:pt"`

	ID      uuid.UUID `bun:",pk,type:uuid" json:"id"`
	PageID  uuid.UUID `bun:"page_id,notnull,type:uuid" json:"page_id"`
	Locale  string    `bun:"locale,notnull" json:"locale"`
	Title   string    `bun:"title,notnull" json:"title"`
	Path    string    `bun:"path,notnull" json:"path"`
	Summary *string   `bun:"summary" json:"summary,omitempty"`
	Tags    []string  `bun:"tags,type:jsonb" json:"tags,omitempty"`

	Body     string `bun:"body,notnull" json:"body"`
	BodyHTML string `bun:"body_html,notnull" json:"body_html"`

	// SourcePath and Checksum tie the translation back to the Markdown file
	// it was imported from so repeat syncs can skip unchanged files.
	SourcePath string `bun:"source_path" json:"source_path,omitempty"`
	Checksum   string `bun:"checksum" json:"checksum,omitempty"`

	FrontMatter map[string]any `bun:"front_matter,type:jsonb" json:"front_matter,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
