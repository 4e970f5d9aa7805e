package docs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrPageSoftDeleteUnsupported is returned when a caller requests a soft
// delete; the catalog only supports hard deletes since Markdown files remain
// the source of truth.
var ErrPageSoftDeleteUnsupported = errors.New("docs: soft delete not supported")

// PageRepository abstracts storage operations for documentation pages.
type PageRepository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, record *Page) (*Page, error)
	ReplaceTranslations(ctx context.Context, pageID uuid.UUID, translations []*PageTranslation) error
	ListTranslations(ctx context.Context, pageID uuid.UUID) ([]*PageTranslation, error)
	Delete(ctx context.Context, id uuid.UUID, hardDelete bool) error
}

// PageNotFoundError reports a missing page lookup by id or slug.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e.Key == "" {
		return "page not found"
	}
	return fmt.Sprintf("page %q not found", e.Key)
}

// IsNotFound reports whether err represents a missing page.
func IsNotFound(err error) bool {
	var notFound *PageNotFoundError
	return errors.As(err, &notFound)
}
