package domain

// Status represents lifecycle states for documentation pages
type Status string

const (
	// StatusDraft indicates a page still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies a page available to readers
	StatusPublished Status = "published"
	// StatusArchived marks a page retained for history but no longer generated
	StatusArchived Status = "archived"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}
