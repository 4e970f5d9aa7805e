// Package domain exposes the page lifecycle vocabulary for docsite hosts.
package domain

import internaldomain "github.com/goliatone/go-docsite/internal/domain"

// Status represents lifecycle states for documentation pages.
type Status = internaldomain.Status

const (
	// StatusDraft indicates a page still under preparation.
	StatusDraft = internaldomain.StatusDraft
	// StatusPublished identifies a page available to readers.
	StatusPublished = internaldomain.StatusPublished
	// StatusArchived marks a page retained for history but no longer generated.
	StatusArchived = internaldomain.StatusArchived
)
