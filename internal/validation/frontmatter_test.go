package validation

import (
	"errors"
	"testing"
)

func TestValidateFrontMatter_Valid(t *testing.T) {
	payload := map[string]any{
		"type":     "doc",
		"layout":   "reference",
		"category": "types",
		"title":    "Null Safety",
		"slug":     "null-safety",
		"weight":   40,
		"tags":     []string{"types", "null-safety"},
		"audience": "beginner",
	}

	if err := ValidateFrontMatter(payload); err != nil {
		t.Fatalf("ValidateFrontMatter: %v", err)
	}
}

func TestValidateFrontMatter_MissingRequiredKeys(t *testing.T) {
	err := ValidateFrontMatter(map[string]any{
		"title": "Orphan",
	})
	if err == nil {
		t.Fatalf("expected error for missing keys")
	}
	if !errors.Is(err, ErrFrontMatterInvalid) {
		t.Fatalf("expected ErrFrontMatterInvalid, got %v", err)
	}
	if len(Issues(err)) == 0 {
		t.Fatalf("expected issues to be reported")
	}
}

func TestValidateFrontMatter_BadSlug(t *testing.T) {
	err := ValidateFrontMatter(map[string]any{
		"type":     "doc",
		"layout":   "guide",
		"category": "basics",
		"title":    "Getting Started",
		"slug":     "Getting Started!",
	})
	if err == nil {
		t.Fatalf("expected error for invalid slug")
	}
}

func TestValidateFrontMatter_EmptyPayload(t *testing.T) {
	if err := ValidateFrontMatter(nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
}
