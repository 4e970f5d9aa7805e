package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".docsite-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs: a page whose hash and output path are unchanged is skipped.
type buildManifest struct {
	Version     int                     `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	Pages       map[string]manifestPage `json:"pages"`
}

type manifestPage struct {
	PageID       string    `json:"page_id"`
	Locale       string    `json:"locale"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Layout       string    `json:"layout"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Pages == nil {
		manifest.Pages = map[string]manifestPage{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int            `json:"version"`
		GeneratedAt time.Time      `json:"generated_at"`
		Pages       []manifestPage `json:"pages"`
	}
	ordered := orderedManifest{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	if len(m.Pages) > 0 {
		ordered.Pages = make([]manifestPage, 0, len(m.Pages))
		for _, entry := range m.Pages {
			ordered.Pages = append(ordered.Pages, entry)
		}
		sort.Slice(ordered.Pages, func(i, j int) bool {
			if ordered.Pages[i].PageID == ordered.Pages[j].PageID {
				return ordered.Pages[i].Locale < ordered.Pages[j].Locale
			}
			return ordered.Pages[i].PageID < ordered.Pages[j].PageID
		})
	}
	return json.MarshalIndent(ordered, "", "  ")
}

// UnmarshalJSON accepts both the map form kept in memory and the ordered
// slice form written to disk.
func (m *buildManifest) UnmarshalJSON(data []byte) error {
	type diskManifest struct {
		Version     int             `json:"version"`
		GeneratedAt time.Time       `json:"generated_at"`
		Pages       json.RawMessage `json:"pages"`
	}
	var disk diskManifest
	if err := json.Unmarshal(data, &disk); err != nil {
		return err
	}
	m.Version = disk.Version
	m.GeneratedAt = disk.GeneratedAt
	m.Pages = map[string]manifestPage{}

	if len(disk.Pages) == 0 {
		return nil
	}

	var asSlice []manifestPage
	if err := json.Unmarshal(disk.Pages, &asSlice); err == nil {
		for _, entry := range asSlice {
			m.setPage(entry)
		}
		return nil
	}

	var asMap map[string]manifestPage
	if err := json.Unmarshal(disk.Pages, &asMap); err != nil {
		return err
	}
	m.Pages = asMap
	return nil
}

func (m *buildManifest) pageKey(pageID uuid.UUID, locale string) string {
	return strings.ToLower(pageID.String()) + "::" + strings.ToLower(strings.TrimSpace(locale))
}

func (m *buildManifest) lookupPage(pageID uuid.UUID, locale string) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[m.pageKey(pageID, locale)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	key := strings.ToLower(strings.TrimSpace(entry.PageID)) + "::" + strings.ToLower(strings.TrimSpace(entry.Locale))
	m.Pages[key] = entry
}

func (m *buildManifest) shouldSkipPage(pageID uuid.UUID, locale, hash, output string) bool {
	entry, ok := m.lookupPage(pageID, locale)
	if !ok {
		return false
	}
	if entry.Hash != hash {
		return false
	}
	if strings.TrimSpace(entry.Output) != strings.TrimSpace(output) {
		return false
	}
	return true
}

func (m *buildManifest) prunePages(keys map[string]struct{}) {
	if len(keys) == 0 || len(m.Pages) == 0 {
		return
	}
	for key := range m.Pages {
		if _, ok := keys[key]; !ok {
			delete(m.Pages, key)
		}
	}
}
