package generator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ArtifactWriter abstracts where generated files land so tests can capture
// output in memory while production builds write to disk.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path string, data []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	RemoveAll(ctx context.Context, path string) error
}

// DiskWriter writes build artifacts beneath a root directory.
type DiskWriter struct {
	root string
}

// NewDiskWriter constructs a writer rooted at dir.
func NewDiskWriter(dir string) *DiskWriter {
	return &DiskWriter{root: strings.TrimSpace(dir)}
}

func (w *DiskWriter) EnsureDir(_ context.Context, path string) error {
	target := w.resolve(path)
	if target == "" {
		return nil
	}
	return os.MkdirAll(target, 0o755)
}

func (w *DiskWriter) WriteFile(_ context.Context, path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("generator: write requires path")
	}
	target := w.resolve(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (w *DiskWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(w.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (w *DiskWriter) RemoveAll(_ context.Context, path string) error {
	target := w.resolve(path)
	if target == "" || target == "." {
		return errors.New("generator: refusing to remove unrooted path")
	}
	return os.RemoveAll(target)
}

func (w *DiskWriter) resolve(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if w.root == "" {
		return path
	}
	if path == "" {
		return w.root
	}
	return filepath.Join(w.root, filepath.FromSlash(path))
}

// MemoryWriter captures build artifacts in memory for tests.
type MemoryWriter struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: map[string][]byte{}}
}

func (w *MemoryWriter) EnsureDir(context.Context, string) error { return nil }

func (w *MemoryWriter) WriteFile(_ context.Context, path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("generator: write requires path")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[normalizeKey(path)] = append([]byte(nil), data...)
	return nil
}

func (w *MemoryWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[normalizeKey(path)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (w *MemoryWriter) RemoveAll(_ context.Context, path string) error {
	prefix := normalizeKey(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	// An empty prefix addresses the output root, matching DiskWriter where
	// the root resolves to the whole output directory.
	if prefix == "" {
		w.files = map[string][]byte{}
		return nil
	}
	for key := range w.files {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			delete(w.files, key)
		}
	}
	return nil
}

// Paths lists every stored artifact path in sorted order.
func (w *MemoryWriter) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for key := range w.files {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// File returns the stored content for a path.
func (w *MemoryWriter) File(path string) ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[normalizeKey(path)]
	return data, ok
}

func normalizeKey(path string) string {
	return strings.Trim(strings.TrimSpace(strings.ReplaceAll(path, "\\", "/")), "/")
}
