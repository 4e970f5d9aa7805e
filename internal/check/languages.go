package check

import (
	"sort"
	"strings"
	"unsafe"

	ts_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	ts_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	ts_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// LanguageRegistry maps fence info strings to compiled-in tree-sitter
// grammars. Fence languages without a grammar are reported as skipped rather
// than failed, so documentation can carry pseudo-code and shell transcripts.
type LanguageRegistry struct {
	languages map[string]*tree_sitter.Language
	aliases   map[string]string
}

// NewLanguageRegistry returns a registry with every built-in grammar loaded.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		languages: map[string]*tree_sitter.Language{},
		aliases:   map[string]string{},
	}

	r.addLang("kotlin", langPtr(ts_kotlin.Language()))
	r.addLang("go", langPtr(ts_go.Language()))
	r.addLang("java", langPtr(ts_java.Language()))
	r.addLang("c", langPtr(ts_c.Language()))
	r.addLang("javascript", langPtr(ts_javascript.Language()))
	r.addLang("python", langPtr(ts_python.Language()))

	r.addAlias("kotlin", "kt", "kts")
	r.addAlias("go", "golang")
	r.addAlias("javascript", "js")
	r.addAlias("python", "py", "python3")

	return r
}

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

func (r *LanguageRegistry) addLang(name string, lang *tree_sitter.Language) {
	if lang != nil {
		r.languages[name] = lang
	}
}

func (r *LanguageRegistry) addAlias(lang string, aliases ...string) {
	if _, ok := r.languages[lang]; !ok {
		return
	}
	for _, alias := range aliases {
		r.aliases[alias] = lang
	}
}

// Restrict returns a registry limited to the named languages. Names resolve
// through aliases, and a restricted language keeps its aliases. Names with no
// registered grammar are dropped; validate them with Lookup first.
func (r *LanguageRegistry) Restrict(names []string) *LanguageRegistry {
	if len(names) == 0 {
		return r
	}

	out := &LanguageRegistry{
		languages: map[string]*tree_sitter.Language{},
		aliases:   map[string]string{},
	}
	for _, name := range names {
		canonical := strings.ToLower(strings.TrimSpace(name))
		if resolved, ok := r.aliases[canonical]; ok {
			canonical = resolved
		}
		lang, ok := r.languages[canonical]
		if !ok {
			continue
		}
		out.languages[canonical] = lang
		for alias, target := range r.aliases {
			if target == canonical {
				out.aliases[alias] = target
			}
		}
	}
	return out
}

// Lookup resolves a fence info string to a grammar. The second return value
// is false when no grammar is registered for the name.
func (r *LanguageRegistry) Lookup(name string) (*tree_sitter.Language, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	lang, ok := r.languages[name]
	return lang, ok
}

// Names lists the canonical language names with grammars available.
func (r *LanguageRegistry) Names() []string {
	names := make([]string, 0, len(r.languages))
	for name := range r.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
