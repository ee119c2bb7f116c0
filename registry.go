package transcode

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Registry resolves charset names to Charsets.
//
// Names are matched case-insensitively with "_" and spaces treated as "-".
// Names that are not registered fall back to the IANA index of
// golang.org/x/text; single-byte charmaps found there are cached.
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	charsets map[string]Charset
}

// NewRegistry returns a registry holding the builtin charsets.
func NewRegistry() *Registry {
	r := &Registry{charsets: make(map[string]Charset)}
	for _, b := range builtinCharsets() {
		r.add(b.charset, b.aliases...)
	}
	return r
}

// Register adds a charset under its name and any aliases, replacing
// existing entries with the same names.
func (r *Registry) Register(cs Charset, aliases ...string) {
	r.mu.Lock()
	r.add(cs, aliases...)
	r.mu.Unlock()

	emitCharsetRegistered(context.Background(), cs.Name(), len(aliases))
}

// add registers without locking.
func (r *Registry) add(cs Charset, aliases ...string) {
	r.charsets[normalizeName(cs.Name())] = cs
	for _, a := range aliases {
		r.charsets[normalizeName(a)] = cs
	}
}

// Lookup resolves name to a Charset.
// Returns an error wrapping ErrUnsupportedCodec if the name is unknown.
func (r *Registry) Lookup(name string) (Charset, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, newLookupError(ErrUnsupportedCodec, "lookup", name, nil)
	}

	// Fast path: read-lock cache check
	r.mu.RLock()
	if cs, ok := r.charsets[key]; ok {
		r.mu.RUnlock()
		return cs, nil
	}
	r.mu.RUnlock()

	cs, err := resolveIANA(strings.TrimSpace(name))
	if err != nil && key != strings.TrimSpace(name) {
		cs, err = resolveIANA(key)
	}
	if err != nil {
		return nil, newLookupError(ErrUnsupportedCodec, "lookup", name, err)
	}

	// Slow path: cache with write-lock
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check pattern
	if cached, ok := r.charsets[key]; ok {
		return cached, nil
	}
	r.charsets[key] = cs
	return cs, nil
}

// Names returns the sorted canonical names of all cached charsets.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.charsets))
	names := make([]string, 0, len(r.charsets))
	for _, cs := range r.charsets {
		if !seen[cs.Name()] {
			seen[cs.Name()] = true
			names = append(names, cs.Name())
		}
	}
	sort.Strings(names)
	return names
}

// resolveIANA looks name up in the IANA index and wraps single-byte charmaps.
func resolveIANA(name string) (Charset, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q is registered but not supported", name)
	}
	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		return nil, fmt.Errorf("charset %q is not a single-byte charset", name)
	}

	canonical := name
	if n, err := ianaindex.IANA.Name(enc); err == nil {
		canonical = strings.ToLower(n)
	}
	mime := canonical
	if n, err := ianaindex.MIME.Name(enc); err == nil {
		mime = strings.ToLower(n)
	}
	return &charmapCharset{name: canonical, mime: mime, cm: cm}, nil
}

// normalizeName folds case and separators so "Latin_1" matches "latin-1".
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", " ", "-").Replace(n)
}

var (
	defaultRegistry   = NewRegistry()
	defaultRegistryMu sync.RWMutex
)

// DefaultRegistry returns the registry used by the package-level functions
// and by converters created without WithRegistry.
func DefaultRegistry() *Registry {
	defaultRegistryMu.RLock()
	defer defaultRegistryMu.RUnlock()
	return defaultRegistry
}

// Register adds a charset to the default registry.
func Register(cs Charset, aliases ...string) {
	DefaultRegistry().Register(cs, aliases...)
}

// Lookup resolves name against the default registry.
func Lookup(name string) (Charset, error) {
	return DefaultRegistry().Lookup(name)
}

// Reset restores the default registry to the builtin charsets and clears
// the restrictor cache.
// This is primarily useful for test isolation.
func Reset() {
	defaultRegistryMu.Lock()
	defaultRegistry = NewRegistry()
	defaultRegistryMu.Unlock()

	resetRestrictors()
}
