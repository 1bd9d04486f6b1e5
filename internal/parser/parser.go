package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// CatalogRegistry maps file extensions to compiled catalogs.
type CatalogRegistry interface {
	Register(ft domain.FileType) error
	CatalogFor(extension string) (*Catalog, error)
	Extensions() []string
}

// DefaultRegistry is a thread-safe catalog registry.
type DefaultRegistry struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		catalogs: make(map[string]*Catalog),
	}
}

// NewRegistryFrom compiles and registers every file type.
func NewRegistryFrom(fileTypes []domain.FileType) (*DefaultRegistry, error) {
	r := NewRegistry()
	for _, ft := range fileTypes {
		if err := r.Register(ft); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register compiles a file type and adds it for each of its extensions.
func (r *DefaultRegistry) Register(ft domain.FileType) error {
	c, err := Compile(ft)
	if err != nil {
		return domain.NewErrorWithSuggestion("config", "", 0,
			fmt.Sprintf("failed to compile catalog %q", ft.Name),
			"patterns use Go RE2 syntax; lookaround assertions such as (?=...) are not supported",
			err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range ft.Extensions {
		r.catalogs[normalizeExt(ext)] = c
	}
	return nil
}

// CatalogFor returns the catalog registered for the given file extension.
func (r *DefaultRegistry) CatalogFor(extension string) (*Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.catalogs[normalizeExt(extension)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("extension %q: %w", extension, domain.ErrNoCatalog)
}

// Extensions lists every registered extension with a leading dot.
func (r *DefaultRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.catalogs))
	for ext := range r.catalogs {
		exts = append(exts, "."+ext)
	}
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
