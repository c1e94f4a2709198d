// Package assets locates and decodes scene input files: walker-boundary rasters
// (BMP/PNG images, RO GAT tables, Tiled TMX maps) and bounds models. Files are
// resolved against an ordered list of search directories and cached by name.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/walkbounds/internal/logger"
)

// ErrNotFound is returned when no search path holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset names against search directories.
type Manager struct {
	searchPaths []string
	cache       *Cache
	mu          sync.RWMutex
}

// NewManager creates a new asset manager. Search paths are tried in order.
func NewManager(searchPaths ...string) *Manager {
	m := &Manager{cache: NewCache()}
	for _, p := range searchPaths {
		m.AddSearchPath(p)
	}
	return m
}

// AddSearchPath appends a directory to the search list (lowest priority).
func (m *Manager) AddSearchPath(dir string) {
	if dir == "" {
		return
	}
	m.mu.Lock()
	m.searchPaths = append(m.searchPaths, filepath.Clean(dir))
	m.mu.Unlock()
}

// SearchPaths returns a copy of the search list.
func (m *Manager) SearchPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.searchPaths...)
}

// Locate returns the directory holding name and the name's slash-separated
// path within it. Search paths are tried first; a name that exists as given
// (absolute, or relative to the working directory) is used as a last resort.
func (m *Manager) Locate(name string) (dir, rel string, err error) {
	rel = path.Clean(filepath.ToSlash(name))

	m.mu.RLock()
	roots := m.searchPaths
	m.mu.RUnlock()

	if fs.ValidPath(rel) {
		for _, root := range roots {
			if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil && !info.IsDir() {
				return root, rel, nil
			}
		}
	}

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return filepath.Dir(name), filepath.Base(name), nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Path returns the filesystem path of name.
func (m *Manager) Path(name string) (string, error) {
	dir, rel, err := m.Locate(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(rel)), nil
}

// FS returns a filesystem rooted at the directory holding name, and name's path
// within it. Loaders that resolve sibling files (TMX tilesets) read through it.
func (m *Manager) FS(name string) (fs.FS, string, error) {
	dir, rel, err := m.Locate(name)
	if err != nil {
		return nil, "", err
	}
	return os.DirFS(dir), rel, nil
}

// Load reads a file, from cache when possible.
func (m *Manager) Load(name string) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	p, err := m.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	m.cache.Set(name, data)
	logger.Named("assets").Debug("asset loaded",
		zap.String("name", name),
		zap.String("path", p),
		zap.Int("bytes", len(data)))
	return data, nil
}

// Invalidate drops name from the cache so the next Load reads it again.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(name)
}

// Close releases cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
