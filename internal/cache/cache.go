// Package cache is a plain file cache for generated pipeline artifacts.
// Presence of a key is the cache signal: a file on disk means the artifact
// was produced on a previous run and can be reused or uploaded as-is.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Cache stores artifacts as files under a single directory.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// New opens (creating if needed) a cache rooted at dir.
func New(dir string, logger *slog.Logger) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir, logger: logger}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// Path returns the on-disk location for key without touching the filesystem.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.dir, sanitize(key))
}

// Has reports whether key is cached.
func (c *Cache) Has(key string) bool {
	info, err := os.Stat(c.Path(key))
	return err == nil && info.Mode().IsRegular()
}

// Get returns the cached bytes for key. The second return is false on a
// cache miss; errors are reserved for real I/O failures.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return data, true, nil
}

// Put stores data under key. The write happens into a temporary file which
// is renamed into place, under an exclusive file lock, so concurrent runs
// never observe a partially written entry.
func (c *Cache) Put(key string, data []byte) error {
	path := c.Path(key)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking cache entry %s: %w", key, err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storing cache entry %s: %w", key, err)
	}

	c.logger.Debug("cache entry written", "key", key, "bytes", len(data))
	return nil
}

// sanitize keeps keys inside the cache directory. Path separators in keys
// are flattened rather than treated as subdirectories.
func sanitize(key string) string {
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, string(filepath.Separator), "_")
	if key == "" || key == "." || key == ".." {
		return "_"
	}
	return key
}
