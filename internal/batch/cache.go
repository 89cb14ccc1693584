package batch

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ProcessedFile records a PDF that produced outputs.
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	Pages       int       `json:"pages"`
	Tables      int       `json:"tables"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Cache maps source paths to the hash they had when last processed.
type Cache struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"`
}

func newCache() *Cache {
	return &Cache{ProcessedFiles: make(map[string]ProcessedFile)}
}

// LoadCache reads the cache file. A missing or empty file yields an empty cache.
func LoadCache(cacheFile string) (*Cache, error) {
	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return newCache(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return newCache(), nil
	}

	cache := newCache()
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
	}
	return cache, nil
}

func SaveCache(cacheFile string, cache *Cache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Unchanged reports whether path was already processed with the same hash.
func (c *Cache) Unchanged(path, hash string) bool {
	cached, ok := c.ProcessedFiles[path]
	return ok && hash != "" && cached.FileHash == hash
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
