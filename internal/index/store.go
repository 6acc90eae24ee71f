package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError is returned when no index file exists at the given path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("index not found: %s", e.Path)
}

// indexFile is the on-disk JSON layout.
type indexFile struct {
	Entries []Entry `json:"entries"`
}

// Save writes the index to path as JSON, creating parent directories as
// needed.
func (idx *Index) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	data, err := json.Marshal(indexFile{Entries: idx.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// Load reads an index from path. The embedder is required for subsequent
// queries and additions. A missing file yields *NotFoundError.
func Load(path string, embedder Embedder) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse index file %s: %w", path, err)
	}

	return &Index{entries: file.Entries, embedder: embedder}, nil
}
