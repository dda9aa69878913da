package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/steveyegge/weekdo/internal/schema"
)

// FilePermissions is the mode used for the backing file.
const FilePermissions = 0644

// JSONFile stores the document as pretty-printed JSON in a single file.
type JSONFile struct {
	path   string
	logger *log.Logger
}

// NewJSONFile returns a store backed by the file at path.
// If logger is nil, recovered read failures are not reported.
func NewJSONFile(path string, logger *log.Logger) *JSONFile {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &JSONFile{
		path:   path,
		logger: logger,
	}
}

// Load reads and parses the backing file. A missing file or invalid JSON
// yields an empty document.
func (f *JSONFile) Load() *schema.Document {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Printf("Failed to read %s, using empty collection: %v", f.path, err)
		}
		return emptyDocument()
	}

	var doc schema.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		f.logger.Printf("Failed to parse %s, using empty collection: %v", f.path, err)
		return emptyDocument()
	}

	if doc.Todos == nil {
		doc.Todos = []schema.Todo{}
	}
	if err := doc.Validate(); err != nil {
		f.logger.Printf("Warning: %s has invalid records, serving as stored: %v", f.path, err)
	}
	return &doc
}

// Save writes doc to the backing file with two-space indentation,
// creating the parent directory if needed.
func (f *JSONFile) Save(doc *schema.Document) error {
	if doc == nil {
		doc = emptyDocument()
	}
	if doc.Todos == nil {
		doc = &schema.Document{Todos: []schema.Todo{}}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal todos: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if err := os.WriteFile(f.path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}
