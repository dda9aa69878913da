package store

import (
	"github.com/steveyegge/weekdo/internal/schema"
)

// Memory keeps the document in memory. Load and Save copy the todo list so
// callers never share a slice with the store, matching the file store.
type Memory struct {
	doc     schema.Document
	SaveErr error // returned by Save when set
	Saves   int   // number of successful saves
}

// NewMemory returns a memory store seeded with todos.
func NewMemory(todos ...schema.Todo) *Memory {
	m := &Memory{}
	m.doc.Todos = append([]schema.Todo{}, todos...)
	return m
}

// Load returns a copy of the stored document.
func (m *Memory) Load() *schema.Document {
	return &schema.Document{Todos: append([]schema.Todo{}, m.doc.Todos...)}
}

// Save replaces the stored document with a copy of doc.
func (m *Memory) Save(doc *schema.Document) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.doc.Todos = append([]schema.Todo{}, doc.Todos...)
	m.Saves++
	return nil
}
