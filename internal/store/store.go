// Package store loads and saves the whole todo collection.
//
// A Store has exactly two operations. Load always yields a document: a
// missing or unreadable backing file reads as an empty collection. Save
// replaces the backing data with the given document.
//
// There is no locking between Load and Save. Two writers that load the same
// snapshot will each save their own version and the later save wins.
package store

import (
	"github.com/steveyegge/weekdo/internal/schema"
)

// Store persists the full todo document.
type Store interface {
	// Load returns the current document. It never fails.
	Load() *schema.Document

	// Save overwrites the stored document with doc.
	Save(doc *schema.Document) error
}

// emptyDocument returns a document with a non-nil, empty todo list.
func emptyDocument() *schema.Document {
	return &schema.Document{Todos: []schema.Todo{}}
}
