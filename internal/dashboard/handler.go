package dashboard

import (
	"log"

	"github.com/steveyegge/weekdo/internal/todos"
)

// TodoUpdateData describes one changed todo.
type TodoUpdateData struct {
	TodoID    int    `json:"todo_id"`
	Action    string `json:"action"` // created, updated, deleted, toggled
	Title     string `json:"title,omitempty"`
	Day       string `json:"day,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Completed bool   `json:"completed"`
}

// StoreChangedData reports an on-disk change to the backing file.
type StoreChangedData struct {
	Path  string      `json:"path"`
	Op    string      `json:"op"`
	Stats todos.Stats `json:"stats"`
}

// Handler turns service changes into dashboard messages.
type Handler struct {
	hub    *Hub
	logger *log.Logger
}

// NewHandler creates a handler broadcasting through hub.
func NewHandler(hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// TodoChanged implements todos.Notifier. It sends a todo_update message
// followed by fresh stats.
func (h *Handler) TodoChanged(c todos.Change) {
	h.logger.Printf("Todo %s: %d (%s)", c.Action, c.Todo.ID, c.Todo.Title)

	data := TodoUpdateData{
		TodoID: c.Todo.ID,
		Action: string(c.Action),
	}
	if c.Action != todos.ActionDeleted {
		data.Title = c.Todo.Title
		data.Day = c.Todo.Day
		data.Priority = c.Todo.Priority
		data.Completed = c.Todo.Completed
	}

	h.hub.BroadcastData(MessageTypeTodoUpdate, data)
	h.hub.BroadcastData(MessageTypeStats, todos.Summarize(c.Todos))
}

// StoreChanged sends a store_changed message for an external file change.
func (h *Handler) StoreChanged(path, op string, stats todos.Stats) {
	h.hub.BroadcastData(MessageTypeStoreChanged, StoreChangedData{
		Path:  path,
		Op:    op,
		Stats: stats,
	})
}
