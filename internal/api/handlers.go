package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/todos"
)

// maxBodySize limits request bodies.
const maxBodySize = 1 << 20 // 1 MB

// Messages that do not come from the todos service.
const (
	msgBadBody    = "Некорректное тело запроса"
	msgSaveFailed = "Не удалось сохранить задачи"
)

// ListResponse is the body for collection reads.
type ListResponse struct {
	Todos []schema.Todo `json:"todos"`
}

// TodoResponse is the body for single-todo reads and writes.
type TodoResponse struct {
	Todo *schema.Todo `json:"todo"`
}

// MessageResponse is the body for errors and delete confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// handleList handles GET {base}/ with optional query parameters.
// Query parameters:
//   - day: case-insensitive day name
//   - completed: "true" selects completed todos, any other value open ones
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := todos.Filter{Day: q.Get("day")}
	if vals, ok := q["completed"]; ok {
		completed := len(vals) > 0 && vals[0] == "true"
		filter.Completed = &completed
	}

	s.writeJSON(w, http.StatusOK, ListResponse{Todos: s.svc.List(filter)})
}

// handleListByDay handles GET {base}/day/{day}.
func (s *Server) handleListByDay(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.ListByDay(r.PathValue("day"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ListResponse{Todos: result})
}

// handleGet handles GET {base}/{id}.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := todos.ParseID(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, todos.MsgTodoNotFound)
		return
	}

	todo, err := s.svc.Get(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TodoResponse{Todo: todo})
}

// handleCreate handles POST {base}/.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	body, err := schema.DecodeCreateBody(data)
	if err != nil {
		s.writeBodyError(w, err)
		return
	}

	todo, err := s.svc.Create(todos.CreateInput{
		Title:       body.Title,
		Description: body.Description,
		Day:         body.Day,
		Priority:    body.Priority,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, TodoResponse{Todo: todo})
}

// handleUpdate handles PUT {base}/{id}.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := todos.ParseID(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, todos.MsgTodoNotFound)
		return
	}

	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	body, err := schema.DecodeUpdateBody(data)
	if err != nil {
		s.writeBodyError(w, err)
		return
	}

	todo, err := s.svc.Update(id, todos.UpdateInput{
		Title:       body.Title,
		Description: body.Description,
		Day:         body.Day,
		Priority:    body.Priority,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TodoResponse{Todo: todo})
}

// handleDelete handles DELETE {base}/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := todos.ParseID(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, todos.MsgTodoNotFound)
		return
	}

	if err := s.svc.Delete(id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Message: todos.MsgTodoDeleted})
}

// handleToggle handles PUT {base}/{id}/toggle.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := todos.ParseID(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, todos.MsgTodoNotFound)
		return
	}

	todo, err := s.svc.Toggle(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TodoResponse{Todo: todo})
}

// readBody reads at most maxBodySize bytes. On failure it writes a 400.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, msgBadBody+": "+err.Error())
		return nil, false
	}
	return data, true
}

func (s *Server) writeBodyError(w http.ResponseWriter, err error) {
	var be *schema.BodyError
	if errors.As(err, &be) {
		s.writeError(w, http.StatusBadRequest, msgBadBody+": "+be.Detail)
		return
	}
	s.writeError(w, http.StatusBadRequest, msgBadBody)
}

// writeServiceError maps service errors onto status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var ve *todos.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, todos.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Printf("Failed to save todos: %v", err)
		s.writeError(w, http.StatusInternalServerError, msgSaveFailed)
	}
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Failed to write JSON response: %v", err)
	}
}

// writeError writes {"message": message}.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, MessageResponse{Message: message})
}
