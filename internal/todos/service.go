// Package todos implements the weekly todo operations over a Store.
//
// Every operation loads the whole collection, works on it in memory and,
// for mutations, saves it back. Successful mutations are reported to an
// optional Notifier.
package todos

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/store"
)

// Action names a kind of mutation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionToggled Action = "toggled"
)

// Change describes a saved mutation.
type Change struct {
	Action Action
	Todo   schema.Todo   // the record after the change, or the removed record
	Todos  []schema.Todo // the whole collection as saved
}

// Notifier receives changes after they have been saved.
type Notifier interface {
	TodoChanged(c Change)
}

// Filter selects todos in List. Zero values disable a criterion.
type Filter struct {
	Day       string
	Completed *bool
}

// CreateInput holds the fields accepted by Create.
type CreateInput struct {
	Title       string
	Description string
	Day         string
	Priority    string
}

// UpdateInput holds the fields accepted by Update. Nil fields are left as is.
type UpdateInput struct {
	Title       *string
	Description *string
	Day         *string
	Priority    *string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the receiver of change notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service performs todo operations against a store.
type Service struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

// NewService creates a service over st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseID reads a todo id from a path segment the way a lenient integer
// parse does: leading whitespace and a sign are allowed, a 0x prefix reads
// hex, and parsing stops at the first character that is not a digit, so
// "1.5" and "1abc" are both 1. ok is false when no digits lead the segment.
func ParseID(raw string) (id int, ok bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") && isHex(s[2]) {
		base, isDigit = 16, isHex
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(sign+s[:end], base, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// List returns the todos matching f in stored order. The result is never nil.
func (s *Service) List(f Filter) []schema.Todo {
	doc := s.store.Load()

	result := make([]schema.Todo, 0, len(doc.Todos))
	for _, t := range doc.Todos {
		if f.Day != "" && !t.MatchesDay(f.Day) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		result = append(result, t)
	}
	return result
}

// ListByDay returns the todos planned for day. An empty result is a
// not-found error naming the day.
func (s *Service) ListByDay(day string) ([]schema.Todo, error) {
	result := s.List(Filter{Day: day})
	if day == "" || len(result) == 0 {
		return nil, dayNotFound(day)
	}
	return result, nil
}

// Get returns the todo with the given id.
func (s *Service) Get(id int) (*schema.Todo, error) {
	doc := s.store.Load()

	i := doc.IndexOf(id)
	if i < 0 {
		return nil, todoNotFound()
	}
	t := doc.Todos[i]
	return &t, nil
}

// Create validates in, appends a new todo and saves the collection.
func (s *Service) Create(in CreateInput) (*schema.Todo, error) {
	if in.Title == "" || in.Day == "" {
		return nil, &ValidationError{Message: MsgTitleDayMissing}
	}
	if !schema.IsValidDay(in.Day) {
		return nil, invalidDayWithHint()
	}

	doc := s.store.Load()
	todo := schema.Todo{
		ID:          doc.NextID(),
		Title:       in.Title,
		Description: in.Description,
		Day:         schema.NormalizeDay(in.Day),
		Priority:    schema.PriorityOrDefault(in.Priority),
		Completed:   false,
		CreatedAt:   schema.Timestamp(s.now()),
	}
	doc.Todos = append(doc.Todos, todo)

	if err := s.save(doc); err != nil {
		return nil, err
	}
	s.notify(ActionCreated, todo, doc)
	return &todo, nil
}

// Update merges the supplied fields into the todo with the given id.
//
// An empty title or day keeps the previous value. A supplied description
// replaces the old one, including with the empty string. An unknown
// priority is ignored.
func (s *Service) Update(id int, in UpdateInput) (*schema.Todo, error) {
	doc := s.store.Load()

	i := doc.IndexOf(id)
	if i < 0 {
		return nil, todoNotFound()
	}

	if in.Day != nil && *in.Day != "" && !schema.IsValidDay(*in.Day) {
		return nil, &ValidationError{Message: MsgInvalidDay}
	}

	todo := doc.Todos[i]
	if in.Title != nil && *in.Title != "" {
		todo.Title = *in.Title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Day != nil && *in.Day != "" {
		todo.Day = schema.NormalizeDay(*in.Day)
	}
	if in.Priority != nil && schema.IsValidPriority(*in.Priority) {
		todo.Priority = *in.Priority
	}
	doc.Todos[i] = todo

	if err := s.save(doc); err != nil {
		return nil, err
	}
	s.notify(ActionUpdated, todo, doc)
	return &todo, nil
}

// Delete removes the todo with the given id, keeping the order of the rest.
func (s *Service) Delete(id int) error {
	doc := s.store.Load()

	i := doc.IndexOf(id)
	if i < 0 {
		return todoNotFound()
	}

	removed := doc.Todos[i]
	doc.Todos = append(doc.Todos[:i], doc.Todos[i+1:]...)

	if err := s.save(doc); err != nil {
		return err
	}
	s.notify(ActionDeleted, removed, doc)
	return nil
}

// Toggle flips the completed flag of the todo with the given id.
func (s *Service) Toggle(id int) (*schema.Todo, error) {
	doc := s.store.Load()

	i := doc.IndexOf(id)
	if i < 0 {
		return nil, todoNotFound()
	}

	doc.Todos[i].Completed = !doc.Todos[i].Completed
	todo := doc.Todos[i]

	if err := s.save(doc); err != nil {
		return nil, err
	}
	s.notify(ActionToggled, todo, doc)
	return &todo, nil
}

// Stats summarizes the current collection.
func (s *Service) Stats() Stats {
	return Summarize(s.store.Load().Todos)
}

func (s *Service) save(doc *schema.Document) error {
	if err := s.store.Save(doc); err != nil {
		return fmt.Errorf("failed to save todos: %w", err)
	}
	return nil
}

func (s *Service) notify(action Action, todo schema.Todo, doc *schema.Document) {
	if s.notifier == nil {
		return
	}
	s.notifier.TodoChanged(Change{
		Action: action,
		Todo:   todo,
		Todos:  doc.Todos,
	})
}
