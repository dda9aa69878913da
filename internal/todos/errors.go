package todos

import (
	"errors"
	"strings"

	"github.com/steveyegge/weekdo/internal/schema"
)

// User-facing messages.
const (
	MsgTodoNotFound    = "Задача не найдена"
	MsgTodoDeleted     = "Задача удалена"
	MsgTitleDayMissing = "Название и день недели обязательны"
	MsgInvalidDay      = "Неверный день недели"
)

// ErrNotFound is matched by every not-found error returned by the service.
var ErrNotFound = errors.New("not found")

// NotFoundError carries the message shown for a missing todo or an empty day.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports missing or invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func todoNotFound() error {
	return &NotFoundError{Message: MsgTodoNotFound}
}

func dayNotFound(day string) error {
	return &NotFoundError{Message: "Задачи на " + day + " не найдены"}
}

// invalidDayWithHint lists the accepted day names.
func invalidDayWithHint() error {
	return &ValidationError{Message: MsgInvalidDay + ". Используйте: " + strings.Join(schema.Days, ", ")}
}
