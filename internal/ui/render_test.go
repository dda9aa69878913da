package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/todos"
)

func init() {
	DisableColor()
}

func TestTodoLine(t *testing.T) {
	tests := []struct {
		name string
		todo schema.Todo
		want string
	}{
		{"open", schema.Todo{ID: 3, Title: "Отчёт", Priority: "high"}, "☐ #3 Отчёт [high]"},
		{"done", schema.Todo{ID: 7, Title: "Кино", Priority: "low", Completed: true}, "☑ #7 Кино [low]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TodoLine(tt.todo); got != tt.want {
				t.Errorf("TodoLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTodoList_GroupsByWeekOrder(t *testing.T) {
	var buf bytes.Buffer
	TodoList(&buf, []schema.Todo{
		{ID: 1, Title: "b", Day: "пятница", Priority: "low"},
		{ID: 2, Title: "a", Day: "понедельник", Priority: "low"},
		{ID: 3, Title: "c", Day: "Пятница", Priority: "low"},
	})

	out := buf.String()
	mon := strings.Index(out, "понедельник")
	fri := strings.Index(out, "пятница")
	if mon < 0 || fri < 0 || mon > fri {
		t.Fatalf("days out of order:\n%s", out)
	}
	if strings.Count(out, "пятница") != 1 {
		t.Errorf("пятница heading repeated:\n%s", out)
	}
	if !strings.Contains(out, "#3 c") {
		t.Errorf("mixed-case day todo missing:\n%s", out)
	}
}

func TestTodoList_Empty(t *testing.T) {
	var buf bytes.Buffer
	TodoList(&buf, nil)
	if strings.TrimSpace(buf.String()) != "Нет задач" {
		t.Errorf("TodoList(nil) = %q", buf.String())
	}
}

func TestTodoDetail(t *testing.T) {
	var buf bytes.Buffer
	TodoDetail(&buf, schema.Todo{ID: 1, Title: "Стирка", Day: "понедельник", Priority: "low", Completed: true, CreatedAt: "2024-03-01T10:00:00.000Z"})

	out := buf.String()
	for _, want := range []string{"Стирка", "понедельник", "выполнена", "2024-03-01T10:00:00.000Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestStatsSummary(t *testing.T) {
	var buf bytes.Buffer
	StatsSummary(&buf, todos.Summarize([]schema.Todo{
		{ID: 1, Day: "среда", Completed: true},
		{ID: 2, Day: "среда"},
	}))

	out := buf.String()
	if !strings.Contains(out, "] 1/2") {
		t.Errorf("missing progress count:\n%s", out)
	}
	if !strings.Contains(out, "среда        2") {
		t.Errorf("missing среда count:\n%s", out)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total int
		want        string
	}{
		{0, 0, "[░░░░] 0/0"},
		{1, 2, "[██░░] 1/2"},
		{4, 4, "[████] 4/4"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.done, tt.total, 4); got != tt.want {
			t.Errorf("progressBar(%d, %d) = %q, want %q", tt.done, tt.total, got, tt.want)
		}
	}
}
