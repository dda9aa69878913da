package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/weekdo/internal/api"
	"github.com/steveyegge/weekdo/internal/config"
	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/store"
	"github.com/steveyegge/weekdo/internal/todos"
	"github.com/steveyegge/weekdo/internal/ui"
	"github.com/steveyegge/weekdo/internal/watch"
)

// Monday.
var fixedNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func init() {
	ui.DisableColor()
}

func testService(t *testing.T) (*todos.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(
		schema.Todo{ID: 1, Title: "Стирка", Day: "понедельник", Priority: "low", CreatedAt: "2024-03-01T10:00:00.000Z"},
		schema.Todo{ID: 2, Title: "Бассейн", Day: "пятница", Priority: "medium", Completed: true, CreatedAt: "2024-03-01T10:00:00.000Z"},
	)
	return todos.NewService(mem, todos.WithClock(func() time.Time { return fixedNow })), mem
}

func TestCompletedFilter(t *testing.T) {
	tests := map[string]bool{"true": true, "false": false, "TRUE": false, "1": false, "": false}
	for raw, want := range tests {
		if got := completedFilter(raw); got == nil || *got != want {
			t.Errorf("completedFilter(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseIDArg(t *testing.T) {
	if id, err := parseIDArg("12"); err != nil || id != 12 {
		t.Errorf("parseIDArg(12) = %d, %v", id, err)
	}
	if _, err := parseIDArg("abc"); err == nil || err.Error() != todos.MsgTodoNotFound {
		t.Errorf("parseIDArg(abc) error = %v, want %q", err, todos.MsgTodoNotFound)
	}
}

func TestRunList_JSON(t *testing.T) {
	svc, _ := testService(t)

	var buf bytes.Buffer
	if err := runList(&buf, svc, todos.Filter{Completed: completedFilter("true")}, true); err != nil {
		t.Fatalf("runList() failed: %v", err)
	}

	var got api.ListResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got.Todos) != 1 || got.Todos[0].ID != 2 {
		t.Errorf("todos = %+v, want only #2", got.Todos)
	}
}

func TestRunList_Text(t *testing.T) {
	svc, _ := testService(t)

	var buf bytes.Buffer
	if err := runList(&buf, svc, todos.Filter{}, false); err != nil {
		t.Fatalf("runList() failed: %v", err)
	}
	for _, want := range []string{"понедельник", "☐ #1 Стирка [low]", "пятница", "☑ #2 Бассейн [medium]"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunDay(t *testing.T) {
	svc, _ := testService(t)

	var buf bytes.Buffer
	if err := runDay(&buf, svc, "ПЯТНИЦА", false); err != nil {
		t.Fatalf("runDay() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Бассейн") {
		t.Errorf("output missing todo:\n%s", buf.String())
	}

	err := runDay(&buf, svc, "среда", false)
	if !errors.Is(err, todos.ErrNotFound) {
		t.Errorf("runDay(среда) error = %v, want ErrNotFound", err)
	}
}

func TestRunShow(t *testing.T) {
	svc, _ := testService(t)

	var buf bytes.Buffer
	if err := runShow(&buf, svc, "1", false); err != nil {
		t.Fatalf("runShow() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Стирка") {
		t.Errorf("output missing title:\n%s", buf.String())
	}

	if err := runShow(&buf, svc, "9", false); !errors.Is(err, todos.ErrNotFound) {
		t.Errorf("runShow(9) error = %v, want ErrNotFound", err)
	}
}

func TestBuildCreateInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		opts    addOptions
		wantDay string
		wantErr bool
	}{
		{"explicit day", []string{"Купить", "хлеб"}, addOptions{day: "Среда"}, "Среда", false},
		{"when phrase", []string{"Отчёт"}, addOptions{when: "завтра"}, "вторник", false},
		{"when day name", []string{"Отчёт"}, addOptions{when: "Пятница"}, "пятница", false},
		{"day and when", []string{"x"}, addOptions{day: "среда", when: "завтра"}, "", true},
		{"unresolvable when", []string{"x"}, addOptions{when: "qwerty"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := buildCreateInput(tt.args, tt.opts, fixedNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildCreateInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if in.Title != strings.Join(tt.args, " ") {
				t.Errorf("title = %q", in.Title)
			}
			if in.Day != tt.wantDay {
				t.Errorf("day = %q, want %q", in.Day, tt.wantDay)
			}
		})
	}
}

func TestBuildCreateInput_UnresolvableIsValidation(t *testing.T) {
	_, err := buildCreateInput([]string{"x"}, addOptions{when: "qwerty"}, fixedNow)
	var ve *todos.ValidationError
	if !errors.As(err, &ve) || !strings.HasPrefix(ve.Message, todos.MsgInvalidDay) {
		t.Errorf("error = %v, want ValidationError starting with %q", err, todos.MsgInvalidDay)
	}
}

func TestUpdateInputFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	flags.String("title", "", "")
	flags.String("description", "", "")
	flags.String("day", "", "")
	flags.String("priority", "", "")

	if err := flags.Parse([]string{"--day", "четверг", "--description", ""}); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	in := updateInputFromFlags(flags)
	if in.Title != nil || in.Priority != nil {
		t.Errorf("unset flags supplied: title=%v priority=%v", in.Title, in.Priority)
	}
	if in.Day == nil || *in.Day != "четверг" {
		t.Errorf("day = %v, want четверг", in.Day)
	}
	if in.Description == nil || *in.Description != "" {
		t.Errorf("description = %v, want empty string supplied", in.Description)
	}
}

func TestRunDelete(t *testing.T) {
	svc, mem := testService(t)

	var buf bytes.Buffer
	if err := runDelete(&buf, svc, "1", true); err != nil {
		t.Fatalf("runDelete() failed: %v", err)
	}
	var got api.MessageResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || got.Message != todos.MsgTodoDeleted {
		t.Errorf("response = %q (%v)", buf.String(), err)
	}
	if n := len(mem.Load().Todos); n != 1 {
		t.Errorf("stored %d todos, want 1", n)
	}

	if err := runDelete(&buf, svc, "1", true); !errors.Is(err, todos.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestRunExport(t *testing.T) {
	svc, _ := testService(t)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runExport(&buf, svc, "json"); err != nil {
			t.Fatalf("runExport() failed: %v", err)
		}
		var doc schema.Document
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(doc.Todos) != 2 {
			t.Errorf("exported %d todos, want 2", len(doc.Todos))
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runExport(&buf, svc, "yaml"); err != nil {
			t.Fatalf("runExport() failed: %v", err)
		}
		if !strings.Contains(buf.String(), "createdAt:") {
			t.Errorf("yaml missing createdAt key:\n%s", buf.String())
		}
		var doc schema.Document
		if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if len(doc.Todos) != 2 || doc.Todos[1].Title != "Бассейн" || !doc.Todos[1].Completed {
			t.Errorf("decoded = %+v", doc.Todos)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := runExport(io.Discard, svc, "xml"); err == nil {
			t.Error("runExport(xml) succeeded, want error")
		}
	})
}

func TestForwardFileEvents(t *testing.T) {
	events := make(chan watch.FileEvent, 2)
	errs := make(chan error, 1)

	events <- watch.FileEvent{Path: "/data/todos.json", Op: watch.OpModify}
	events <- watch.FileEvent{Path: "/data/todos.json", Op: watch.OpDelete}
	errs <- errors.New("overflow")
	close(events)
	close(errs)

	var logBuf bytes.Buffer
	var got []watch.EventOp
	forwardFileEvents(events, errs, log.New(&logBuf, "", 0), func(ev watch.FileEvent) {
		got = append(got, ev.Op)
	})

	if len(got) != 2 || got[0] != watch.OpModify || got[1] != watch.OpDelete {
		t.Errorf("forwarded ops = %v", got)
	}
	if !strings.Contains(logBuf.String(), "Watcher error: overflow") {
		t.Errorf("error not logged:\n%s", logBuf.String())
	}
}

func TestRunConfigShow(t *testing.T) {
	var buf bytes.Buffer
	if err := runConfigShow(&buf, config.Defaults(), "", false); err != nil {
		t.Fatalf("runConfigShow() failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"# config file: none", `addr = ":3000"`, `base_path = "/todos"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ReturnsExitStatus(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataFile := filepath.Join(t.TempDir(), "todos.json")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	var stderr bytes.Buffer
	if code := run([]string{"--data-file", dataFile, "show", "abc"}, &stderr); code != 1 {
		t.Fatalf("run(show abc) = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error: "+todos.MsgTodoNotFound) {
		t.Errorf("stderr = %q, want not-found error", stderr.String())
	}

	stderr.Reset()
	if code := run([]string{"--data-file", dataFile, "add", "Йога", "--day", "суббота"}, &stderr); code != 0 {
		t.Fatalf("run(add) = %d, want 0; stderr %q", code, stderr.String())
	}

	out.Reset()
	if code := run([]string{"--data-file", dataFile, "--json", "list"}, &stderr); code != 0 {
		t.Fatalf("run(list) = %d, want 0; stderr %q", code, stderr.String())
	}
	var got api.ListResponse
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if len(got.Todos) != 1 || got.Todos[0].Day != "суббота" {
		t.Errorf("todos = %+v", got.Todos)
	}
}
