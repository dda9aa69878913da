package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/steveyegge/weekdo/internal/api"
	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/todos"
	"github.com/steveyegge/weekdo/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "todos",
	Short:   "List todos, optionally filtered by day and completion",
	Example: `  wd list
  wd list --day пятница
  wd list --completed true`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _ := cmd.Flags().GetString("day")
		filter := todos.Filter{Day: day}
		if cmd.Flags().Changed("completed") {
			raw, _ := cmd.Flags().GetString("completed")
			filter.Completed = completedFilter(raw)
		}

		return runList(cmd.OutOrStdout(), newService(), filter, jsonOutput)
	},
}

var dayCmd = &cobra.Command{
	Use:     "day <day>",
	GroupID: "todos",
	Short:   "List the todos planned for one day",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDay(cmd.OutOrStdout(), newService(), args[0], jsonOutput)
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	GroupID: "todos",
	Short:   "Show one todo",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.OutOrStdout(), newService(), args[0], jsonOutput)
	},
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	GroupID: "todos",
	Short:   "Show completion totals and todos per day",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := newService().Stats()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		ui.StatsSummary(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	listCmd.Flags().String("day", "", "only todos for this day")
	listCmd.Flags().String("completed", "", `"true" for completed todos, anything else for open ones`)

	rootCmd.AddCommand(listCmd, dayCmd, showCmd, statsCmd)
}

// completedFilter reads the completed filter the way the HTTP API does: only
// the literal "true" selects completed todos.
func completedFilter(raw string) *bool {
	completed := raw == "true"
	return &completed
}

// parseIDArg parses a todo id argument. Anything that is not an integer
// cannot name a todo.
func parseIDArg(raw string) (int, error) {
	id, ok := todos.ParseID(raw)
	if !ok {
		return 0, &todos.NotFoundError{Message: todos.MsgTodoNotFound}
	}
	return id, nil
}

func runList(w io.Writer, svc *todos.Service, filter todos.Filter, asJSON bool) error {
	return printList(w, svc.List(filter), asJSON)
}

func runDay(w io.Writer, svc *todos.Service, day string, asJSON bool) error {
	result, err := svc.ListByDay(day)
	if err != nil {
		return err
	}
	return printList(w, result, asJSON)
}

func runShow(w io.Writer, svc *todos.Service, rawID string, asJSON bool) error {
	id, err := parseIDArg(rawID)
	if err != nil {
		return err
	}
	todo, err := svc.Get(id)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, api.TodoResponse{Todo: todo})
	}
	ui.TodoDetail(w, *todo)
	return nil
}

func printList(w io.Writer, list []schema.Todo, asJSON bool) error {
	if asJSON {
		return writeJSON(w, api.ListResponse{Todos: list})
	}
	ui.TodoList(w, list)
	return nil
}

func printTodo(w io.Writer, verb string, todo *schema.Todo, asJSON bool) error {
	if asJSON {
		return writeJSON(w, api.TodoResponse{Todo: todo})
	}
	ui.OK(w, verb+": "+ui.TodoLine(*todo))
	return nil
}
