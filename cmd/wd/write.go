package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/steveyegge/weekdo/internal/api"
	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/todos"
	"github.com/steveyegge/weekdo/internal/ui"
	"github.com/steveyegge/weekdo/internal/when"
)

var addCmd = &cobra.Command{
	Use:     "add [title...]",
	GroupID: "todos",
	Short:   "Add a todo",
	Long: `Add a todo for a day of the week.

The day is either given exactly with --day or as a phrase with --when
("завтра", "next friday"). Without a title on an interactive terminal, wd
asks for every field.`,
	Example: `  wd add Купить хлеб --day среда
  wd add Отчёт --when tomorrow --priority high
  wd add`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := addOptions{}
		opts.description, _ = cmd.Flags().GetString("description")
		opts.day, _ = cmd.Flags().GetString("day")
		opts.priority, _ = cmd.Flags().GetString("priority")
		opts.when, _ = cmd.Flags().GetString("when")

		in, err := buildCreateInput(args, opts, time.Now())
		if err != nil {
			return err
		}
		if len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
			if err := promptCreateInput(&in); err != nil {
				return err
			}
		}

		todo, err := newService().Create(in)
		if err != nil {
			return err
		}
		return printTodo(cmd.OutOrStdout(), "Добавлена", todo, jsonOutput)
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	GroupID: "todos",
	Short:   "Change fields of a todo",
	Long: `Change fields of a todo. Only the flags that are given are applied.
An empty --title or --day keeps the current value and an unknown priority is
ignored.`,
	Example: `  wd edit 3 --day четверг
  wd edit 3 --description ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		todo, err := newService().Update(id, updateInputFromFlags(cmd.Flags()))
		if err != nil {
			return err
		}
		return printTodo(cmd.OutOrStdout(), "Обновлена", todo, jsonOutput)
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	GroupID: "todos",
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd.OutOrStdout(), newService(), args[0], jsonOutput)
	},
}

var toggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	GroupID: "todos",
	Short:   "Mark a todo done, or open again",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		todo, err := newService().Toggle(id)
		if err != nil {
			return err
		}
		verb := "Открыта снова"
		if todo.Completed {
			verb = "Выполнена"
		}
		return printTodo(cmd.OutOrStdout(), verb, todo, jsonOutput)
	},
}

func init() {
	addCmd.Flags().String("description", "", "longer description")
	addCmd.Flags().String("day", "", "day of the week, e.g. понедельник")
	addCmd.Flags().String("priority", schema.PriorityMedium, "low, medium or high")
	addCmd.Flags().String("when", "", `day phrase such as "завтра" or "next friday"`)

	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description")
	editCmd.Flags().String("day", "", "new day of the week")
	editCmd.Flags().String("priority", "", "new priority")

	rootCmd.AddCommand(addCmd, editCmd, rmCmd, toggleCmd)
}

type addOptions struct {
	description string
	day         string
	priority    string
	when        string
}

// buildCreateInput joins the title words and resolves the day.
func buildCreateInput(args []string, opts addOptions, now time.Time) (todos.CreateInput, error) {
	in := todos.CreateInput{
		Title:       strings.Join(args, " "),
		Description: opts.description,
		Day:         opts.day,
		Priority:    opts.priority,
	}

	if opts.when != "" {
		if opts.day != "" {
			return in, errors.New("use either --day or --when, not both")
		}
		day, err := when.ResolveDay(opts.when, now)
		if err != nil {
			return in, &todos.ValidationError{Message: fmt.Sprintf("%s: %v", todos.MsgInvalidDay, err)}
		}
		in.Day = day
	}
	return in, nil
}

// promptCreateInput asks for every field, starting from the values in in.
func promptCreateInput(in *todos.CreateInput) error {
	if in.Day == "" {
		in.Day = schema.DayForWeekday(time.Now().Weekday())
	}
	if !schema.IsValidPriority(in.Priority) {
		in.Priority = schema.PriorityMedium
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Название").
				Value(&in.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New(todos.MsgTitleDayMissing)
					}
					return nil
				}),
			huh.NewText().
				Title("Описание").
				Value(&in.Description),
			huh.NewSelect[string]().
				Title("День недели").
				Options(huh.NewOptions(schema.Days...)...).
				Value(&in.Day),
			huh.NewSelect[string]().
				Title("Приоритет").
				Options(huh.NewOptions(schema.Priorities...)...).
				Value(&in.Priority),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("input cancelled: %w", err)
	}
	return nil
}

// updateInputFromFlags supplies only the fields whose flags were set.
func updateInputFromFlags(flags *pflag.FlagSet) todos.UpdateInput {
	var in todos.UpdateInput
	set := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		val, _ := flags.GetString(name)
		return &val
	}

	in.Title = set("title")
	in.Description = set("description")
	in.Day = set("day")
	in.Priority = set("priority")
	return in
}

func runDelete(w io.Writer, svc *todos.Service, rawID string, asJSON bool) error {
	id, err := parseIDArg(rawID)
	if err != nil {
		return err
	}
	if err := svc.Delete(id); err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, api.MessageResponse{Message: todos.MsgTodoDeleted})
	}
	ui.OK(w, todos.MsgTodoDeleted)
	return nil
}
