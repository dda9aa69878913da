// Command wd manages a weekly todo list stored in a JSON file, either
// directly from the terminal or by serving it as a REST API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/steveyegge/weekdo/internal/config"
	"github.com/steveyegge/weekdo/internal/logging"
	"github.com/steveyegge/weekdo/internal/store"
	"github.com/steveyegge/weekdo/internal/todos"
	"github.com/steveyegge/weekdo/internal/ui"
)

var (
	v = config.New()

	cfg  *config.Config
	logs *logging.Logs

	configFile string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "wd",
	Short: "Weekly todo list with a REST API",
	Long: `wd keeps a week of todos in one JSON file.

Todos are planned for a day of the week (понедельник ... воскресенье) and
carry a priority (low, medium, high). Use the todo commands to work with the
file directly, or "wd serve" to expose it over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		logs, err = logging.New(logging.Options{
			File:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		})
		if err != nil {
			return err
		}

		if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColor()
		}
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "todos", Title: "Todo commands:"},
		&cobra.Group{ID: "server", Title: "Server commands:"},
		&cobra.Group{ID: "setup", Title: "Setup commands:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: weekdo.toml or weekdo.yaml in . or ~/.config/weekdo)")
	flags.String("data-file", "", "JSON file holding the todos (default data/todos.json)")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolVar(&jsonOutput, "json", false, "print results as JSON")

	bindFlag(v, "data_file", flags.Lookup("data-file"))
	bindFlag(v, "no_color", flags.Lookup("no-color"))
}

// bindFlag lets a flag override the config key it names once it is set.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// newService opens the configured data file.
func newService(opts ...todos.Option) *todos.Service {
	return todos.NewService(store.NewJSONFile(cfg.DataFile, logs.Logger("store")), opts...)
}

// run executes the command tree and closes the log output whether or not a
// command failed. It returns the process exit status.
func run(args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if cerr := logs.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		ui.Fail(stderr, fmt.Sprintf("Error: %v", err))
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
