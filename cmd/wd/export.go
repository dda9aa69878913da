package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/todos"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "todos",
	Short:   "Print every todo as JSON or YAML",
	Example: `  wd export > backup.json
  wd export --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return runExport(cmd.OutOrStdout(), newService(), format)
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "output format: json or yaml")
	rootCmd.AddCommand(exportCmd)
}

// runExport writes the whole document in the file's own {"todos": [...]} shape.
func runExport(w io.Writer, svc *todos.Service, format string) error {
	doc := schema.Document{Todos: svc.List(todos.Filter{})}

	switch format {
	case "json":
		return writeJSON(w, doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
