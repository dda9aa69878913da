package main

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/steveyegge/weekdo/internal/config"
	"github.com/steveyegge/weekdo/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "setup",
	Short:   "Create or inspect the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a weekdo.toml with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		if err := config.WriteTOML(path, config.Defaults(), force); err != nil {
			return err
		}
		ui.OK(cmd.OutOrStdout(), "Wrote "+path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings after merging defaults, the config file, WEEKDO_*
environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd.OutOrStdout(), *cfg, v.ConfigFileUsed(), jsonOutput)
	},
}

func init() {
	configInitCmd.Flags().String("path", config.FileName+".toml", "where to write the file")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(w io.Writer, c config.Config, source string, asJSON bool) error {
	if asJSON {
		return writeJSON(w, c)
	}

	if source == "" {
		source = "none"
	}
	fmt.Fprintf(w, "# config file: %s\n", source)
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
