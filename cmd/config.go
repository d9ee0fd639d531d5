package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after loading .env files, the
environment and the optional YAML file. The API key is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := loadConfig(wd)
	if err != nil {
		return err
	}

	out := outWriter()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, s := range cfg.Settings() {
		value := s.Value
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", s.EnvVar, value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range cfg.LoadedFiles {
		fmt.Fprintf(out, "Loaded: %s\n", f)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(out, "Config file: %s\n", cfg.ConfigFile)
	}
	return nil
}
