package cmd

import (
	"fmt"

	"github.com/leandrosilvaferreira/gitai/internal/emoji"
	"github.com/leandrosilvaferreira/gitai/internal/project"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Show the detected project ecosystem",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		abs, err := resolveProjectPath(path)
		if err != nil {
			return err
		}
		eco := project.Classify(abs)
		fmt.Fprintf(outWriter(), "%s %s\n", emoji.ForEcosystem(eco), eco)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
