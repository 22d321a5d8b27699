package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kbstudio/internal/application/commands"
	"kbstudio/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored workflows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := commands.NewListWorkflowsCommand(GetStore()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, s := range summaries {
			fmt.Fprintf(out, "%s %s (%d nodes, %d edges)\n", s.ID, s.Name, s.NodeCount, s.EdgeCount)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <name> [file]",
	Short: "Import a workflow document",
	Long: `Import a workflow JSON document as a new workflow.

The document is read from stdin when no file is given.

Examples:
  kbstudio-cli import "Support bot" flow.json
  cat flow.json | kbstudio-cli import "Support bot"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 2 {
			path = args[1]
		}
		raw, err := readInput(cmd, path)
		if err != nil {
			return err
		}
		validator, err := GetValidator()
		if err != nil {
			return err
		}

		result, err := commands.NewImportWorkflowCommand(GetStore(), validator, args[0], raw).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <workflow-id>",
	Short: "Print a workflow as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewExportWorkflowCommand(GetStore(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		if exportOutput != "" {
			return os.WriteFile(config.ExpandHome(exportOutput), append(result.JSON, '\n'), 0644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(result.JSON))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <workflow-id>",
	Short: "Delete a workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteWorkflowCommand(GetStore(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <workflow-id> <name>",
	Short: "Rename a workflow",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRenameWorkflowCommand(GetStore(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
}
