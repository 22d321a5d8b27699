package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"kbstudio/internal/adapters/clipboard"
	"kbstudio/internal/application/commands"
	"kbstudio/internal/ports"
)

var copyCmd = &cobra.Command{
	Use:   "copy <workflow-id> [node-id...]",
	Short: "Copy nodes to the clipboard",
	Long: `Copy nodes of a workflow to the system clipboard as a workflow document.

Edges are kept when both of their ends are copied. Without node IDs the whole
workflow is copied.

Examples:
  kbstudio-cli copy 6f1c... start llm_1
  kbstudio-cli copy 6f1c...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewCopyNodesCommand(GetStore(), clipboard.NewSystem(), args[0], args[1:]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var pasteFile string

var pasteCmd = &cobra.Command{
	Use:   "paste <workflow-id>",
	Short: "Paste a workflow document into a workflow",
	Long: `Paste the clipboard (or --file) into a workflow.

Node IDs already used by the target workflow are replaced with fresh 6-digit
IDs, and edges and block-output references are rewritten to match.

Examples:
  kbstudio-cli paste 6f1c...
  kbstudio-cli paste 6f1c... --file fragment.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var source ports.Clipboard = clipboard.NewSystem()
		if pasteFile != "" {
			raw, err := readInput(cmd, pasteFile)
			if err != nil {
				return err
			}
			source = clipboard.NewBuffer(string(raw))
		}
		validator, err := GetValidator()
		if err != nil {
			return err
		}

		pasteCmd := commands.NewPasteWorkflowCommand(GetStore(), source, validator, args[0])
		pasteCmd.RewriteOptions = cfg.RewriteOptions()
		result, err := pasteCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		printMerge(cmd, result)
		return nil
	},
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <workflow-id> <node-id...>",
	Short: "Duplicate nodes inside a workflow",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		duplicateCmd := commands.NewDuplicateNodesCommand(GetStore(), args[0], args[1:])
		duplicateCmd.RewriteOptions = cfg.RewriteOptions()
		result, err := duplicateCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		printMerge(cmd, result)
		return nil
	},
}

func printMerge(cmd *cobra.Command, result *commands.MergeResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)

	olds := make([]string, 0, len(result.Renamed))
	for old := range result.Renamed {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	for _, old := range olds {
		fmt.Fprintf(out, "  %s -> %s\n", old, result.Renamed[old])
	}
}

func init() {
	pasteCmd.Flags().StringVarP(&pasteFile, "file", "f", "", "read the document from a file (- for stdin)")

	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(pasteCmd)
	rootCmd.AddCommand(duplicateCmd)
}
