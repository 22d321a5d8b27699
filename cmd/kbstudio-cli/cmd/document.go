package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kbstudio/internal/application/commands"
	"kbstudio/internal/domain"
)

var dedupeDiff bool

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <workflow-id> [file]",
	Short: "Rewrite a document so its node IDs are free in a workflow",
	Long: `Rewrite a workflow document so that none of its node IDs is used by the
target workflow, and print the result without storing it.

Examples:
  kbstudio-cli dedupe 6f1c... fragment.json
  kbstudio-cli dedupe 6f1c... fragment.json --diff`,
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

		dedupeCmd := commands.NewDedupeCommand(GetStore(), validator, args[0], raw)
		dedupeCmd.WithDiff = dedupeDiff
		dedupeCmd.RewriteOptions = cfg.RewriteOptions()
		result, err := dedupeCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dedupeDiff {
			fmt.Fprintln(out, result.Message)
			fmt.Fprint(out, result.Diff)
			return nil
		}
		fmt.Fprintln(out, string(result.JSON))
		return nil
	},
}

var pathsStrict bool

var pathsCmd = &cobra.Command{
	Use:   "paths [file]",
	Short: "List the path of every value in a JSON document",
	Long: `Walk a JSON document depth-first and print the path of every visited
value, children before their parents.

By default, array index 0 and empty keys are left out of paths and falsy
values are skipped. Use --strict to keep every path segment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		raw, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		strict := pathsStrict || cfg.StrictPaths
		result, err := commands.NewInspectCommand(raw, strict).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range result.Entries {
			p := e.Path
			if p == "" {
				p = "(root)"
			}
			fmt.Fprintf(out, "%-40s %s\n", p, e.Value)
		}
		return nil
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline <workflow-id>",
	Short: "Display the node tree of a workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewExportWorkflowCommand(GetStore(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", result.Workflow.ID, result.Workflow.Name)
		var walk func(nodes []*domain.NodeOutline, indent string)
		walk = func(nodes []*domain.NodeOutline, indent string) {
			for i, n := range nodes {
				branch, next := "├── ", "│   "
				if i == len(nodes)-1 {
					branch, next = "└── ", "    "
				}
				fmt.Fprintf(out, "%s%s%s [%s]\n", indent, branch, n.ID, n.Type)
				walk(n.Children, indent+next)
			}
		}
		walk(domain.Outline(result.Workflow.Document), "")
		return nil
	},
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeDiff, "diff", false, "print a line diff instead of the rewritten document")
	pathsCmd.Flags().BoolVar(&pathsStrict, "strict", false, "keep array index 0 and empty keys in paths")

	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(outlineCmd)
}
