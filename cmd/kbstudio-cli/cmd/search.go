package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kbstudio/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search nodes across workflows",
	Long: `Search for nodes in every stored workflow by ID or type.

Results are ranked by relevance using fuzzy matching.

Examples:
  kbstudio-cli search llm
  kbstudio-cli search 4821`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := commands.NewSearchNodesCommand(GetStore(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintln(out, "No results found")
			return nil
		}
		for _, m := range matches {
			fmt.Fprintf(out, "[%s] %s %s (%s)\n", m.NodeType, m.NodeID, m.WorkflowName, m.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
