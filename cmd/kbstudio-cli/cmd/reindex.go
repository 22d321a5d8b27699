package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kbstudio/internal/logging"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the node ID index from the stored documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := store.Reindex()
		if err != nil {
			return err
		}

		if stats.DuplicateIDs > 0 {
			logging.FromContext(cmd.Context()).Warn().Int("duplicates", stats.DuplicateIDs).Msg("some workflows repeat node IDs")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d nodes in %d workflows (%s)\n",
			stats.NodesIndexed, stats.WorkflowsScanned, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
