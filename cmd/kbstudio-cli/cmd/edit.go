package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kbstudio/internal/adapters/editor"
	"kbstudio/internal/application/commands"
)

var editCmd = &cobra.Command{
	Use:   "edit <workflow-id>",
	Short: "Edit a workflow document in $EDITOR",
	Long: `Open the workflow document in an external editor and store it when the
editor exits. The edited document must still be a valid workflow.

The editor is taken from KBSTUDIO_EDITOR, VISUAL or EDITOR.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		validator, err := GetValidator()
		if err != nil {
			return err
		}

		result, err := commands.NewEditWorkflowCommand(GetStore(), editor.NewOpener(), validator, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
