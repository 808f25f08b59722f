package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
)

// newTUICommand creates the tui command for launching the interactive panel.
// It is the same as running `talk` without arguments.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive discussion panel",
		Long: `Open the interactive discussion panel.

Browse tabs, compose comments and replies, and use the action menu
(space) to like, edit, delete or pin entries. Press ? for all keys.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}
