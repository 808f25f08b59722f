package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// newImportCommand creates the import command for YAML seed files.
func newImportCommand(c *app.Container) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import comments from a YAML file",
		Long: `Import a discussion data set from YAML.

The file holds a "comments" list; each comment may carry replies,
likes, a verified flag, a donation and a tab:

  comments:
    - id: c1
      author: alice
      authorID: u1
      text: Great talk!
      tab: testimonials
      donation: 5
      replies:
        - id: r1
          author: bob
          authorID: u2
          text: Agreed

Entries without an id get a fresh one. Entries with authorID "self"
are recorded as authored by the current identity. Use --replace to discard the
stored discussion instead of appending to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ImportSeedUseCase().Execute(cmd.Context(), usecase.ImportSeedInput{
				Path:    args[0],
				Replace: replace,
				Actor:   c.Actor,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s and %s\n",
				pluralize(out.Comments, "comment", "comments"),
				pluralize(out.Replies, "reply", "replies"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the stored discussion")

	return cmd
}
