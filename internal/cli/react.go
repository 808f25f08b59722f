package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// newLikeCommand creates the like command.
func newLikeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "like <comment-id>[/<reply-id>]",
		Short: "Like or unlike a comment or reply",
		Long: `Toggle your like on a comment or reply.

Running it twice restores the original count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseTarget(args[0])
			if err != nil {
				return err
			}

			out, err := c.ToggleLikeUseCase().Execute(cmd.Context(), usecase.ToggleLikeInput{
				Actor:  c.Actor,
				Target: target,
			})
			if err != nil {
				return err
			}

			verb := "Unliked"
			if out.Liked {
				verb = "Liked"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, target, pluralize(out.Count, "like", "likes"))
			return nil
		},
	}
}

// newPinCommand creates the pin command.
func newPinCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <comment-id>",
		Short: "Pin or unpin a comment (hosts only)",
		Long: `Toggle the pinned flag of a top-level comment.

Pinned comments are listed first in their tab. Only discussion hosts may pin:
list host actor IDs in [discussion] hosts, or pass --host.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseTarget(args[0])
			if err != nil {
				return err
			}
			if target.IsReply() {
				return fmt.Errorf("only comments can be pinned: %w", domain.ErrInvalidTarget)
			}

			out, err := c.TogglePinUseCase().Execute(cmd.Context(), usecase.TogglePinInput{
				Actor:     c.Actor,
				CommentID: target.CommentID,
				Host:      c.Host,
			})
			if err != nil {
				return err
			}

			verb := "Unpinned"
			if out.Pinned {
				verb = "Pinned"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, target)
			return nil
		},
	}
}
