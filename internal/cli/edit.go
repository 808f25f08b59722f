package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// newEditCommand creates the edit command for comments and replies.
func newEditCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <comment-id>[/<reply-id>] <text>...",
		Short: "Edit one of your comments or replies",
		Long: `Replace the text of a comment or reply you wrote.

Address a reply through its parent comment, e.g. "c1/r2".
Pass "-" as <text> to read the new text from stdin.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseTarget(args[0])
			if err != nil {
				return err
			}
			text, err := readText(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			if target.IsReply() {
				_, err = c.EditReplyUseCase().Execute(cmd.Context(), usecase.EditReplyInput{
					Actor:     c.Actor,
					CommentID: target.CommentID,
					ReplyID:   target.ReplyID,
					Text:      text,
				})
			} else {
				_, err = c.EditCommentUseCase().Execute(cmd.Context(), usecase.EditCommentInput{
					Actor:     c.Actor,
					CommentID: target.CommentID,
					Text:      text,
				})
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Edited %s\n", target)
			return nil
		},
	}
}

// newRmCommand creates the rm command for comments and replies.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <comment-id>[/<reply-id>]",
		Aliases: []string{"delete"},
		Short:   "Delete one of your comments or replies",
		Long: `Delete a comment or reply you wrote.

Deleting a comment also removes all of its replies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseTarget(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if target.IsReply() {
				err := c.DeleteReplyUseCase().Execute(cmd.Context(), usecase.DeleteReplyInput{
					Actor:     c.Actor,
					CommentID: target.CommentID,
					ReplyID:   target.ReplyID,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "Deleted reply %s\n", target)
				return nil
			}

			out, err := c.DeleteCommentUseCase().Execute(cmd.Context(), usecase.DeleteCommentInput{
				Actor:     c.Actor,
				CommentID: target.CommentID,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "Deleted comment %s (%s)\n", target, pluralize(out.Replies, "reply", "replies"))
			return nil
		},
	}
}
