package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// newPostCommand creates the post command for top-level comments.
func newPostCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Tab      string
		Donation float64
	}

	cmd := &cobra.Command{
		Use:   "post <text>...",
		Short: "Post a comment",
		Long: `Post a top-level comment to a tab.

The words of <text> are joined with spaces. Pass "-" to read the text from stdin.

Examples:
  # Post to the general discussion
  talk post "Great talk, thanks!"

  # Ask in the FAQs tab
  talk post --tab faqs "Is there a recording?"

  # Leave a testimonial with a donation
  talk post --tab testimonials --donation 5 "Worth every minute"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			uc := c.PostCommentUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.PostCommentInput{
				Actor:    c.Actor,
				Tab:      domain.Tab(opts.Tab),
				Text:     text,
				Donation: opts.Donation,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Posted comment %s to %s\n", out.Comment.ID, out.Comment.EffectiveTab())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Tab, "tab", "t", "", "Tab to post to (default: [discussion] default_tab)")
	cmd.Flags().Float64Var(&opts.Donation, "donation", 0, "Attach a donation amount")

	cmd.PreRunE = func(_ *cobra.Command, _ []string) error {
		if opts.Tab == "" && c != nil {
			opts.Tab = string(c.AppConfig.Discussion.DefaultTab)
		}
		return nil
	}

	return cmd
}

// newReplyCommand creates the reply command.
func newReplyCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reply <comment-id> <text>...",
		Short: "Reply to a comment",
		Long: `Append a reply to a top-level comment.

Replies are one level deep: replying to a reply is not possible.
Pass "-" as <text> to read the text from stdin.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			uc := c.PostReplyUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.PostReplyInput{
				Actor:     c.Actor,
				CommentID: args[0],
				Text:      text,
			})
			if err != nil {
				return err
			}

			target := domain.ReplyTarget(out.Comment.ID, out.Reply.ID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Posted reply %s\n", target)
			return nil
		},
	}
}

// readText joins args, or reads stdin when the only arg is "-".
func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}
