package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// bodyWidth is the wrap width of entry text in plain output.
const bodyWidth = 72

// newShowCommand creates the show command for reading a tab.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Tab    string
		Filter string
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"ls"},
		Short:   "Show the thread of a tab",
		Long: `Show the comments of a tab with their replies.

Pinned comments come first, the rest in posting order.
Filters: all, verified, liked, donation. Replies are never filtered.

Examples:
  # Show the general discussion
  talk show

  # Show FAQs with a donation only, as JSON
  talk show --tab faqs --filter donation --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.Filter(strings.ToLower(strings.TrimSpace(opts.Filter)))
			tab := domain.Tab(opts.Tab)
			if tab == "" {
				tab = c.AppConfig.Discussion.DefaultTab
			}

			out, err := c.ShowThreadUseCase().Execute(cmd.Context(), usecase.ShowThreadInput{
				Actor:  c.Actor,
				Tab:    tab,
				Filter: filter,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return printThreadJSON(cmd.OutOrStdout(), out)
			}
			return printThread(cmd.OutOrStdout(), out, c.Clock.Now())
		},
	}

	cmd.Flags().StringVarP(&opts.Tab, "tab", "t", "", "Tab to show (default: [discussion] default_tab)")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", string(domain.FilterAll), "Filter: all, verified, liked, donation")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

// newTabsCommand creates the tabs command.
func newTabsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "List tabs with comment counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTabsUseCase().Execute(cmd.Context(), usecase.ListTabsInput{})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "TAB\tTITLE\tCOMMENTS\tPINNED\tREPLIES")
			for _, st := range out.Tabs {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					st.Tab, st.Tab.Display(),
					humanize.Comma(int64(st.Comments)),
					humanize.Comma(int64(st.Pinned)),
					humanize.Comma(int64(st.Replies)))
			}
			return tw.Flush()
		},
	}
}

// threadJSON is the machine-readable form of a thread.
type threadJSON struct {
	Tab      domain.Tab       `json:"tab"`
	Filter   domain.Filter    `json:"filter"`
	Comments []domain.Comment `json:"comments"`
	CanPin   bool             `json:"canPin"`
}

func printThreadJSON(w io.Writer, out *usecase.ShowThreadOutput) error {
	comments := out.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(threadJSON{
		Tab:      out.Tab,
		Filter:   out.Filter,
		Comments: comments,
		CanPin:   out.CanPin,
	})
}

func printThread(w io.Writer, out *usecase.ShowThreadOutput, now time.Time) error {
	header := fmt.Sprintf("== %s (%s) · %s · %s ==",
		out.Tab.Display(), out.Tab, out.Filter.Display(), pluralize(len(out.Comments), "comment", "comments"))
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if len(out.Comments) == 0 {
		_, err := fmt.Fprintln(w, "\nNo comments yet. Be the first: talk post <text>")
		return err
	}

	for i := range out.Comments {
		c := &out.Comments[i]
		meta := []string{c.AuthorHandle}
		if c.Verified {
			meta = append(meta, "verified")
		}
		if c.Pinned {
			meta = append(meta, "pinned")
		}
		meta = append(meta, likesLabel(c.LikeCount, c.LikedBySelf))
		if label := createdLabel(c.Created, c.CreatedLabel, now); label != "" {
			meta = append(meta, label)
		}
		if c.HasDonation() {
			meta = append(meta, "donated $"+humanize.FormatFloat("#,###.##", *c.Donation))
		}

		if _, err := fmt.Fprintf(w, "\n[%s] %s\n", c.ID, strings.Join(meta, " · ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, indent.String(wordwrap.String(c.Text, bodyWidth), 4)); err != nil {
			return err
		}

		for j := range c.Replies {
			r := &c.Replies[j]
			rmeta := []string{r.AuthorHandle}
			if r.Verified {
				rmeta = append(rmeta, "verified")
			}
			rmeta = append(rmeta, likesLabel(r.LikeCount, r.LikedBySelf))
			if label := createdLabel(r.Created, r.CreatedLabel, now); label != "" {
				rmeta = append(rmeta, label)
			}
			target := domain.ReplyTarget(c.ID, r.ID)
			if _, err := fmt.Fprintf(w, "  ↳ [%s] %s\n", target, strings.Join(rmeta, " · ")); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, indent.String(wordwrap.String(r.Text, bodyWidth-4), 8)); err != nil {
				return err
			}
		}
	}
	return nil
}

// createdLabel prefers a relative time and falls back to the stored label.
func createdLabel(created time.Time, label string, now time.Time) string {
	if created.IsZero() {
		return label
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

func likesLabel(count int, liked bool) string {
	s := pluralize(count, "like", "likes")
	if liked {
		s += " (you)"
	}
	return s
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}
