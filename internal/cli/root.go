// Package cli provides the command-line interface for crew-talk.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/tui"
)

// Command group IDs.
const (
	groupSetup      = "setup"
	groupDiscussion = "discussion"
	groupReading    = "reading"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// identityFlags override the identity resolved from config and git.
type identityFlags struct {
	id        string
	name      string
	anonymous bool
	host      bool
}

// apply copies explicitly set flags onto the container.
func (f *identityFlags) apply(cmd *cobra.Command, c *app.Container) {
	flags := cmd.Flags()
	if flags.Changed("as") {
		c.Actor.ID = f.id
		if !flags.Changed("name") {
			c.Actor.DisplayName = ""
		}
	}
	if flags.Changed("name") {
		c.Actor.DisplayName = f.name
	}
	if flags.Changed("anonymous") {
		c.Actor.Anonymous = f.anonymous
	}
	if flags.Changed("host") {
		c.Host = f.host
	}
}

// NewRootCommand creates the root command for talk.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var ident identityFlags

	root := &cobra.Command{
		Use:   "talk",
		Short: "Threaded discussions for your project",
		Long: `talk keeps tab-scoped, threaded discussions next to your code.

Comments live in tabs (discussion, testimonials, FAQs, Q&A), carry one
level of replies, and can be liked, edited, deleted and pinned by hosts.
Run without arguments to open the interactive discussion panel.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			ident.apply(cmd, c)

			if cmd.Name() == "init" {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&ident.id, "as", "", "Act as this actor ID (overrides [identity] id)")
	pf.StringVar(&ident.name, "name", "", "Display name used for new entries")
	pf.BoolVar(&ident.anonymous, "anonymous", false, "Post under an anonymized handle")
	pf.BoolVar(&ident.host, "host", false, "Act with the host role (pin and unpin comments)")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupDiscussion, Title: "Discussion Commands:"},
		&cobra.Group{ID: groupReading, Title: "Reading Commands:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupSetup

	// Discussion commands
	postCmd := newPostCommand(c)
	postCmd.GroupID = groupDiscussion

	replyCmd := newReplyCommand(c)
	replyCmd.GroupID = groupDiscussion

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupDiscussion

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupDiscussion

	likeCmd := newLikeCommand(c)
	likeCmd.GroupID = groupDiscussion

	pinCmd := newPinCommand(c)
	pinCmd.GroupID = groupDiscussion

	// Reading commands
	showCmd := newShowCommand(c)
	showCmd.GroupID = groupReading

	tabsCmd := newTabsCommand(c)
	tabsCmd.GroupID = groupReading

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupReading

	root.AddCommand(
		initCmd,
		configCmd,
		importCmd,
		postCmd,
		replyCmd,
		editCmd,
		rmCmd,
		likeCmd,
		pinCmd,
		showCmd,
		tabsCmd,
		tuiCmd,
	)

	return root
}

// launchTUI runs the discussion panel until the user quits.
func launchTUI(c *app.Container) error {
	if c == nil {
		return fmt.Errorf("launch tui: no project context")
	}
	model, err := tui.New(c)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
