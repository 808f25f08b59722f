package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the discussion store",
		Long: `Initialize the discussion store of the current project.

This command creates the .talk/ directory with:
- the comment store selected by [store] backend (json, git or sqlite)
- logs/: directory for log files

The project root is the enclosing git repository when there is one,
otherwise the current directory. Running it again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			in := usecase.InitStoreInput{TalkDir: c.Config.TalkDir}
			if c.Config.InGitRepo {
				in.RepoRoot = c.Config.ProjectRoot
			}
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "talk already initialized in %s\n", out.TalkDir)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Initialized talk in %s (%s store)\n", out.TalkDir, c.AppConfig.Store.Backend)
			if out.GitignoreNeedsAdd {
				_, _ = fmt.Fprintln(w, "Hint: add .talk/ to .gitignore to keep local discussion data out of commits")
			}
			return nil
		},
	}
}
