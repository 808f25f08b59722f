package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// newConfigCommand creates the config command.
// Without a subcommand it shows the effective configuration;
// --init writes the commented template instead.
func newConfigCommand(c *app.Container) *cobra.Command {
	var initFlag, force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage crew-talk configuration files and settings.

Configuration is merged from defaults, the global file
($XDG_CONFIG_HOME/crew-talk/config.toml) and the project file
(.talk/config.toml), later sources taking precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if initFlag {
				return runConfigInit(cmd, c, force)
			}
			return runConfigShow(cmd, c)
		},
	}

	cmd.Flags().BoolVar(&initFlag, "init", false, "Write a commented config template to .talk/config.toml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file (with --init)")

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigInitCommand(c))
	cmd.AddCommand(newConfigTemplateCommand(c))

	return cmd
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the commented config template",
		Long: `Print the commented config template filled with the effective values,
without writing any file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigTemplateUseCase().Execute(cmd.Context(), usecase.ShowConfigTemplateInput{Config: c.AppConfig})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
			return nil
		},
	}
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c)
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a project config file",
		Long: `Generate .talk/config.toml from the commented template.

Error conditions:
- File already exists: "config file already exists" (use --force to overwrite)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, c, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config file")

	return cmd
}

func runConfigShow(cmd *cobra.Command, c *app.Container) error {
	out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(w, "[Loaded from]")
	for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.RepoConfig} {
		if info.Exists {
			_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
		} else {
			_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
		}
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "[Effective Config]")
	return formatEffectiveConfig(w, out.Effective)
}

func runConfigInit(cmd *cobra.Command, c *app.Container, force bool) error {
	out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Force: force})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
	return nil
}

// formatEffectiveConfig writes cfg in TOML form, including values that are
// not plain struct fields in the file format (ack_delay).
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	tabs := make([]string, 0, len(cfg.Discussion.Tabs))
	for _, t := range cfg.Discussion.Tabs {
		tabs = append(tabs, string(t))
	}
	hosts := cfg.Discussion.Hosts
	if hosts == nil {
		hosts = []string{}
	}

	output := map[string]any{
		"identity": map[string]any{
			"id":        cfg.Identity.ID,
			"name":      cfg.Identity.DisplayName,
			"anonymous": cfg.Identity.Anonymous,
		},
		"discussion": map[string]any{
			"default_tab": string(cfg.Discussion.DefaultTab),
			"tabs":        tabs,
			"hosts":       hosts,
			"ack_delay":   cfg.Discussion.AckDelay.String(),
		},
		"store": map[string]any{
			"backend":        cfg.Store.Backend,
			"namespace":      cfg.Store.Namespace,
			"encrypt":        cfg.Store.Encrypt,
			"passphrase_env": cfg.Store.PassphraseEnv,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
		"tui": map[string]any{
			"wrap_width": cfg.TUI.WrapWidth,
		},
	}

	data, err := toml.Marshal(output)
	if err != nil {
		return fmt.Errorf("format config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
