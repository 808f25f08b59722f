package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings   []string         `toml:"-"`
	Identity   Actor            `toml:"identity"`
	Discussion DiscussionConfig `toml:"discussion"`
	Store      StoreConfig      `toml:"store"`
	Log        LogConfig        `toml:"log"`
	TUI        TUIConfig        `toml:"tui"`
}

// DiscussionConfig holds settings from the [discussion] section.
type DiscussionConfig struct {
	DefaultTab Tab           `toml:"default_tab,omitempty"` // Tab opened first
	Tabs       []Tab         `toml:"tabs,omitempty"`        // Tabs offered by the discussion
	Hosts      []string      `toml:"hosts,omitempty"`       // Actor IDs holding the host role
	AckDelay   time.Duration `toml:"-"`                     // Auto-dismiss delay of acknowledgements
}

// StoreConfig holds settings from the [store] section.
type StoreConfig struct {
	Backend       string `toml:"backend,omitempty"`        // "json" (default), "git" or "sqlite"
	Namespace     string `toml:"namespace,omitempty"`      // Ref namespace for the git backend
	PassphraseEnv string `toml:"passphrase_env,omitempty"` // Env var holding the encryption passphrase
	Encrypt       bool   `toml:"encrypt,omitempty"`        // Encrypt blobs (git backend)
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// TUIConfig holds settings from the [tui] section.
type TUIConfig struct {
	WrapWidth int `toml:"wrap_width,omitempty"` // Max width of comment bodies (0 = terminal width)
}

// Store backends.
const (
	BackendJSON   = "json"
	BackendGit    = "git"
	BackendSQLite = "sqlite"
)

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultBackend       = BackendJSON
	DefaultNamespace     = "talk"
	DefaultPassphraseEnv = "TALK_PASSPHRASE"
	DefaultAckDelay      = 3 * time.Second
)

// Directory and file names.
const (
	TalkDirName    = ".talk"       // Per-project data directory
	GlobalDirName  = "crew-talk"   // Directory under XDG_CONFIG_HOME
	ConfigFileName = "config.toml" // Config file name
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Discussion: DiscussionConfig{
			DefaultTab: DefaultTab,
			Tabs:       DefaultTabs(),
			AckDelay:   DefaultAckDelay,
		},
		Store: StoreConfig{
			Backend:       DefaultBackend,
			Namespace:     DefaultNamespace,
			PassphraseEnv: DefaultPassphraseEnv,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Moderation returns the moderation policy configured for the discussion.
func (c *Config) Moderation() Moderation {
	return HostList(c.Discussion.Hosts)
}

// HasTab returns true if the tab is offered by the discussion.
func (c *Config) HasTab(tab Tab) bool {
	return slices.Contains(c.Discussion.Tabs, tab.Resolve())
}

// ValidateBackend returns an error for unknown backends.
func (c *Config) ValidateBackend() error {
	switch c.Store.Backend {
	case BackendJSON, BackendGit, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("%q: %w", c.Store.Backend, ErrInvalidBackend)
	}
}

// RepoTalkDir returns the talk data directory for a project root.
func RepoTalkDir(root string) string {
	return filepath.Join(root, TalkDirName)
}

// RepoConfigPath returns the project config path.
func RepoConfigPath(root string) string {
	return filepath.Join(RepoTalkDir(root), ConfigFileName)
}

// GlobalTalkDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalTalkDir(configHome string) string {
	return filepath.Join(configHome, GlobalDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalTalkDir(configHome), ConfigFileName)
}

// CommentsStorePath returns the path of the JSON store.
func CommentsStorePath(talkDir string) string {
	return filepath.Join(talkDir, "comments.json")
}

// SQLiteStorePath returns the path of the SQLite store.
func SQLiteStorePath(talkDir string) string {
	return filepath.Join(talkDir, "comments.db")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(talkDir string) string {
	return filepath.Join(talkDir, "logs", "talk.log")
}

// TabLogPath returns the path to a tab's log file.
func TabLogPath(talkDir string, tab Tab) string {
	return filepath.Join(talkDir, "logs", "tab-"+url.PathEscape(string(tab.Resolve()))+".log")
}

// templateData holds all data for rendering the config template.
type templateData struct {
	DefaultTab string
	Tabs       string
	Backend    string
	Namespace  string
	Passphrase string
	LogLevel   string
	AckDelay   string
}

// RenderConfigTemplate renders the commented config template from cfg.
func RenderConfigTemplate(cfg *Config) string {
	tabs := make([]string, 0, len(cfg.Discussion.Tabs))
	for _, t := range cfg.Discussion.Tabs {
		tabs = append(tabs, fmt.Sprintf("%q", string(t)))
	}
	data := templateData{
		DefaultTab: string(cfg.Discussion.DefaultTab.Resolve()),
		Tabs:       strings.Join(tabs, ", "),
		Backend:    cfg.Store.Backend,
		Namespace:  cfg.Store.Namespace,
		Passphrase: cfg.Store.PassphraseEnv,
		LogLevel:   cfg.Log.Level,
		AckDelay:   cfg.Discussion.AckDelay.String(),
	}

	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return configTemplateContent
	}
	return buf.String()
}
