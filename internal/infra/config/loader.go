// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/crew-talk/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	talkDir       string // Path to .talk directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/crew-talk)
}

// NewLoader creates a new Loader.
func NewLoader(talkDir string) *Loader {
	return &Loader{
		talkDir:       talkDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(talkDir, globalConfDir string) *Loader {
	return &Loader{
		talkDir:       talkDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalTalkDir(configHome)
}

// Load returns the merged configuration (repo + global).
// Repository config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	repo, err := l.LoadRepo()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- repo (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if repo != nil {
		base = mergeConfigs(base, repo)
	}

	if !base.HasTab(base.Discussion.DefaultTab) {
		base.Warnings = append(base.Warnings,
			fmt.Sprintf("default_tab %q is not in tabs; using %q", base.Discussion.DefaultTab, base.Discussion.Tabs[0]))
		base.Discussion.DefaultTab = base.Discussion.Tabs[0]
	}
	if err := base.ValidateBackend(); err != nil {
		return nil, err
	}

	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadRepo returns only the repository configuration.
func (l *Loader) LoadRepo() (*domain.Config, error) {
	return l.loadFile(filepath.Join(l.talkDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Values of the wrong type are reported as warnings and otherwise ignored.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	warnType := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("invalid value in [%s]: %s", section, key))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		switch section {
		case "identity":
			for k, v := range m {
				switch k {
				case "id":
					if s, ok := v.(string); ok {
						res.Identity.ID = s
					} else {
						warnType(section, k)
					}
				case "name":
					if s, ok := v.(string); ok {
						res.Identity.DisplayName = s
					} else {
						warnType(section, k)
					}
				case "anonymous":
					if b, ok := v.(bool); ok {
						res.Identity.Anonymous = b
					} else {
						warnType(section, k)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [identity]: %s", k))
				}
			}
		case "discussion":
			for k, v := range m {
				switch k {
				case "default_tab":
					if s, ok := v.(string); ok {
						res.Discussion.DefaultTab = domain.Tab(s)
					} else {
						warnType(section, k)
					}
				case "tabs":
					tabs, ok := stringList(v)
					if !ok {
						warnType(section, k)
						continue
					}
					for _, s := range tabs {
						res.Discussion.Tabs = append(res.Discussion.Tabs, domain.Tab(s))
					}
				case "hosts":
					hosts, ok := stringList(v)
					if !ok {
						warnType(section, k)
						continue
					}
					res.Discussion.Hosts = hosts
				case "ack_delay":
					s, ok := v.(string)
					if !ok {
						warnType(section, k)
						continue
					}
					d, err := time.ParseDuration(s)
					if err != nil || d < 0 {
						warnType(section, k)
						continue
					}
					res.Discussion.AckDelay = d
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [discussion]: %s", k))
				}
			}
		case "store":
			for k, v := range m {
				switch k {
				case "backend":
					if s, ok := v.(string); ok {
						res.Store.Backend = s
					} else {
						warnType(section, k)
					}
				case "namespace":
					if s, ok := v.(string); ok {
						res.Store.Namespace = s
					} else {
						warnType(section, k)
					}
				case "passphrase_env":
					if s, ok := v.(string); ok {
						res.Store.PassphraseEnv = s
					} else {
						warnType(section, k)
					}
				case "encrypt":
					if b, ok := v.(bool); ok {
						res.Store.Encrypt = b
					} else {
						warnType(section, k)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [store]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					} else {
						warnType(section, k)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		case "tui":
			for k, v := range m {
				switch k {
				case "wrap_width":
					if n, ok := v.(int64); ok && n >= 0 {
						res.TUI.WrapWidth = int(n)
					} else {
						warnType(section, k)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [tui]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// stringList converts a TOML array of strings.
func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	if override.Identity.ID != "" {
		result.Identity.ID = override.Identity.ID
	}
	if override.Identity.DisplayName != "" {
		result.Identity.DisplayName = override.Identity.DisplayName
	}
	if override.Identity.Anonymous {
		result.Identity.Anonymous = true
	}
	if override.Discussion.DefaultTab != "" {
		result.Discussion.DefaultTab = override.Discussion.DefaultTab
	}
	if len(override.Discussion.Tabs) > 0 {
		result.Discussion.Tabs = append([]domain.Tab{}, override.Discussion.Tabs...)
	}
	if len(override.Discussion.Hosts) > 0 {
		result.Discussion.Hosts = append([]string{}, override.Discussion.Hosts...)
	}
	if override.Discussion.AckDelay > 0 {
		result.Discussion.AckDelay = override.Discussion.AckDelay
	}
	if override.Store.Backend != "" {
		result.Store.Backend = override.Store.Backend
	}
	if override.Store.Namespace != "" {
		result.Store.Namespace = override.Store.Namespace
	}
	if override.Store.PassphraseEnv != "" {
		result.Store.PassphraseEnv = override.Store.PassphraseEnv
	}
	if override.Store.Encrypt {
		result.Store.Encrypt = true
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.TUI.WrapWidth > 0 {
		result.TUI.WrapWidth = override.TUI.WrapWidth
	}

	return &result
}
