package domain

import "time"

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether the store exists.
	IsInitialized() bool
}

// CommentRepository persists discussions beyond the process lifetime.
// It is a plain CRUD bridge; all discussion rules live in the engine.
type CommentRepository interface {
	// Load retrieves the comments of one tab in stored order.
	Load(tab Tab) ([]Comment, error)

	// LoadAll retrieves the comments of every tab in stored order.
	LoadAll() ([]Comment, error)

	// Save replaces the stored collection with comments.
	Save(comments []Comment) error
}

// IDGenerator assigns identifiers to new comments and replies.
type IDGenerator interface {
	// NewID returns an identifier that has not been returned before.
	NewID() string
}

// Logger is the logging port used by the engine and usecases.
// Entries are grouped by tab; an empty tab logs only globally.
type Logger interface {
	Info(tab Tab, category, msg string)
	Debug(tab Tab, category, msg string)
	Warn(tab Tab, category, msg string)
	Error(tab Tab, category, msg string)
}

// NopLogger discards every entry.
type NopLogger struct{}

// Info discards the entry.
func (NopLogger) Info(Tab, string, string) {}

// Debug discards the entry.
func (NopLogger) Debug(Tab, string, string) {}

// Warn discards the entry.
func (NopLogger) Warn(Tab, string, string) {}

// Error discards the entry.
func (NopLogger) Error(Tab, string, string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (repo + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes one config file location.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	// GetRepoConfigInfo returns information about the repository config file.
	GetRepoConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitRepoConfig writes the template config into the repository.
	InitRepoConfig(cfg *Config, force bool) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Timer is a pending deferred callback.
type Timer interface {
	// Stop cancels the callback. It returns false if it already ran.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules callbacks with time.AfterFunc.
type RealScheduler struct{}

// AfterFunc calls f in its own goroutine after d.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
