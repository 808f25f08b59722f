// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/crew-talk/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// SequenceIDs is a test double for domain.IDGenerator.
// It returns Prefix followed by an increasing counter ("id-1", "id-2", ...).
type SequenceIDs struct {
	Prefix string
	Queue  []string // Returned first, in order, before the counter is used
	n      int
}

// NewID returns the next identifier.
func (s *SequenceIDs) NewID() string {
	if len(s.Queue) > 0 {
		id := s.Queue[0]
		s.Queue = s.Queue[1:]
		return id
	}
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id-"
	}
	return fmt.Sprintf("%s%d", prefix, s.n)
}

// MockCommentRepository is a test double for domain.CommentRepository.
// Fields are ordered to minimize memory padding.
type MockCommentRepository struct {
	LoadErr   error
	SaveErr   error
	Comments  []domain.Comment
	SaveCalls int
}

// NewMockCommentRepository creates a repository holding a copy of comments.
func NewMockCommentRepository(comments ...domain.Comment) *MockCommentRepository {
	return &MockCommentRepository{Comments: domain.CloneComments(comments)}
}

// Ensure MockCommentRepository implements domain.CommentRepository interface.
var _ domain.CommentRepository = (*MockCommentRepository)(nil)

// Load returns the comments of one tab.
func (m *MockCommentRepository) Load(tab domain.Tab) ([]domain.Comment, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	tab = tab.Resolve()
	var out []domain.Comment
	for i := range m.Comments {
		if m.Comments[i].EffectiveTab() == tab {
			out = append(out, m.Comments[i].Clone())
		}
	}
	return out, nil
}

// LoadAll returns every comment.
func (m *MockCommentRepository) LoadAll() ([]domain.Comment, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return domain.CloneComments(m.Comments), nil
}

// Save records the collection or returns the configured error.
func (m *MockCommentRepository) Save(comments []domain.Comment) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Comments = domain.CloneComments(comments)
	return nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store initialized or returns the configured error.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured state.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// FakeScheduler is a test double for domain.Scheduler.
// Callbacks never run on their own; tests fire them with Fire or FireAll.
type FakeScheduler struct {
	timers []*FakeTimer
	mu     sync.Mutex
}

// FakeTimer is a timer created by FakeScheduler.
type FakeTimer struct {
	f       func()
	Delay   time.Duration
	stopped bool
	fired   bool
}

// Stop cancels the timer. It returns false if the timer already fired or
// was stopped.
func (t *FakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether Stop cancelled the timer.
func (t *FakeTimer) Stopped() bool { return t.stopped }

// Fire runs the callback even if the timer was stopped, simulating a timer
// that raced its cancellation.
func (t *FakeTimer) Fire() {
	t.fired = true
	t.f()
}

// Ensure FakeScheduler implements domain.Scheduler interface.
var _ domain.Scheduler = (*FakeScheduler)(nil)

// AfterFunc records a pending callback.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &FakeTimer{Delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Timers returns every timer created so far.
func (s *FakeScheduler) Timers() []*FakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.timers)
}

// Pending returns timers that were neither stopped nor fired.
func (s *FakeScheduler) Pending() []*FakeTimer {
	var out []*FakeTimer
	for _, t := range s.Timers() {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// FireAll runs every pending callback.
func (s *FakeScheduler) FireAll() {
	for _, t := range s.Pending() {
		t.Fire()
	}
}

// LogEntry is one entry captured by MockLogger.
type LogEntry struct {
	Tab      domain.Tab
	Level    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that captures entries.
type MockLogger struct {
	Entries []LogEntry
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

// Info records an info entry.
func (m *MockLogger) Info(tab domain.Tab, category, msg string) {
	m.add(tab, "INFO", category, msg)
}

// Debug records a debug entry.
func (m *MockLogger) Debug(tab domain.Tab, category, msg string) {
	m.add(tab, "DEBUG", category, msg)
}

// Warn records a warn entry.
func (m *MockLogger) Warn(tab domain.Tab, category, msg string) {
	m.add(tab, "WARN", category, msg)
}

// Error records an error entry.
func (m *MockLogger) Error(tab domain.Tab, category, msg string) {
	m.add(tab, "ERROR", category, msg)
}

// Categories returns the categories of entries at level, in order.
func (m *MockLogger) Categories(level string) []string {
	var out []string
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e.Category)
		}
	}
	return out
}

func (m *MockLogger) add(tab domain.Tab, level, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Tab: tab, Level: level, Category: category, Msg: msg})
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitRepoErr      error
	InitRepoCfg      *domain.Config
	RepoConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitRepoCalled   bool
	InitRepoForce    bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		RepoConfigInfo: domain.ConfigInfo{
			Path:   "/test/.talk/config.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/crew-talk/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetRepoConfigInfo returns the configured repo config info.
func (m *MockConfigManager) GetRepoConfigInfo() domain.ConfigInfo {
	return m.RepoConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitRepoConfig records the call and returns configured error.
func (m *MockConfigManager) InitRepoConfig(cfg *domain.Config, force bool) error {
	m.InitRepoCalled = true
	m.InitRepoForce = force
	m.InitRepoCfg = cfg
	return m.InitRepoErr
}
