// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/infra/config"
	"github.com/runoshun/crew-talk/internal/infra/crypto"
	"github.com/runoshun/crew-talk/internal/infra/git"
	"github.com/runoshun/crew-talk/internal/infra/gitstore"
	"github.com/runoshun/crew-talk/internal/infra/idgen"
	"github.com/runoshun/crew-talk/internal/infra/jsonstore"
	"github.com/runoshun/crew-talk/internal/infra/logging"
	"github.com/runoshun/crew-talk/internal/infra/sqlitestore"
	"github.com/runoshun/crew-talk/internal/usecase"
	"github.com/runoshun/crew-talk/internal/usecase/shared"
)

// Config holds the application paths.
type Config struct {
	ProjectRoot string // Directory holding .talk (git repository root when available)
	TalkDir     string // Path to the .talk directory
	StorePath   string // Path of the file-based store (json or sqlite backend)
	InGitRepo   bool   // ProjectRoot is a git repository
}

// newConfig derives the paths for a project root.
func newConfig(root string, inGitRepo bool, backend string) Config {
	talkDir := domain.RepoTalkDir(root)
	cfg := Config{
		ProjectRoot: root,
		TalkDir:     talkDir,
		InGitRepo:   inGitRepo,
	}
	switch backend {
	case domain.BackendJSON:
		cfg.StorePath = domain.CommentsStorePath(talkDir)
	case domain.BackendSQLite:
		cfg.StorePath = domain.SQLiteStorePath(talkDir)
	}
	return cfg
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Comments         domain.CommentRepository
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	Logger           domain.Logger
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config
	closers   []func() error

	// Identity resolved from config and git; CLI flags may override it.
	Actor domain.Actor

	// Host grants the host role to Actor regardless of [discussion] hosts.
	Host bool

	// Configuration
	Config Config
}

// New creates a new Container for the project containing dir.
// The project root is the git repository root, else the nearest ancestor
// holding a .talk directory, else dir itself.
func New(dir string) (*Container, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	root := abs
	gitClient, err := git.NewClient(abs)
	switch {
	case err == nil:
		root = gitClient.RepoRoot()
	case errors.Is(err, domain.ErrNotGitRepository):
		if found, ok := findTalkRoot(abs); ok {
			root = found
		}
	default:
		return nil, err
	}

	talkDir := domain.RepoTalkDir(root)
	configLoader := config.NewLoader(talkDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}
	cfg := newConfig(root, gitClient != nil, appConfig.Store.Backend)

	actor := appConfig.Identity
	if actor.ID == "" && gitClient != nil {
		if id, err := gitClient.Identity(); err == nil {
			actor.ID = id.ID
			if actor.DisplayName == "" {
				actor.DisplayName = id.DisplayName
			}
		}
	}

	logger := logging.New(talkDir, logging.ParseLevel(appConfig.Log.Level))

	c := &Container{
		Clock:         domain.RealClock{},
		IDs:           idgen.New(""),
		Logger:        logger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(talkDir),
		AppConfig:     appConfig,
		closers:       []func() error{logger.Close},
		Actor:         actor,
		Config:        cfg,
	}
	if err := c.openStore(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// openStore binds the comment repository selected by [store] backend.
func (c *Container) openStore() error {
	storeCfg := c.AppConfig.Store
	switch storeCfg.Backend {
	case domain.BackendJSON:
		store := jsonstore.New(c.Config.StorePath)
		c.Comments = store
		c.StoreInitializer = store
	case domain.BackendSQLite:
		store := sqlitestore.New(c.Config.StorePath)
		c.Comments = store
		c.StoreInitializer = store
		c.closers = append(c.closers, store.Close)
	case domain.BackendGit:
		if !c.Config.InGitRepo {
			return fmt.Errorf("store backend %q: %w", storeCfg.Backend, domain.ErrNotGitRepository)
		}
		opts, err := c.gitStoreOptions()
		if err != nil {
			return err
		}
		namespace := storeCfg.Namespace
		if namespace == "" {
			namespace = domain.DefaultNamespace
		}
		store, err := gitstore.New(c.Config.ProjectRoot, namespace, opts)
		if err != nil {
			return err
		}
		c.Comments = store
		c.StoreInitializer = store
	default:
		return c.AppConfig.ValidateBackend()
	}
	return nil
}

// gitStoreOptions reads the encryption passphrase from the configured
// environment variable. An encrypted store created earlier still demands it
// on load even when [store] encrypt is off.
func (c *Container) gitStoreOptions() (gitstore.Options, error) {
	storeCfg := c.AppConfig.Store
	envName := storeCfg.PassphraseEnv
	if envName == "" {
		envName = domain.DefaultPassphraseEnv
	}
	if !shared.IsValidEnvVarName(envName) {
		return gitstore.Options{}, fmt.Errorf("passphrase_env %q: invalid environment variable name", envName)
	}
	passphrase := os.Getenv(envName)
	if storeCfg.Encrypt && passphrase == "" {
		return gitstore.Options{}, fmt.Errorf("$%s: %w", envName, domain.ErrNoPassphrase)
	}

	opts := gitstore.Options{CachePath: filepath.Join(c.Config.TalkDir, "nonce-cache")}
	if passphrase == "" {
		return opts, nil
	}
	opts.Passphrase = []byte(passphrase)
	if storeCfg.Encrypt {
		params, err := crypto.DefaultKDFParams()
		if err != nil {
			return gitstore.Options{}, err
		}
		opts.KDFParams = &params
	}
	return opts, nil
}

// findTalkRoot walks up from dir looking for a .talk directory.
func findTalkRoot(dir string) (string, bool) {
	for {
		if info, err := os.Stat(domain.RepoTalkDir(dir)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, comments domain.CommentRepository, storeInit domain.StoreInitializer, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		Comments:         comments,
		StoreInitializer: storeInit,
		Clock:            clock,
		IDs:              ids,
		Logger:           logger,
		AppConfig:        appConfig,
		Actor:            appConfig.Identity,
		Config:           cfg,
	}
}

// Close releases log files and database connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Discussion returns the shared load/apply/save helper over the configured store.
func (c *Container) Discussion() *usecase.Discussion {
	return usecase.NewDiscussion(
		c.Comments,
		c.IDs,
		c.Clock,
		c.Logger,
		c.Moderation(),
		c.AppConfig.Discussion.Tabs,
	)
}

// Moderation returns the configured host policy, widened by Host.
func (c *Container) Moderation() domain.Moderation {
	if c.Host {
		return domain.AnyModeration{c.AppConfig.Moderation(), domain.FixedModeration(true)}
	}
	return c.AppConfig.Moderation()
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer)
}

// PostCommentUseCase returns a new PostComment use case.
func (c *Container) PostCommentUseCase() *usecase.PostComment {
	return usecase.NewPostComment(c.Discussion())
}

// PostReplyUseCase returns a new PostReply use case.
func (c *Container) PostReplyUseCase() *usecase.PostReply {
	return usecase.NewPostReply(c.Discussion())
}

// EditCommentUseCase returns a new EditComment use case.
func (c *Container) EditCommentUseCase() *usecase.EditComment {
	return usecase.NewEditComment(c.Discussion())
}

// EditReplyUseCase returns a new EditReply use case.
func (c *Container) EditReplyUseCase() *usecase.EditReply {
	return usecase.NewEditReply(c.Discussion())
}

// DeleteCommentUseCase returns a new DeleteComment use case.
func (c *Container) DeleteCommentUseCase() *usecase.DeleteComment {
	return usecase.NewDeleteComment(c.Discussion())
}

// DeleteReplyUseCase returns a new DeleteReply use case.
func (c *Container) DeleteReplyUseCase() *usecase.DeleteReply {
	return usecase.NewDeleteReply(c.Discussion())
}

// ToggleLikeUseCase returns a new ToggleLike use case.
func (c *Container) ToggleLikeUseCase() *usecase.ToggleLike {
	return usecase.NewToggleLike(c.Discussion())
}

// TogglePinUseCase returns a new TogglePin use case.
func (c *Container) TogglePinUseCase() *usecase.TogglePin {
	return usecase.NewTogglePin(c.Discussion())
}

// ShowThreadUseCase returns a new ShowThread use case.
func (c *Container) ShowThreadUseCase() *usecase.ShowThread {
	return usecase.NewShowThread(c.Discussion())
}

// ListTabsUseCase returns a new ListTabs use case.
func (c *Container) ListTabsUseCase() *usecase.ListTabs {
	return usecase.NewListTabs(c.Discussion())
}

// ImportSeedUseCase returns a new ImportSeed use case.
func (c *Container) ImportSeedUseCase() *usecase.ImportSeed {
	return usecase.NewImportSeed(c.Comments, c.IDs, c.Clock, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
