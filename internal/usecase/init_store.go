package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/crew-talk/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	TalkDir  string // Path to .talk directory
	RepoRoot string // Project root (optional, used for the .gitignore check)
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	TalkDir            string // Path to the talk directory
	AlreadyInitialized bool   // True if the store already existed
	GitignoreNeedsAdd  bool   // True if .talk/ is not in .gitignore
}

// InitStore initializes the discussion store of a project.
type InitStore struct {
	storeInit domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer) *InitStore {
	return &InitStore{storeInit: storeInit}
}

// Execute creates the .talk directory and the empty store.
// Running it on an initialized project is harmless.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	alreadyInitialized := uc.storeInit.IsInitialized()

	if !alreadyInitialized && in.TalkDir != "" {
		if err := os.MkdirAll(filepath.Join(in.TalkDir, "logs"), 0o750); err != nil {
			return nil, fmt.Errorf("create talk directory: %w", err)
		}
	}

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	gitignoreNeedsAdd := false
	if !alreadyInitialized && in.RepoRoot != "" {
		gitignoreNeedsAdd = !isTalkInGitignore(in.RepoRoot)
	}

	return &InitStoreOutput{
		TalkDir:            in.TalkDir,
		AlreadyInitialized: alreadyInitialized,
		GitignoreNeedsAdd:  gitignoreNeedsAdd,
	}, nil
}

// isTalkInGitignore checks if .talk/ is in .gitignore.
func isTalkInGitignore(repoRoot string) bool {
	content, err := os.ReadFile(filepath.Join(repoRoot, ".gitignore"))
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == domain.TalkDirName || line == domain.TalkDirName+"/" || line == "/"+domain.TalkDirName+"/" {
			return true
		}
	}
	return false
}
