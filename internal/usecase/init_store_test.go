package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/testutil"
)

func TestInitStore_Execute(t *testing.T) {
	t.Run("initializes new project", func(t *testing.T) {
		root := t.TempDir()
		talkDir := filepath.Join(root, ".talk")
		storeInit := &testutil.MockStoreInitializer{}

		out, err := NewInitStore(storeInit).Execute(context.Background(), InitStoreInput{TalkDir: talkDir, RepoRoot: root})

		require.NoError(t, err)
		assert.False(t, out.AlreadyInitialized)
		assert.True(t, out.GitignoreNeedsAdd)
		assert.True(t, storeInit.Initialized)
		assert.DirExists(t, filepath.Join(talkDir, "logs"))
	})

	t.Run("gitignore already lists .talk", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("node_modules\r\n.talk/\n"), 0o600))

		out, err := NewInitStore(&testutil.MockStoreInitializer{}).Execute(context.Background(), InitStoreInput{
			TalkDir: filepath.Join(root, ".talk"), RepoRoot: root,
		})

		require.NoError(t, err)
		assert.False(t, out.GitignoreNeedsAdd)
	})

	t.Run("already initialized", func(t *testing.T) {
		storeInit := &testutil.MockStoreInitializer{Initialized: true}

		out, err := NewInitStore(storeInit).Execute(context.Background(), InitStoreInput{TalkDir: t.TempDir(), RepoRoot: t.TempDir()})

		require.NoError(t, err)
		assert.True(t, out.AlreadyInitialized)
		assert.False(t, out.GitignoreNeedsAdd)
	})

	t.Run("initializer error", func(t *testing.T) {
		storeInit := &testutil.MockStoreInitializer{InitErr: errors.New("boom")}

		_, err := NewInitStore(storeInit).Execute(context.Background(), InitStoreInput{TalkDir: t.TempDir()})

		require.ErrorIs(t, err, storeInit.InitErr)
	})
}
