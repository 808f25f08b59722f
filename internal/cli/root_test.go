package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
)

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	root := NewRootCommand(nil, "test-version")
	root.SetArgs([]string{})
	err := root.Execute()

	assert.NoError(t, err)
	assert.True(t, called, "launchTUIFunc should be called when no arguments are provided")
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	out, err := runCommand(t, NewRootCommand(nil, "test-version"), "--help")

	require.NoError(t, err)
	assert.False(t, called, "launchTUIFunc should not be called with --help")
	for _, name := range []string{"init", "post", "reply", "edit", "rm", "like", "pin", "show", "tabs", "import", "config", "tui"} {
		assert.Contains(t, out, name)
	}
}

func TestNewRootCommand_TUICommandPassesFlags(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	var got domain.Actor
	var host bool
	launchTUIFunc = func(c *app.Container) error {
		got = c.Actor
		host = c.Host
		return nil
	}

	c, _ := newTestContainer(t)
	_, err := runRoot(t, c, "tui", "--as", "u7", "--anonymous", "--host")

	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "u7", Anonymous: true}, got)
	assert.True(t, host)
}

func TestNewRootCommand_Version(t *testing.T) {
	out, err := runCommand(t, NewRootCommand(nil, "1.2.3"), "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	c, _ := newTestContainer(t)
	c.AppConfig.Warnings = []string{"unknown key in [tui]: colour"}

	out, err := runRoot(t, c, "tabs")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: unknown key in [tui]: colour")
}

func TestIdentityFlags(t *testing.T) {
	tests := []struct {
		want domain.Actor
		name string
		args []string
	}{
		{name: "config identity", args: nil, want: domain.Actor{ID: "u1", DisplayName: "alice"}},
		{name: "as drops configured name", args: []string{"--as", "u2"}, want: domain.Actor{ID: "u2"}},
		{name: "as with name", args: []string{"--as", "u2", "--name", "bob"}, want: domain.Actor{ID: "u2", DisplayName: "bob"}},
		{name: "name only", args: []string{"--name", "Alice L."}, want: domain.Actor{ID: "u1", DisplayName: "Alice L."}},
		{name: "anonymous", args: []string{"--anonymous"}, want: domain.Actor{ID: "u1", DisplayName: "alice", Anonymous: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalFunc := launchTUIFunc
			defer func() {
				launchTUIFunc = originalFunc
			}()
			var got domain.Actor
			launchTUIFunc = func(c *app.Container) error {
				got = c.Actor
				return nil
			}

			c, _ := newTestContainer(t)
			_, err := runRoot(t, c, append([]string{"tui"}, tt.args...)...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
