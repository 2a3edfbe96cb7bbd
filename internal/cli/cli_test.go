package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("addr"))
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestCommands_RequireDatabaseDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	for _, name := range []string{"migrate", "seed"} {
		t.Run(name, func(t *testing.T) {
			root := NewRootCommand()
			root.SetArgs([]string{name})
			root.SetOut(&bytes.Buffer{})
			err := root.ExecuteContext(context.Background())
			assert.ErrorContains(t, err, "DATABASE_DSN is not set")
		})
	}
}

func TestCommands_RejectBadConfig(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")

	root := NewRootCommand()
	root.SetArgs([]string{"migrate"})
	err := root.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "invalid SESSION_TTL")
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		require.NoError(t, err)
		assert.Equal(t, debug, logger.Core().Enabled(zapcore.DebugLevel))
	}
}
