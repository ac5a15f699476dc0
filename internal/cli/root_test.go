package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "predicate", cmd.Use)
	assert.Contains(t, cmd.Long, "filter document")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"check", "eval", "convert", "hash", "save", "list", "show", "delete", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCompileFlags(t *testing.T) {
	for _, name := range []string{"check", "eval"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := NewRootCommand().Find([]string{name})
			require.NoError(t, err)

			strict := sub.Flags().Lookup("strict")
			require.NotNil(t, strict)
			assert.Equal(t, "false", strict.DefValue)

			ignoreCase := sub.Flags().Lookup("ignore-case")
			require.NotNil(t, ignoreCase)
			assert.Equal(t, "i", ignoreCase.Shorthand)
		})
	}
}

func TestLibraryCommandFlags(t *testing.T) {
	for _, name := range []string{"save", "list", "show", "delete"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := NewRootCommand().Find([]string{name})
			require.NoError(t, err)

			dbFlag := sub.Flags().Lookup("db")
			require.NotNil(t, dbFlag)
			assert.Equal(t, DefaultDatabase, dbFlag.DefValue)
		})
	}
}

func TestConvertCommandFlags(t *testing.T) {
	sub, _, err := NewRootCommand().Find([]string{"convert"})
	require.NoError(t, err)

	toFlag := sub.Flags().Lookup("to")
	require.NotNil(t, toFlag)
	assert.Equal(t, "yaml", toFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	sub, _, err := NewRootCommand().Find([]string{"test"})
	require.NoError(t, err)

	filterFlag := sub.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
	assert.Equal(t, "", filterFlag.DefValue)
}

func TestFormatValidationIntegration(t *testing.T) {
	for _, format := range []string{"xml", "", "TEXT"} {
		t.Run(format, func(t *testing.T) {
			cmd := NewRootCommand()
			cmd.SetArgs([]string{"--format", format, "hash", "filter.json"})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid format")
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
