package commands

import (
	"bytes"
	"context"
	"testing"

	"promptdeck/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app := NewApp()
	require.NotNil(t, app)
	assert.Equal(t, "pdctl", app.Name)
	assert.NotEmpty(t, app.Usage)
}

func TestAppVersion(t *testing.T) {
	app := NewApp()
	require.NotNil(t, app)
	assert.Equal(t, version.Version, app.Version)
}

func TestAppHasHelpFlag(t *testing.T) {
	app := NewApp()
	require.NotNil(t, app)

	var buf bytes.Buffer
	app.Writer = &buf

	err := app.Run(context.Background(), []string{"pdctl", "--help"})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "pdctl", "Help should contain app name")
	assert.Contains(t, output, "Promptdeck CLI", "Help should contain usage description")
	assert.Contains(t, output, "USAGE", "Help should contain USAGE section")
}

func TestAppCommands(t *testing.T) {
	app := NewApp()
	require.NotNil(t, app)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Contains(t, names, "task")
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "history")
	assert.Contains(t, names, "endpoint")
	assert.Contains(t, names, "render")
}

func TestParseVariableFlags(t *testing.T) {
	t.Run("should parse name=value pairs", func(t *testing.T) {
		variables, err := parseVariableFlags([]string{"name=Bo", "topic=go routines"})
		require.NoError(t, err)
		assert.Equal(t, "Bo", variables["name"])
		assert.Equal(t, "go routines", variables["topic"])
	})

	t.Run("should keep later equals signs in the value", func(t *testing.T) {
		variables, err := parseVariableFlags([]string{"eq=a=b"})
		require.NoError(t, err)
		assert.Equal(t, "a=b", variables["eq"])
	})

	t.Run("should reject a pair without equals", func(t *testing.T) {
		_, err := parseVariableFlags([]string{"noequals"})
		require.Error(t, err)
	})
}
