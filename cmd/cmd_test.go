package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["version"])
	assert.True(t, names["config"])
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "seedling")
	assert.Contains(t, out, "Platform:")
}

func TestVersionCommandShort(t *testing.T) {
	versionShort = true
	defer func() { versionShort = false }()

	out := execute(t, "version", "--short")
	assert.NotContains(t, out, "Platform:")
}

func TestVersionCommandBadFormat(t *testing.T) {
	defer func() { versionFormat = "text" }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"version", "--format", "toml"})
	assert.Error(t, rootCmd.Execute())
}

func TestConfigShowDefaults(t *testing.T) {
	viper.Reset()

	out := execute(t, "config", "show")
	assert.Contains(t, out, "port: 4000")
	assert.Contains(t, out, "dir: templates")
}

func TestConfigShowHonorsPortEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "9999")

	out := execute(t, "config", "show")
	assert.Contains(t, out, "port: 9999")
}
