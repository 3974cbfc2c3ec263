package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerEnv_ProcessAndFile(t *testing.T) {
	t.Setenv("MODELGATE_TEST_SET", "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"MODELGATE_TEST_SET=from-file\nMODELGATE_TEST_ONLY_FILE=http://localhost:11434\n",
	), 0o600))

	env, err := ServerEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "from-process", env["MODELGATE_TEST_SET"])
	assert.Equal(t, "http://localhost:11434", env["MODELGATE_TEST_ONLY_FILE"])
}

func TestServerEnv_EarlierFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	require.NoError(t, os.WriteFile(first, []byte("MODELGATE_TEST_ORDER=first\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("MODELGATE_TEST_ORDER=second\n"), 0o600))

	env, err := ServerEnv(first, second)
	require.NoError(t, err)
	assert.Equal(t, "first", env["MODELGATE_TEST_ORDER"])
}

func TestServerEnv_MissingFileIgnored(t *testing.T) {
	env, err := ServerEnv("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.NotNil(t, env)
}

func TestServerEnv_DirectoryIsError(t *testing.T) {
	_, err := ServerEnv(t.TempDir())
	assert.ErrorContains(t, err, "read env file")
}
