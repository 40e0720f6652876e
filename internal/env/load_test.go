package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# viewer settings\n\nPORT=4100 # dev\nexport MODEL_URL = \"http://localhost:4100/models/figure.glb\"\nLOG_LEVEL='debug'\n=ignored\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	unset(t, "PORT")
	unset(t, "MODEL_URL")
	unset(t, "LOG_LEVEL")

	require.NoError(t, Load(path))
	assert.Equal(t, "4100", os.Getenv("PORT"))
	assert.Equal(t, "http://localhost:4100/models/figure.glb", os.Getenv("MODEL_URL"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestLoadKeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=4100\n"), 0644))
	t.Setenv("PORT", "5000")

	require.NoError(t, Load(path))
	assert.Equal(t, "5000", os.Getenv("PORT"))
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "missing.env")))
}

func TestParseLine(t *testing.T) {
	k, v, ok := parseLine("  KEY = 'a # b'  ")
	require.True(t, ok)
	assert.Equal(t, "KEY", k)
	assert.Equal(t, "a # b", v)

	_, _, ok = parseLine("# KEY=1")
	assert.False(t, ok)
}

func TestGetFallsBackToDefault(t *testing.T) {
	t.Setenv("PORT", "  ")
	assert.Equal(t, "3000", Get("PORT", "3000"))
	t.Setenv("PORT", "8080")
	assert.Equal(t, "8080", Get("PORT", "3000"))
}
