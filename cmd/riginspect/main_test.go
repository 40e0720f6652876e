package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figure-viewer/internal/gltftest"
	"figure-viewer/internal/rig"
)

func writeFigure(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "figure.glb")
	require.NoError(t, os.WriteFile(path, gltftest.Figure(), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTextReport(t *testing.T) {
	out, err := run(t, writeFigure(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Skins: 1")
	assert.Contains(t, out, "Triangles: 3")
	assert.Contains(t, out, "Rigged: yes")
}

func TestJSONReport(t *testing.T) {
	out, err := run(t, "--json", "--no-stats", writeFigure(t))
	require.NoError(t, err)
	var r rig.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Rigged)
	assert.Nil(t, r.Stats)
	assert.Equal(t, []string{"Armature", "Hips"}, r.Bones)
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "none.glb"))
	assert.Error(t, err)

	_, err = run(t)
	assert.Error(t, err)
}
