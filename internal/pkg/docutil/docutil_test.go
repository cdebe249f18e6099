package docutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, WriteJSONFile(path, payload{Name: "faq", Count: 3}))

	var got payload
	require.NoError(t, ReadJSONFile(path, &got))
	assert.Equal(t, "faq", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestReadJSONFileErrors(t *testing.T) {
	dir := t.TempDir()

	var v map[string]any
	assert.Error(t, ReadJSONFile(filepath.Join(dir, "missing.json"), &v))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Error(t, ReadJSONFile(bad, &v))
}

func TestListFilesWithExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("c"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	names, err := ListFilesWithExt(dir, ".md")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md"}, names)
}

func TestListSubdirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "policy2"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "policy1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	names, err := ListSubdirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"policy1", "policy2"}, names)
}
