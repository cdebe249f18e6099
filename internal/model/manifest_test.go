package model

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	want := &Manifest{
		Collection:     "finrag_docs",
		EmbeddingModel: "jina/jina-embeddings-v3",
		EmbeddingDim:   1024,
		DocumentCount:  42,
		BuiltAt:        time.Date(2024, 11, 9, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, WriteManifest(path, want))
	got, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManifestValidate(t *testing.T) {
	m := &Manifest{EmbeddingModel: "model-a", EmbeddingDim: 1024}

	assert.NoError(t, m.Validate("model-a", 1024))
	assert.Error(t, m.Validate("model-b", 1024))
	assert.Error(t, m.Validate("model-a", 768))
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("unknown")
	assert.Error(t, err)
}
