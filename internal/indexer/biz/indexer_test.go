package biz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
	"github.com/kart-io/finrag/internal/store"
)

type fakeEmbedder struct {
	dim     int
	batches [][]string
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
		out[i][0] = float32(len(texts[i]))
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedModel() string { return "fake-embed" }

type fakeStore struct {
	rebuilds int
	entries  []store.Entry
	failOn   string
}

func (f *fakeStore) Rebuild(context.Context, int) error {
	if f.failOn == "rebuild" {
		return errors.New("rebuild failed")
	}
	f.rebuilds++
	f.entries = nil
	return nil
}

func (f *fakeStore) Insert(_ context.Context, entries []store.Entry) error {
	if f.failOn == "insert" {
		return errors.New("insert failed")
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeStore) Search(context.Context, []float32, int, store.Filter) ([]store.SearchResult, error) {
	return nil, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) { return int64(len(f.entries)), nil }

func (f *fakeStore) Close(context.Context) error { return nil }

// writeDocuments 写出三个类别的文档文件，返回文档目录。
func writeDocuments(t *testing.T, perCategory map[model.Category][]model.Document) string {
	t.Helper()
	dir := t.TempDir()
	for _, category := range model.Categories {
		docs := perCategory[category]
		if docs == nil {
			docs = []model.Document{}
		}
		require.NoError(t, docutil.WriteJSONFile(filepath.Join(dir, string(category)+".json"), docs))
	}
	return dir
}

func doc(id, text, source string, category model.Category) model.Document {
	return model.Document{
		ID:   id,
		Text: text,
		Metadata: model.Metadata{
			Source:   source,
			Category: category,
		},
	}
}

func TestIndexerRun(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: {
			doc("f1", "财报段落一", "1027", model.CategoryFinance),
			doc("f2", "财报段落二", "1027", model.CategoryFinance),
		},
		model.CategoryFAQ: {
			doc("q1", "问题\n答案", "442", model.CategoryFAQ),
		},
	})
	manifestPath := filepath.Join(dir, "manifest.json")

	embedder := &fakeEmbedder{dim: 4}
	vs := &fakeStore{}
	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: manifestPath,
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
	}, embedder, vs)

	require.NoError(t, idx.Run(context.Background()))

	assert.Equal(t, 1, vs.rebuilds)
	require.Len(t, vs.entries, 3)
	assert.Equal(t, "f1", vs.entries[0].DocID)
	assert.Equal(t, "finance", vs.entries[0].Category)
	assert.Equal(t, "1027", vs.entries[0].Source)

	manifest, err := model.LoadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "fake-embed", manifest.EmbeddingModel)
	assert.Equal(t, 4, manifest.EmbeddingDim)
	assert.Equal(t, 3, manifest.DocumentCount)
	assert.Equal(t, "test_docs", manifest.Collection)
}

func TestIndexerSkipsEmptyText(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFAQ: {
			doc("q1", "", "1", model.CategoryFAQ),
			doc("q2", "有内容", "1", model.CategoryFAQ),
		},
	})

	vs := &fakeStore{}
	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
	}, &fakeEmbedder{dim: 4}, vs)

	require.NoError(t, idx.Run(context.Background()))
	require.Len(t, vs.entries, 1)
	assert.Equal(t, "q2", vs.entries[0].DocID)

	manifest, err := model.LoadManifest(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, manifest.DocumentCount)
}

func TestIndexerBatching(t *testing.T) {
	var docs []model.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, doc(fmt.Sprintf("d%d", i), fmt.Sprintf("文本%d", i), "1", model.CategoryFinance))
	}
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: docs,
	})

	embedder := &fakeEmbedder{dim: 4}
	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    2,
	}, embedder, &fakeStore{})

	require.NoError(t, idx.Run(context.Background()))
	require.Len(t, embedder.batches, 3)
	assert.Len(t, embedder.batches[0], 2)
	assert.Len(t, embedder.batches[1], 2)
	assert.Len(t, embedder.batches[2], 1)
}

func TestIndexerRebuildIsIdempotent(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: {
			doc("f1", "段落一", "1", model.CategoryFinance),
			doc("f2", "段落二", "1", model.CategoryFinance),
		},
	})

	vs := &fakeStore{}
	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
	}, &fakeEmbedder{dim: 4}, vs)

	require.NoError(t, idx.Run(context.Background()))
	require.NoError(t, idx.Run(context.Background()))

	assert.Equal(t, 2, vs.rebuilds)
	assert.Len(t, vs.entries, 2)
}

func TestIndexerCategorySubset(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: {doc("f1", "财报", "1", model.CategoryFinance)},
		model.CategoryFAQ:     {doc("q1", "问答", "2", model.CategoryFAQ)},
	})

	vs := &fakeStore{}
	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
		Categories:   []model.Category{model.CategoryFAQ},
	}, &fakeEmbedder{dim: 4}, vs)

	require.NoError(t, idx.Run(context.Background()))
	require.Len(t, vs.entries, 1)
	assert.Equal(t, "q1", vs.entries[0].DocID)
}

func TestIndexerRejectsMissingID(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: {doc("", "文本", "1", model.CategoryFinance)},
	})

	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
	}, &fakeEmbedder{dim: 4}, &fakeStore{})

	err := idx.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no id")
}

func TestIndexerMissingDocumentsFile(t *testing.T) {
	dir := t.TempDir()

	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
	}, &fakeEmbedder{dim: 4}, &fakeStore{})

	assert.Error(t, idx.Run(context.Background()))
}

func TestIndexerEmbedFailureIsFatal(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: {doc("f1", "文本", "1", model.CategoryFinance)},
	})

	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 4,
		BatchSize:    200,
	}, &fakeEmbedder{dim: 4, err: errors.New("embed failed")}, &fakeStore{})

	err := idx.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed failed")
}

func TestIndexerDimensionMismatch(t *testing.T) {
	dir := writeDocuments(t, map[model.Category][]model.Document{
		model.CategoryFinance: {doc("f1", "文本", "1", model.CategoryFinance)},
	})

	idx := NewIndexer(&Config{
		DocumentsDir: dir,
		ManifestPath: filepath.Join(dir, "manifest.json"),
		Collection:   "test_docs",
		EmbeddingDim: 8,
		BatchSize:    200,
	}, &fakeEmbedder{dim: 4}, &fakeStore{})

	err := idx.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}
