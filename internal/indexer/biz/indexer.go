// Package biz 实现向量索引构建的业务逻辑。
package biz

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
	"github.com/kart-io/finrag/internal/store"
)

// Embedder 生成文本嵌入向量。
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedModel() string
}

// Config 索引构建配置。
type Config struct {
	// DocumentsDir 文档 JSON 文件目录。
	DocumentsDir string
	// ManifestPath 索引清单输出路径。
	ManifestPath string
	// Collection 向量集合名称。
	Collection string
	// EmbeddingDim 嵌入向量维度。
	EmbeddingDim int
	// BatchSize 每批嵌入的文本数量。
	BatchSize int
	// Categories 要索引的类别，空表示全部。
	Categories []model.Category
}

// Indexer 读取文档文件，生成嵌入并写入向量存储。
type Indexer struct {
	cfg      *Config
	embedder Embedder
	store    store.VectorStore
}

// NewIndexer 创建索引构建器。
func NewIndexer(cfg *Config, embedder Embedder, vs store.VectorStore) *Indexer {
	return &Indexer{cfg: cfg, embedder: embedder, store: vs}
}

// Run 重建集合并依次索引所有类别，最后写出索引清单。
// 重复执行会得到等价的索引。
func (idx *Indexer) Run(ctx context.Context) error {
	if err := idx.store.Rebuild(ctx, idx.cfg.EmbeddingDim); err != nil {
		return fmt.Errorf("failed to rebuild collection %s: %w", idx.cfg.Collection, err)
	}
	logger.Infow("Collection rebuilt", "collection", idx.cfg.Collection, "dim", idx.cfg.EmbeddingDim)

	categories := idx.cfg.Categories
	if len(categories) == 0 {
		categories = model.Categories
	}

	total := 0
	for _, category := range categories {
		n, err := idx.indexCategory(ctx, category)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", category, err)
		}
		total += n
	}

	manifest := &model.Manifest{
		Collection:     idx.cfg.Collection,
		EmbeddingModel: idx.embedder.EmbedModel(),
		EmbeddingDim:   idx.cfg.EmbeddingDim,
		DocumentCount:  total,
		BuiltAt:        time.Now().UTC(),
	}
	if err := model.WriteManifest(idx.cfg.ManifestPath, manifest); err != nil {
		return err
	}

	logger.Infow("Indexing finished", "documents", total, "manifest", idx.cfg.ManifestPath)
	return nil
}

// indexCategory 索引单个类别的文档文件，返回实际写入的文档数。
func (idx *Indexer) indexCategory(ctx context.Context, category model.Category) (int, error) {
	path := filepath.Join(idx.cfg.DocumentsDir, string(category)+".json")

	var docs []model.Document
	if err := docutil.ReadJSONFile(path, &docs); err != nil {
		return 0, err
	}
	logger.Infow("Indexing category", "category", category, "documents", len(docs))

	// 空文本无法生成有意义的嵌入，跳过并告警；缺失 ID 说明文档文件损坏。
	kept := docs[:0]
	for i, doc := range docs {
		if doc.ID == "" {
			return 0, fmt.Errorf("document %d in %s has no id", i, path)
		}
		if doc.Text == "" {
			logger.Warnw("Skipping document with empty text", "category", category, "id", doc.ID, "source", doc.Metadata.Source)
			continue
		}
		kept = append(kept, doc)
	}
	docs = kept

	for start := 0; start < len(docs); start += idx.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		end := start + idx.cfg.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Text
		}
		embeddings, err := idx.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed documents %d..%d: %w", start, end, err)
		}

		entries := make([]store.Entry, len(batch))
		for i, doc := range batch {
			if len(embeddings[i]) != idx.cfg.EmbeddingDim {
				return 0, fmt.Errorf("embedding for document %s has dimension %d, expected %d",
					doc.ID, len(embeddings[i]), idx.cfg.EmbeddingDim)
			}
			entries[i] = store.Entry{
				DocID:     doc.ID,
				Source:    doc.Metadata.Source,
				Category:  string(doc.Metadata.Category),
				Content:   doc.Text,
				Embedding: embeddings[i],
			}
		}
		if err := idx.store.Insert(ctx, entries); err != nil {
			return 0, fmt.Errorf("failed to insert documents %d..%d: %w", start, end, err)
		}
		logger.Infow("Batch indexed", "category", category, "from", start, "to", end)
	}

	return len(docs), nil
}
