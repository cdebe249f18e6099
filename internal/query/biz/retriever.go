// Package biz 实现检索问答的业务逻辑。
package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/store"
)

// Embedder 生成查询嵌入向量。
type Embedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	EmbedModel() string
}

// Retriever 将查询嵌入后在向量存储中检索候选文档。
type Retriever struct {
	embedder Embedder
	store    store.VectorStore
	topK     int
}

// NewRetriever 创建检索器。
func NewRetriever(embedder Embedder, vs store.VectorStore, topK int) *Retriever {
	return &Retriever{embedder: embedder, store: vs, topK: topK}
}

// Retrieve 检索与查询最相近的候选文档，按距离升序返回。
// category 与 sources 用于限定检索范围。
func (r *Retriever) Retrieve(ctx context.Context, query string, category model.Category, sources []string) ([]store.SearchResult, error) {
	vector, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.store.Search(ctx, vector, r.topK, store.Filter{
		Category: string(category),
		Sources:  sources,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	logger.Debugw("Candidates retrieved", "category", category, "sources", len(sources), "hits", len(results))
	return results, nil
}
