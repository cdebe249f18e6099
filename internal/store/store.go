// Package store 定义向量存储的抽象接口与 Milvus 实现。
package store

import "context"

// Entry 是写入向量存储的一条记录。
type Entry struct {
	// DocID 文档唯一标识。
	DocID string
	// Source 来源标识（文件名或目录名）。
	Source string
	// Category 语料类别。
	Category string
	// Content 文档正文。
	Content string
	// Embedding 嵌入向量。
	Embedding []float32
}

// SearchResult 是一次向量检索命中的记录。
type SearchResult struct {
	DocID    string
	Source   string
	Category string
	Content  string
	// Score 与查询向量的距离，越小越相近。
	Score float32
}

// Filter 限定检索范围。Category 为空时不过滤类别，
// Sources 为空时不过滤来源。
type Filter struct {
	Category string
	Sources  []string
}

// VectorStore 定义索引与检索所需的向量存储操作。
type VectorStore interface {
	// Rebuild 删除并重建集合，dim 为向量维度。
	Rebuild(ctx context.Context, dim int) error
	// Insert 批量写入记录。
	Insert(ctx context.Context, entries []Entry) error
	// Search 按向量检索 topK 条记录，filter 限定范围。
	Search(ctx context.Context, vector []float32, topK int, filter Filter) ([]SearchResult, error)
	// Count 返回集合中的记录数。
	Count(ctx context.Context) (int64, error)
	// Close 关闭底层连接。
	Close(ctx context.Context) error
}
