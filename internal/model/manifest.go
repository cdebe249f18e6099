package model

import (
	"fmt"
	"os"
	"time"

	"github.com/kart-io/finrag/pkg/utils/json"
)

// Manifest records the identity of an index build. It is written by the
// indexer and validated by the query stage so that a query is never embedded
// into a different vector space than the indexed passages.
type Manifest struct {
	// Collection 向量集合名称。
	Collection string `json:"collection"`
	// EmbeddingModel 建立索引时使用的嵌入模型。
	EmbeddingModel string `json:"embedding_model"`
	// EmbeddingDim 嵌入向量维度。
	EmbeddingDim int `json:"embedding_dim"`
	// DocumentCount 已索引的文档数量。
	DocumentCount int `json:"document_count"`
	// BuiltAt 索引完成时间。
	BuiltAt time.Time `json:"built_at"`
}

// Validate checks the manifest against the configured model identity.
func (m *Manifest) Validate(embeddingModel string, embeddingDim int) error {
	if m.EmbeddingModel != embeddingModel {
		return fmt.Errorf("index was built with embedding model %q but %q is configured; rebuild the index or fix the configuration",
			m.EmbeddingModel, embeddingModel)
	}
	if m.EmbeddingDim != embeddingDim {
		return fmt.Errorf("index was built with embedding dimension %d but %d is configured",
			m.EmbeddingDim, embeddingDim)
	}
	return nil
}

// WriteManifest persists the manifest to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// LoadManifest reads a manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
