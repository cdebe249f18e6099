package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/kart-io/finrag/pkg/component/milvus"
)

const (
	fieldDocID    = "doc_id"
	fieldSource   = "source"
	fieldCategory = "category"
	fieldContent  = "content"
)

// MilvusStore 基于 Milvus 实现 VectorStore。
type MilvusStore struct {
	client     *milvus.Client
	collection string
}

var _ VectorStore = (*MilvusStore)(nil)

// NewMilvusStore 创建 Milvus 向量存储。
func NewMilvusStore(client *milvus.Client, collection string) *MilvusStore {
	return &MilvusStore{client: client, collection: collection}
}

// Rebuild 删除并重建集合，保证重复建索引的幂等性。
func (s *MilvusStore) Rebuild(ctx context.Context, dim int) error {
	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return err
	}
	if exists {
		if err := s.client.DropCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("failed to drop collection %s: %w", s.collection, err)
		}
	}

	schema := &milvus.CollectionSchema{
		Name:        s.collection,
		Description: "retrieval corpus passages with embeddings",
		Dimension:   dim,
		MetaFields: []milvus.MetaField{
			{Name: fieldDocID, DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: fieldSource, DataType: entity.FieldTypeVarChar, MaxLen: 256},
			{Name: fieldCategory, DataType: entity.FieldTypeVarChar, MaxLen: 32},
			{Name: fieldContent, DataType: entity.FieldTypeVarChar, MaxLen: 65535},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Insert 批量写入记录。
func (s *MilvusStore) Insert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	data := &milvus.InsertData{
		Embeddings: make([][]float32, 0, len(entries)),
		Metadata: map[string][]any{
			fieldDocID:    make([]any, 0, len(entries)),
			fieldSource:   make([]any, 0, len(entries)),
			fieldCategory: make([]any, 0, len(entries)),
			fieldContent:  make([]any, 0, len(entries)),
		},
	}
	for _, e := range entries {
		data.Embeddings = append(data.Embeddings, e.Embedding)
		data.Metadata[fieldDocID] = append(data.Metadata[fieldDocID], e.DocID)
		data.Metadata[fieldSource] = append(data.Metadata[fieldSource], e.Source)
		data.Metadata[fieldCategory] = append(data.Metadata[fieldCategory], e.Category)
		data.Metadata[fieldContent] = append(data.Metadata[fieldContent], e.Content)
	}

	_, err := s.client.Insert(ctx, s.collection, data)
	return err
}

// Search 按向量检索并应用类别与来源过滤。
func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int, filter Filter) ([]SearchResult, error) {
	expr := buildFilterExpr(filter)
	outputFields := []string{fieldDocID, fieldSource, fieldCategory, fieldContent}

	hits, err := s.client.Search(ctx, s.collection, vector, topK, expr, outputFields)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			DocID:    metaString(hit.Metadata, fieldDocID),
			Source:   metaString(hit.Metadata, fieldSource),
			Category: metaString(hit.Metadata, fieldCategory),
			Content:  metaString(hit.Metadata, fieldContent),
			Score:    hit.Score,
		})
	}
	return results, nil
}

// Count 返回集合中的记录数。
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	return s.client.GetCollectionStats(ctx, s.collection)
}

// Close 关闭底层连接。
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// buildFilterExpr 构造 Milvus 布尔过滤表达式。
func buildFilterExpr(filter Filter) string {
	var clauses []string
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf(`%s == %q`, fieldCategory, filter.Category))
	}
	if len(filter.Sources) > 0 {
		quoted := make([]string, len(filter.Sources))
		for i, src := range filter.Sources {
			quoted[i] = fmt.Sprintf("%q", src)
		}
		clauses = append(clauses, fmt.Sprintf("%s in [%s]", fieldSource, strings.Join(quoted, ", ")))
	}
	return strings.Join(clauses, " and ")
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
