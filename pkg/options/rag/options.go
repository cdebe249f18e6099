// Package ragopts provides pipeline-wide RAG configuration options.
package ragopts

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/kart-io/finrag/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// DefaultSystemPrompt is the system prompt sent with every generation request.
const DefaultSystemPrompt = `If you don't know the answer, please return '不知道'.`

// DefaultPromptTemplate is the default prompt template for answer generation.
// {{context}} is replaced with the reranked context passages and {{question}}
// with the user query.
const DefaultPromptTemplate = `Context information is below.
---------------------
{{context}}
---------------------
Given the context information and not prior knowledge, answer the query.
Query: {{question}}
Answer:
`

// Options contains RAG pipeline configuration shared by the indexer and the
// query stage.
type Options struct {
	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// EmbedBatchSize is the number of texts embedded per request.
	EmbedBatchSize int `json:"embed-batch-size" mapstructure:"embed-batch-size"`

	// TopK is the number of candidates returned by vector search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// RerankTopN is the number of candidates kept after reranking and used
	// as generation context.
	RerankTopN int `json:"rerank-top-n" mapstructure:"rerank-top-n"`

	// DocumentsDir is the directory holding the per-category document JSON files.
	DocumentsDir string `json:"documents-dir" mapstructure:"documents-dir"`

	// ManifestPath is the path of the index manifest written by the indexer
	// and validated by the query stage. Defaults to manifest.json inside
	// DocumentsDir.
	ManifestPath string `json:"manifest-path" mapstructure:"manifest-path"`

	// SystemPrompt is the system prompt for answer generation.
	SystemPrompt string `json:"system-prompt" mapstructure:"system-prompt"`

	// PromptTemplate is the user prompt template for answer generation.
	PromptTemplate string `json:"prompt-template" mapstructure:"prompt-template"`
}

// NewOptions creates new Options with defaults.
// The default embedding dimension matches jina-embeddings-v3.
func NewOptions() *Options {
	return &Options{
		Collection:     "finrag_docs",
		EmbeddingDim:   1024,
		EmbedBatchSize: 200,
		TopK:           30,
		RerankTopN:     4,
		DocumentsDir:   "documents",
		SystemPrompt:   DefaultSystemPrompt,
		PromptTemplate: DefaultPromptTemplate,
	}
}

// AddFlags adds flags for RAG options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"rag.collection", o.Collection, "Milvus collection name.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"rag.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.IntVar(&o.EmbedBatchSize, options.Join(prefixes...)+"rag.embed-batch-size", o.EmbedBatchSize, "Number of texts embedded per request.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"rag.top-k", o.TopK, "Number of candidates from vector search.")
	fs.IntVar(&o.RerankTopN, options.Join(prefixes...)+"rag.rerank-top-n", o.RerankTopN, "Number of candidates kept after reranking.")
	fs.StringVar(&o.DocumentsDir, options.Join(prefixes...)+"rag.documents-dir", o.DocumentsDir, "Directory holding document JSON files.")
	fs.StringVar(&o.ManifestPath, options.Join(prefixes...)+"rag.manifest-path", o.ManifestPath, "Path of the index manifest file.")
	fs.StringVar(&o.SystemPrompt, options.Join(prefixes...)+"rag.system-prompt", o.SystemPrompt, "System prompt for answer generation.")
	fs.StringVar(&o.PromptTemplate, options.Join(prefixes...)+"rag.prompt-template", o.PromptTemplate, "User prompt template for answer generation, with {{context}} and {{question}} placeholders.")
}

// Complete completes the RAG options with defaults.
func (o *Options) Complete() error {
	if o.ManifestPath == "" {
		o.ManifestPath = filepath.Join(o.DocumentsDir, "manifest.json")
	}
	if o.SystemPrompt == "" {
		o.SystemPrompt = DefaultSystemPrompt
	}
	if o.PromptTemplate == "" {
		o.PromptTemplate = DefaultPromptTemplate
	}
	return nil
}

// Validate validates the RAG options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("rag collection is required"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("rag embedding-dim must be positive"))
	}
	if o.EmbedBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("rag embed-batch-size must be positive"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("rag top-k must be positive"))
	}
	if o.RerankTopN <= 0 {
		errs = append(errs, fmt.Errorf("rag rerank-top-n must be positive"))
	}
	if o.RerankTopN > o.TopK {
		errs = append(errs, fmt.Errorf("rag rerank-top-n must not exceed top-k"))
	}
	if o.DocumentsDir == "" {
		errs = append(errs, fmt.Errorf("rag documents-dir is required"))
	}
	return errs
}
