// Package query provides the query and answer generation application.
package query

import (
	"fmt"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/finrag/internal/model"
	logopts "github.com/kart-io/finrag/pkg/options/logger"
	milvusopts "github.com/kart-io/finrag/pkg/options/milvus"
	ollamaopts "github.com/kart-io/finrag/pkg/options/ollama"
	ragopts "github.com/kart-io/finrag/pkg/options/rag"
	rerankeropts "github.com/kart-io/finrag/pkg/options/reranker"
)

// Options contains all query application options.
type Options struct {
	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Milvus contains Milvus database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Ollama contains embedding and chat provider configuration.
	Ollama *ollamaopts.Options `json:"ollama" mapstructure:"ollama"`

	// Reranker contains reranker service configuration.
	Reranker *rerankeropts.Options `json:"reranker" mapstructure:"reranker"`

	// RAG contains pipeline configuration.
	RAG *ragopts.Options `json:"rag" mapstructure:"rag"`

	// QuestionsFile is the path of the batch question file.
	QuestionsFile string `json:"questions" mapstructure:"questions"`

	// OutputFile is the path the prediction file is written to in batch mode.
	OutputFile string `json:"output" mapstructure:"output"`

	// Query is a single ad-hoc question. Mutually exclusive with QuestionsFile.
	Query string `json:"query" mapstructure:"query"`

	// Category restricts a single query to one corpus.
	Category string `json:"category" mapstructure:"category"`

	// Sources restricts a single query to the given source identifiers.
	Sources []string `json:"sources" mapstructure:"sources"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Log:        logopts.NewOptions(),
		Milvus:     milvusopts.NewOptions(),
		Ollama:     ollamaopts.NewOptions(),
		Reranker:   rerankeropts.NewOptions(),
		RAG:        ragopts.NewOptions(),
		OutputFile: "final_pred.json",
	}
}

// AddFlags adds all query flags to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Ollama.AddFlags(fs)
	o.Reranker.AddFlags(fs)
	o.RAG.AddFlags(fs)

	fs.StringVar(&o.QuestionsFile, "questions", o.QuestionsFile, "Path of the batch question file")
	fs.StringVar(&o.OutputFile, "output", o.OutputFile, "Path the prediction file is written to")
	fs.StringVar(&o.Query, "query", o.Query, "Single ad-hoc question, mutually exclusive with --questions")
	fs.StringVar(&o.Category, "category", o.Category, "Corpus category for a single query (faq, finance, insurance)")
	fs.StringSliceVar(&o.Sources, "sources", o.Sources, "Source identifiers a single query is restricted to")
}

// Complete fills in defaults that depend on other options.
func (o *Options) Complete() error {
	if err := o.Log.Complete(); err != nil {
		return err
	}
	return o.RAG.Complete()
}

// Validate validates all options.
func (o *Options) Validate() error {
	var errs []error

	if err := o.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.Milvus.Validate()...)
	errs = append(errs, o.Ollama.Validate()...)
	errs = append(errs, o.Reranker.Validate()...)
	errs = append(errs, o.RAG.Validate()...)

	switch {
	case o.QuestionsFile == "" && o.Query == "":
		errs = append(errs, fmt.Errorf("either --questions or --query is required"))
	case o.QuestionsFile != "" && o.Query != "":
		errs = append(errs, fmt.Errorf("--questions and --query are mutually exclusive"))
	}

	if o.Query != "" {
		if _, err := model.ParseCategory(o.Category); err != nil {
			errs = append(errs, fmt.Errorf("--category: %w", err))
		}
	}
	if o.QuestionsFile != "" && o.OutputFile == "" {
		errs = append(errs, fmt.Errorf("--output is required in batch mode"))
	}

	return utilerrors.NewAggregate(errs)
}
