// Package indexer provides the vector indexer application.
package indexer

import (
	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/finrag/internal/model"
	logopts "github.com/kart-io/finrag/pkg/options/logger"
	milvusopts "github.com/kart-io/finrag/pkg/options/milvus"
	ollamaopts "github.com/kart-io/finrag/pkg/options/ollama"
	ragopts "github.com/kart-io/finrag/pkg/options/rag"
)

// Options contains all indexer options.
type Options struct {
	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Milvus contains Milvus database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Ollama contains embedding provider configuration.
	Ollama *ollamaopts.Options `json:"ollama" mapstructure:"ollama"`

	// RAG contains pipeline configuration.
	RAG *ragopts.Options `json:"rag" mapstructure:"rag"`

	// Categories restricts indexing to the given categories. Empty means all.
	Categories []string `json:"categories" mapstructure:"categories"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Log:    logopts.NewOptions(),
		Milvus: milvusopts.NewOptions(),
		Ollama: ollamaopts.NewOptions(),
		RAG:    ragopts.NewOptions(),
	}
}

// AddFlags adds all indexer flags to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Ollama.AddFlags(fs)
	o.RAG.AddFlags(fs)

	fs.StringSliceVar(&o.Categories, "categories", o.Categories, "Categories to index (faq, finance, insurance), empty for all")
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
	errs = append(errs, o.RAG.Validate()...)

	for _, c := range o.Categories {
		if _, err := model.ParseCategory(c); err != nil {
			errs = append(errs, err)
		}
	}

	return utilerrors.NewAggregate(errs)
}
