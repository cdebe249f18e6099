// Package rerankeropts provides options for the reranker service client.
package rerankeropts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/finrag/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains reranker service client configuration.
type Options struct {
	// BaseURL is the reranker service base URL. The service is expected to
	// expose a Jina-compatible POST /rerank endpoint.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// Model is the reranker model name.
	Model string `json:"model" mapstructure:"model"`

	// Timeout for API requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries for failed requests.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		BaseURL:    "http://localhost:8787",
		Model:      "jina-reranker-v2-base-multilingual",
		Timeout:    60 * time.Second,
		MaxRetries: 3,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"reranker.base-url", o.BaseURL, "Reranker service base URL.")
	fs.StringVar(&o.Model, options.Join(prefixes...)+"reranker.model", o.Model, "Reranker model name.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"reranker.timeout", o.Timeout, "Request timeout.")
	fs.IntVar(&o.MaxRetries, options.Join(prefixes...)+"reranker.max-retries", o.MaxRetries, "Max retries for failed requests.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("reranker base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("reranker model is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("reranker timeout must be positive"))
	}
	return errs
}
