// Package ollamaopts provides options for Ollama client configuration.
package ollamaopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/finrag/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains Ollama client configuration.
type Options struct {
	// BaseURL is the Ollama API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// EmbedModel is the model for generating embeddings.
	EmbedModel string `json:"embed-model" mapstructure:"embed-model"`

	// ChatModel is the model for chat completion.
	ChatModel string `json:"chat-model" mapstructure:"chat-model"`

	// Temperature controls sampling randomness for chat completion.
	// The pipeline defaults to 0 for reproducible answers.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// Timeout for API requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries for failed requests.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		BaseURL:     "http://localhost:11434",
		EmbedModel:  "jina/jina-embeddings-v3",
		ChatModel:   "kenneth85/llama-3-taiwan:latest",
		Temperature: 0,
		Timeout:     120 * time.Second,
		MaxRetries:  3,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"ollama.base-url", o.BaseURL, "Ollama API base URL.")
	fs.StringVar(&o.EmbedModel, options.Join(prefixes...)+"ollama.embed-model", o.EmbedModel, "Model for embeddings.")
	fs.StringVar(&o.ChatModel, options.Join(prefixes...)+"ollama.chat-model", o.ChatModel, "Model for chat completion.")
	fs.Float64Var(&o.Temperature, options.Join(prefixes...)+"ollama.temperature", o.Temperature, "Sampling temperature for chat completion.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"ollama.timeout", o.Timeout, "Request timeout.")
	fs.IntVar(&o.MaxRetries, options.Join(prefixes...)+"ollama.max-retries", o.MaxRetries, "Max retries for failed requests.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("ollama base-url is required"))
	}
	if o.EmbedModel == "" {
		errs = append(errs, fmt.Errorf("ollama embed-model is required"))
	}
	if o.ChatModel == "" {
		errs = append(errs, fmt.Errorf("ollama chat-model is required"))
	}
	if o.Temperature < 0 {
		errs = append(errs, fmt.Errorf("ollama temperature must not be negative"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("ollama timeout must be positive"))
	}
	return errs
}
