// Package docbuilder provides the document builder application.
package docbuilder

import (
	"fmt"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	logopts "github.com/kart-io/finrag/pkg/options/logger"
)

// Options contains all document builder options.
type Options struct {
	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// FinanceDir is the directory of finance report markdown files.
	FinanceDir string `json:"finance-dir" mapstructure:"finance-dir"`

	// InsuranceDir is the directory of insurance policy markdown folders.
	InsuranceDir string `json:"insurance-dir" mapstructure:"insurance-dir"`

	// FAQFile is the path of the raw FAQ JSON file.
	FAQFile string `json:"faq-file" mapstructure:"faq-file"`

	// OutputDir is the directory the per-category document files are
	// written to.
	OutputDir string `json:"output-dir" mapstructure:"output-dir"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Log:          logopts.NewOptions(),
		FinanceDir:   "corpus/finance_markdown",
		InsuranceDir: "corpus/insurance_markdown",
		FAQFile:      "corpus/pid_map_content.json",
		OutputDir:    "documents",
	}
}

// AddFlags adds all docbuilder flags to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)

	fs.StringVar(&o.FinanceDir, "finance-dir", o.FinanceDir, "Directory of finance report markdown files")
	fs.StringVar(&o.InsuranceDir, "insurance-dir", o.InsuranceDir, "Directory of insurance policy markdown folders")
	fs.StringVar(&o.FAQFile, "faq-file", o.FAQFile, "Path of the raw FAQ JSON file")
	fs.StringVar(&o.OutputDir, "output-dir", o.OutputDir, "Directory the document files are written to")
}

// Complete fills in defaults that depend on other options.
func (o *Options) Complete() error {
	return o.Log.Complete()
}

// Validate validates all options.
func (o *Options) Validate() error {
	var errs []error

	if err := o.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.FinanceDir == "" {
		errs = append(errs, fmt.Errorf("finance-dir is required"))
	}
	if o.InsuranceDir == "" {
		errs = append(errs, fmt.Errorf("insurance-dir is required"))
	}
	if o.FAQFile == "" {
		errs = append(errs, fmt.Errorf("faq-file is required"))
	}
	if o.OutputDir == "" {
		errs = append(errs, fmt.Errorf("output-dir is required"))
	}

	return utilerrors.NewAggregate(errs)
}
