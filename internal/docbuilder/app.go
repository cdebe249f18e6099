package docbuilder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/docbuilder/biz"
	"github.com/kart-io/finrag/pkg/app"
)

const (
	appName        = "finrag-docbuilder"
	appDescription = `FinRAG Document Builder

Normalizes the raw corpora into per-category document files:
  - finance: quarterly report markdown files, split into text and table passages
  - insurance: policy markdown folders, split into paragraphs
  - faq: question/answer pairs from the raw FAQ JSON

The output files feed the indexer.`
)

// NewApp creates the document builder application.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the document builder with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", appName)
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := setupSignalContext()

	builder := biz.NewBuilder(&biz.Config{
		FinanceDir:   opts.FinanceDir,
		InsuranceDir: opts.InsuranceDir,
		FAQFile:      opts.FAQFile,
		OutputDir:    opts.OutputDir,
	})
	if err := builder.Run(ctx); err != nil {
		return err
	}

	logger.Infow("Document build finished", "output", opts.OutputDir)
	return nil
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
