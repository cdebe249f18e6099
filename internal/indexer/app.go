package indexer

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/indexer/biz"
	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/store"
	"github.com/kart-io/finrag/pkg/app"
	"github.com/kart-io/finrag/pkg/component/milvus"
	"github.com/kart-io/finrag/pkg/component/ollama"
)

const (
	appName        = "finrag-indexer"
	appDescription = `FinRAG Vector Indexer

Reads the per-category document files produced by the document builder,
generates embeddings through Ollama and stores them in Milvus. The
collection is rebuilt from scratch on every run, and an index manifest
recording the embedding model identity is written next to the documents.`
)

// NewApp creates the indexer application.
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

// Run runs the indexer with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", appName)
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := setupSignalContext()

	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	vs := store.NewMilvusStore(milvusClient, opts.RAG.Collection)
	defer vs.Close(context.Background())
	logger.Info("Milvus client initialized")

	ollamaClient := ollama.New(opts.Ollama)
	models, err := ollamaClient.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}
	if !ollama.ModelAvailable(models, ollamaClient.EmbedModel()) {
		logger.Warnw("Embedding model not found on Ollama server",
			"embed_model", ollamaClient.EmbedModel())
	}
	logger.Infow("Ollama client initialized", "embed_model", ollamaClient.EmbedModel())

	categories := make([]model.Category, 0, len(opts.Categories))
	for _, c := range opts.Categories {
		category, err := model.ParseCategory(c)
		if err != nil {
			return err
		}
		categories = append(categories, category)
	}

	idx := biz.NewIndexer(&biz.Config{
		DocumentsDir: opts.RAG.DocumentsDir,
		ManifestPath: opts.RAG.ManifestPath,
		Collection:   opts.RAG.Collection,
		EmbeddingDim: opts.RAG.EmbeddingDim,
		BatchSize:    opts.RAG.EmbedBatchSize,
		Categories:   categories,
	}, ollamaClient, vs)

	return idx.Run(ctx)
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
