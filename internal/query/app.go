package query

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/query/biz"
	"github.com/kart-io/finrag/internal/store"
	"github.com/kart-io/finrag/pkg/app"
	"github.com/kart-io/finrag/pkg/component/milvus"
	"github.com/kart-io/finrag/pkg/component/ollama"
	"github.com/kart-io/finrag/pkg/component/reranker"
)

const (
	appName        = "finrag-query"
	appDescription = `FinRAG Query

Answers questions over the indexed corpora. For each question the query
is embedded, the closest passages are retrieved from Milvus under the
question's category and source restrictions, reranked by a cross-encoder
and fed as context to the chat model.

Batch mode reads a question file and writes a prediction file; single
mode answers one ad-hoc query on stdout.`
)

// NewApp creates the query application.
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

// Run runs the query application with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", appName)
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := setupSignalContext()

	ollamaClient := ollama.New(opts.Ollama)
	if err := ollamaClient.Ping(ctx); err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}

	// 拒绝使用与建索引时不一致的嵌入模型进行查询。
	manifest, err := model.LoadManifest(opts.RAG.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load index manifest (run the indexer first): %w", err)
	}
	if err := manifest.Validate(ollamaClient.EmbedModel(), opts.RAG.EmbeddingDim); err != nil {
		return err
	}
	logger.Infow("Index manifest validated",
		"collection", manifest.Collection,
		"embed_model", manifest.EmbeddingModel,
		"documents", manifest.DocumentCount)

	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	vs := store.NewMilvusStore(milvusClient, manifest.Collection)
	defer vs.Close(context.Background())

	rerankerClient := reranker.New(opts.Reranker)
	if err := rerankerClient.Ping(ctx); err != nil {
		return fmt.Errorf("reranker is not reachable: %w", err)
	}

	retriever := biz.NewRetriever(ollamaClient, vs, opts.RAG.TopK)
	generator := biz.NewGenerator(ollamaClient, opts.RAG.SystemPrompt, opts.RAG.PromptTemplate)
	svc := biz.NewService(&biz.Config{RerankTopN: opts.RAG.RerankTopN}, retriever, rerankerClient, generator)

	if opts.Query != "" {
		return runSingle(ctx, svc, opts)
	}
	return svc.AnswerBatch(ctx, opts.QuestionsFile, opts.OutputFile)
}

// runSingle 回答单个问题并打印到标准输出。
func runSingle(ctx context.Context, svc *biz.Service, opts *Options) error {
	category, err := model.ParseCategory(opts.Category)
	if err != nil {
		return err
	}

	pred, err := svc.Answer(ctx, &model.Question{
		Query:    opts.Query,
		Category: category,
		Sources:  model.SourceList(opts.Sources),
	})
	if err != nil {
		return err
	}

	fmt.Println(pred.Generate)
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
