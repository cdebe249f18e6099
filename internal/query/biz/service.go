package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
	"github.com/kart-io/finrag/internal/pkg/textutil"
	"github.com/kart-io/finrag/pkg/component/reranker"
)

// FallbackAnswer 在检索不到任何候选文档时直接返回，不调用 LLM。
const FallbackAnswer = "不知道"

// Reranker 对候选文档按与查询的相关性重新排序。
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]reranker.RerankResult, error)
}

// Config 问答服务配置。
type Config struct {
	// RerankTopN 重排序后保留并用作上下文的文档数量。
	RerankTopN int
}

// Service 串联检索、重排序与回答生成。
type Service struct {
	cfg       *Config
	retriever *Retriever
	reranker  Reranker
	generator *Generator
}

// NewService 创建问答服务。
func NewService(cfg *Config, retriever *Retriever, rr Reranker, generator *Generator) *Service {
	return &Service{cfg: cfg, retriever: retriever, reranker: rr, generator: generator}
}

// Answer 回答单个问题。检索结果为空时返回兜底回答，
// 重排序或生成失败则返回错误。
func (s *Service) Answer(ctx context.Context, question *model.Question) (*model.Prediction, error) {
	candidates, err := s.retriever.Retrieve(ctx, question.Query, question.Category, question.Sources)
	if err != nil {
		return nil, fmt.Errorf("qid %d: %w", question.QID, err)
	}

	if len(candidates) == 0 {
		logger.Warnw("No candidates retrieved", "qid", question.QID, "category", question.Category)
		return &model.Prediction{
			QID:       question.QID,
			Query:     question.Query,
			Documents: []string{},
			Generate:  FallbackAnswer,
		}, nil
	}

	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Content
	}

	ranked, err := s.reranker.Rerank(ctx, question.Query, documents, s.cfg.RerankTopN)
	if err != nil {
		return nil, fmt.Errorf("qid %d: failed to rerank: %w", question.QID, err)
	}

	contexts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, fmt.Errorf("qid %d: reranker returned index %d out of range", question.QID, r.Index)
		}
		contexts = append(contexts, documents[r.Index])
	}
	if len(contexts) > 0 {
		logger.Debugw("Context selected", "qid", question.QID,
			"passages", len(contexts), "top", textutil.TruncateString(contexts[0], 32))
	}

	answer, err := s.generator.Generate(ctx, question.Query, contexts)
	if err != nil {
		return nil, fmt.Errorf("qid %d: %w", question.QID, err)
	}

	return &model.Prediction{
		QID:       question.QID,
		Query:     question.Query,
		Documents: contexts,
		Generate:  answer,
	}, nil
}

// AnswerBatch 读取问题文件，逐个回答并写出预测文件。
// 问题按文件顺序依次处理，任何一个问题失败都立即中止。
func (s *Service) AnswerBatch(ctx context.Context, questionsPath, outputPath string) error {
	var file model.QuestionFile
	if err := docutil.ReadJSONFile(questionsPath, &file); err != nil {
		return err
	}
	logger.Infow("Answering questions", "count", len(file.Questions), "path", questionsPath)

	pred := model.PredictionFile{Answers: make([]model.Prediction, 0, len(file.Questions))}
	for i := range file.Questions {
		if err := ctx.Err(); err != nil {
			return err
		}

		question := &file.Questions[i]
		p, err := s.Answer(ctx, question)
		if err != nil {
			return err
		}
		pred.Answers = append(pred.Answers, *p)
		logger.Infow("Question answered", "qid", question.QID)
	}

	if err := docutil.WriteJSONFile(outputPath, pred); err != nil {
		return err
	}
	logger.Infow("Predictions written", "count", len(pred.Answers), "path", outputPath)
	return nil
}
