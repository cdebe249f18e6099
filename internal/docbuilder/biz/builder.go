// Package biz 实现文档构建的业务逻辑。
package biz

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
	"github.com/kart-io/finrag/pkg/id"
)

// Config 文档构建配置。
type Config struct {
	// FinanceDir 财报 Markdown 文件目录。
	FinanceDir string
	// InsuranceDir 保单 Markdown 文件夹目录。
	InsuranceDir string
	// FAQFile FAQ 原始 JSON 文件路径。
	FAQFile string
	// OutputDir 输出目录，每个类别写一个 JSON 文件。
	OutputDir string
}

// Builder 将三类原始语料规整为统一的文档 JSON 文件。
type Builder struct {
	cfg   *Config
	idGen *id.ULIDGenerator
}

// NewBuilder 创建文档构建器。
func NewBuilder(cfg *Config) *Builder {
	return &Builder{
		cfg:   cfg,
		idGen: id.NewULIDGenerator(),
	}
}

// Run 依次构建三个类别的文档文件。任何一个类别失败都立即返回错误，
// 不写出部分结果。
func (b *Builder) Run(ctx context.Context) error {
	if err := docutil.EnsureDir(b.cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	type corpus struct {
		category model.Category
		build    func(context.Context) ([]model.Document, error)
	}
	corpora := []corpus{
		{model.CategoryFinance, func(ctx context.Context) ([]model.Document, error) {
			return b.BuildFinance(ctx, b.cfg.FinanceDir)
		}},
		{model.CategoryInsurance, func(ctx context.Context) ([]model.Document, error) {
			return b.BuildInsurance(ctx, b.cfg.InsuranceDir)
		}},
		{model.CategoryFAQ, func(ctx context.Context) ([]model.Document, error) {
			return b.BuildFAQ(ctx, b.cfg.FAQFile)
		}},
	}

	for _, c := range corpora {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs, err := c.build(ctx)
		if err != nil {
			return fmt.Errorf("failed to build %s documents: %w", c.category, err)
		}

		outPath := filepath.Join(b.cfg.OutputDir, string(c.category)+".json")
		if err := docutil.WriteJSONFile(outPath, docs); err != nil {
			return err
		}
		logger.Infow("Documents built", "category", c.category, "count", len(docs), "path", outPath)
	}
	return nil
}

// newDocument 创建带唯一 ID 的文档。
func (b *Builder) newDocument(text string, source string, category model.Category) model.Document {
	return model.Document{
		ID:   b.idGen.Generate(),
		Text: text,
		Metadata: model.Metadata{
			Source:   source,
			Category: category,
		},
	}
}
