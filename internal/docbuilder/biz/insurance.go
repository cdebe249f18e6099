package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
	"github.com/kart-io/finrag/internal/pkg/textutil"
)

// BuildInsurance 处理保单 Markdown 目录。每个保单一个文件夹，文件夹名
// 即来源编号，文件夹内的每个 Markdown 文件去除标题与图片后按段落产出文档。
func (b *Builder) BuildInsurance(ctx context.Context, dir string) ([]model.Document, error) {
	folders, err := docutil.ListSubdirs(dir)
	if err != nil {
		return nil, err
	}

	var documents []model.Document
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, err := docutil.ListFilesWithExt(filepath.Join(dir, folder), ".md")
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			raw, err := os.ReadFile(filepath.Join(dir, folder, file))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s/%s: %w", folder, file, err)
			}

			cleaned := textutil.StripMarkdown(string(raw))
			for _, paragraph := range textutil.SplitParagraphs(cleaned) {
				documents = append(documents, b.newDocument(paragraph, folder, model.CategoryInsurance))
			}
		}
	}

	logger.Infow("Insurance corpus processed", "folders", len(folders), "documents", len(documents))
	return documents, nil
}
