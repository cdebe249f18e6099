package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
	"github.com/kart-io/finrag/internal/pkg/textutil"
)

// 财报 Markdown 文件内的区块分隔符。分隔符之前是页眉（公司与报告期），
// 之后是若干内容区块。
const financeSeparator = "[sep]"

// BuildFinance 处理财报 Markdown 目录，每个文件产出若干文档。
// 页眉会拼接到每个片段之前，表格片段排在文本片段之后输出。
func (b *Builder) BuildFinance(ctx context.Context, dir string) ([]model.Document, error) {
	files, err := docutil.ListFilesWithExt(dir, ".md")
	if err != nil {
		return nil, err
	}

	var documents []model.Document
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		// 来源编号取文件名第一个 "." 和第一个 "_" 之前的部分。
		source := strings.SplitN(strings.SplitN(file, ".", 2)[0], "_", 2)[0]

		parts := strings.Split(string(raw), financeSeparator)
		head := strings.TrimSpace(parts[0])

		var texts, tables []string
		for _, content := range parts[1:] {
			for _, chunk := range textutil.SplitParagraphs(content) {
				if textutil.IsTableChunk(chunk) {
					tables = append(tables, chunk)
				} else {
					texts = append(texts, chunk)
				}
			}
		}

		for _, text := range texts {
			documents = append(documents, b.newDocument(head+"\n"+text, source, model.CategoryFinance))
		}
		for _, table := range tables {
			documents = append(documents, b.newDocument(head+"\n"+table, source, model.CategoryFinance))
		}
	}

	logger.Infow("Finance corpus processed", "files", len(files), "documents", len(documents))
	return documents, nil
}
