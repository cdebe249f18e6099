package biz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
)

// faqEntry 是 FAQ 原始文件中的一条问答。
type faqEntry struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// BuildFAQ 处理 FAQ 原始 JSON 文件。文件是来源编号到问答列表的映射，
// 每条问答拼接成 问题+换行+答案列表 产出一个文档。
func (b *Builder) BuildFAQ(ctx context.Context, path string) ([]model.Document, error) {
	var datas map[string][]faqEntry
	if err := docutil.ReadJSONFile(path, &datas); err != nil {
		return nil, err
	}

	// 按来源编号排序，保证重复执行输出顺序一致。
	sources := make([]string, 0, len(datas))
	for source := range datas {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var documents []model.Document
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, qa := range datas[source] {
			if qa.Question == "" {
				return nil, fmt.Errorf("FAQ entry under source %q has no question", source)
			}
			text := qa.Question + "\n" + strings.Join(qa.Answers, "\n")
			documents = append(documents, b.newDocument(text, source, model.CategoryFAQ))
		}
	}

	logger.Infow("FAQ corpus processed", "sources", len(sources), "documents", len(documents))
	return documents, nil
}
