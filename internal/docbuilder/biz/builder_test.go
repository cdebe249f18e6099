package biz

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/finrag/internal/model"
	"github.com/kart-io/finrag/internal/pkg/docutil"
)

func TestBuildFinance(t *testing.T) {
	dir := t.TempDir()
	content := "甲公司 2023年第一季\n[sep]\n营运概况说明。\n\n| 项目 | 金额 |\n|------|------|\n| 营收 | 100 |\n[sep]\n现金流量说明。"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1027_page1.md"), []byte(content), 0o644))

	b := NewBuilder(&Config{})
	docs, err := b.BuildFinance(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	// 文本片段在前，表格片段在后，每个片段都带页眉。
	assert.Equal(t, "甲公司 2023年第一季\n营运概况说明。", docs[0].Text)
	assert.Equal(t, "甲公司 2023年第一季\n现金流量说明。", docs[1].Text)
	assert.Contains(t, docs[2].Text, "| 项目 | 金额 |")
	assert.True(t, len(docs[2].Text) > 0 && docs[2].Text[0] != '|')

	for _, d := range docs {
		assert.Equal(t, "1027", d.Metadata.Source)
		assert.Equal(t, model.CategoryFinance, d.Metadata.Category)
	}
}

func TestBuildFinanceNoSeparator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "5.md"), []byte("只有页眉没有内容"), 0o644))

	b := NewBuilder(&Config{})
	docs, err := b.BuildFinance(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestBuildFinanceMissingDir(t *testing.T) {
	b := NewBuilder(&Config{})
	_, err := b.BuildFinance(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestBuildInsurance(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "policy301")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	content := "# 保险契约\n\n![印章](img/seal.png)\n\n第一条 契约构成。\n\n第二条 保险范围。"
	require.NoError(t, os.WriteFile(filepath.Join(folder, "terms.md"), []byte(content), 0o644))

	b := NewBuilder(&Config{})
	docs, err := b.BuildInsurance(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "第一条 契约构成。", docs[0].Text)
	assert.Equal(t, "第二条 保险范围。", docs[1].Text)
	for _, d := range docs {
		assert.Equal(t, "policy301", d.Metadata.Source)
		assert.Equal(t, model.CategoryInsurance, d.Metadata.Category)
	}
}

func TestBuildFAQ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faq.json")
	raw := `{"442": [{"question": "如何申请补发存折？", "answers": ["请携带身份证件。", "至任一分行办理。"]}], "115": [{"question": "跨行转账手续费？", "answers": ["每笔15元。"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	b := NewBuilder(&Config{})
	docs, err := b.BuildFAQ(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// 来源按字典序排列。
	assert.Equal(t, "115", docs[0].Metadata.Source)
	assert.Equal(t, "跨行转账手续费？\n每笔15元。", docs[0].Text)
	assert.Equal(t, "442", docs[1].Metadata.Source)
	assert.Equal(t, "如何申请补发存折？\n请携带身份证件。\n至任一分行办理。", docs[1].Text)
}

func TestBuildFAQMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faq.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": [{"answers": ["没有问题字段"]}]}`), 0o644))

	b := NewBuilder(&Config{})
	_, err := b.BuildFAQ(context.Background(), path)
	assert.Error(t, err)
}

func TestRunWritesAllCategories(t *testing.T) {
	root := t.TempDir()
	financeDir := filepath.Join(root, "finance_markdown")
	insuranceDir := filepath.Join(root, "insurance_markdown")
	outputDir := filepath.Join(root, "documents")
	require.NoError(t, os.MkdirAll(financeDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(insuranceDir, "p1"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(financeDir, "7_q1.md"),
		[]byte("乙公司\n[sep]\n段落一。"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(insuranceDir, "p1", "a.md"),
		[]byte("# 标题\n条款内容。"), 0o644))
	faqPath := filepath.Join(root, "pid_map_content.json")
	require.NoError(t, os.WriteFile(faqPath,
		[]byte(`{"9": [{"question": "Q", "answers": ["A"]}]}`), 0o644))

	b := NewBuilder(&Config{
		FinanceDir:   financeDir,
		InsuranceDir: insuranceDir,
		FAQFile:      faqPath,
		OutputDir:    outputDir,
	})
	require.NoError(t, b.Run(context.Background()))

	seen := map[string]bool{}
	for _, category := range model.Categories {
		var docs []model.Document
		require.NoError(t, docutil.ReadJSONFile(filepath.Join(outputDir, string(category)+".json"), &docs))
		require.Len(t, docs, 1)
		assert.Equal(t, category, docs[0].Metadata.Category)
		assert.NotEmpty(t, docs[0].ID)
		assert.False(t, seen[docs[0].ID], "document IDs must be unique")
		seen[docs[0].ID] = true
	}
}
