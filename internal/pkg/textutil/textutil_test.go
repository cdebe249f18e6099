package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two paragraphs",
			text: "第一段内容。\n\n第二段内容。",
			want: []string{"第一段内容。", "第二段内容。"},
		},
		{
			name: "blank segments dropped",
			text: "a\n\n\n\nb\n\n  \n\nc",
			want: []string{"a", "b", "c"},
		},
		{
			name: "single paragraph",
			text: "只有一段",
			want: []string{"只有一段"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParagraphs(tt.text))
		})
	}
}

func TestIsTableChunk(t *testing.T) {
	assert.True(t, IsTableChunk("| 项目 | 金额 |\n|------|------|\n| 营收 | 100 |"))
	assert.False(t, IsTableChunk("普通段落，包含 | 分隔符但没有横线"))
	assert.False(t, IsTableChunk("带有-横线但没有竖线"))
	assert.False(t, IsTableChunk("纯文本段落"))
}

func TestStripMarkdown(t *testing.T) {
	input := "# 保单条款\n\n![签约图](images/sign.png)\n\n第一条 本契约之内容。\n\n\n\n第二条 保险范围。"
	got := StripMarkdown(input)

	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "![")
	assert.Equal(t, []string{"第一条 本契约之内容。", "第二条 保险范围。"}, SplitParagraphs(got))
}

func TestStripMarkdownHeadingsBecomeBoundaries(t *testing.T) {
	input := "## 第二章\n内容甲\n### 小节\n内容乙"
	got := StripMarkdown(input)

	assert.Equal(t, "内容甲\n\n内容乙", got)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 10))
	assert.Equal(t, "ab", TruncateString("abcd", 2))
	assert.Equal(t, "你好", TruncateString("你好世界", 2))
}
