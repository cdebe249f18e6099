// Package textutil 提供语料处理相关的文本工具函数。
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	headingPattern = regexp.MustCompile(`(?m)^#+.*$`)
	imagePattern   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	newlinePattern = regexp.MustCompile(`\n{2,}`)
)

// SplitParagraphs 按空行将文本切分为段落，丢弃空白段落。
func SplitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}

// IsTableChunk 判断段落是否为 Markdown 表格。
// 同时包含 "|" 与 "-" 的段落视为表格。
func IsTableChunk(chunk string) bool {
	return strings.Contains(chunk, "|") && strings.Contains(chunk, "-")
}

// StripMarkdown 去除 Markdown 标题行与图片引用，并把连续换行压缩为段落分隔符。
// 被删除的标题留下的空行会成为段落边界，使标题两侧的正文各自成段。
func StripMarkdown(text string) string {
	text = headingPattern.ReplaceAllString(text, "")
	text = imagePattern.ReplaceAllString(text, "")
	text = newlinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// TruncateString 截断字符串到指定的最大 Unicode 字符数。
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
