package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/finrag/pkg/component/ollama"
)

// LLM 根据对话消息生成回答。
type LLM interface {
	Chat(ctx context.Context, messages []ollama.ChatMessage) (string, error)
	ChatModel() string
}

// Generator 组装提示词并调用 LLM 生成最终回答。
type Generator struct {
	llm          LLM
	systemPrompt string
	template     string
}

// NewGenerator 创建回答生成器。template 中的 {{context}} 会被替换为
// 重排序后的上下文段落，{{question}} 替换为用户问题。
func NewGenerator(llm LLM, systemPrompt, template string) *Generator {
	return &Generator{llm: llm, systemPrompt: systemPrompt, template: template}
}

// BuildPrompt 组装用户提示词，上下文段落之间以空行分隔。
func (g *Generator) BuildPrompt(query string, contexts []string) string {
	prompt := strings.ReplaceAll(g.template, "{{context}}", strings.Join(contexts, "\n\n"))
	return strings.ReplaceAll(prompt, "{{question}}", query)
}

// Generate 生成回答，以系统消息加用户消息的形式请求聊天模型。
func (g *Generator) Generate(ctx context.Context, query string, contexts []string) (string, error) {
	messages := []ollama.ChatMessage{
		{Role: "system", Content: g.systemPrompt},
		{Role: "user", Content: g.BuildPrompt(query, contexts)},
	}
	answer, err := g.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}
