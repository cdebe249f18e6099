// Package model defines the data models shared by the pipeline stages.
package model

import "fmt"

// Category identifies a document corpus.
type Category string

const (
	CategoryFAQ       Category = "faq"
	CategoryFinance   Category = "finance"
	CategoryInsurance Category = "insurance"
)

// Categories lists all known categories in pipeline order.
var Categories = []Category{CategoryFinance, CategoryInsurance, CategoryFAQ}

// ParseCategory parses a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFAQ, CategoryFinance, CategoryInsurance:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// Metadata carries the provenance of a document.
type Metadata struct {
	// Source 原始数据来源编号（文件名前缀、保单文件夹名或 FAQ 来源键）。
	Source string `json:"source"`
	// Category 所属语料类别。
	Category Category `json:"category"`
}

// Document is one normalized passage produced by the document builder.
// Documents are immutable once written; the indexer consumes them as-is.
type Document struct {
	// ID 在单一类别内唯一的文档标识符（ULID）。
	ID string `json:"id"`
	// Text 文档内容。
	Text string `json:"text"`
	// Metadata 文档来源信息。
	Metadata Metadata `json:"metadata"`
}
