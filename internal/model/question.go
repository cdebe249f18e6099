package model

import (
	"fmt"
	"strconv"

	"github.com/kart-io/finrag/pkg/utils/json"
)

// SourceList 是来源编号列表。问题文件中的来源编号既可能是字符串，
// 也可能是整数（原始竞赛数据的形式），反序列化时统一为字符串。
type SourceList []string

// UnmarshalJSON 接受字符串或整数元素的数组。
func (s *SourceList) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(SourceList, 0, len(raw))
	for i, v := range raw {
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case float64:
			out = append(out, strconv.FormatInt(int64(val), 10))
		default:
			return fmt.Errorf("source element %d has unsupported type %T", i, v)
		}
	}
	*s = out
	return nil
}

// Question is one entry of the batch question file.
type Question struct {
	// QID 问题编号。
	QID int `json:"qid"`
	// Query 用户问题。
	Query string `json:"query"`
	// Category 限定检索的语料类别。
	Category Category `json:"category"`
	// Sources 限定检索的来源编号，空表示不限定。
	Sources SourceList `json:"source,omitempty"`
}

// QuestionFile is the on-disk format of the batch question file.
type QuestionFile struct {
	Questions []Question `json:"questions"`
}

// Prediction is one answered question in the prediction output.
type Prediction struct {
	// QID 问题编号。
	QID int `json:"qid"`
	// Query 原始问题。
	Query string `json:"query"`
	// Documents 重排序后用作上下文的文档内容，按相关性降序。
	Documents []string `json:"documents"`
	// Generate LLM 生成的最终回答。
	Generate string `json:"generate"`
}

// PredictionFile is the on-disk format of the prediction output.
type PredictionFile struct {
	Answers []Prediction `json:"answers"`
}
