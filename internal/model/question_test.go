package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/finrag/pkg/utils/json"
)

func TestQuestionFileIntegerSources(t *testing.T) {
	// 原始竞赛问题文件的来源编号是整数。
	raw := `{"questions": [{"qid": 1, "query": "问题", "category": "insurance", "source": [442, 115]}]}`

	var file QuestionFile
	require.NoError(t, json.Unmarshal([]byte(raw), &file))
	require.Len(t, file.Questions, 1)
	assert.Equal(t, SourceList{"442", "115"}, file.Questions[0].Sources)
}

func TestQuestionFileStringSources(t *testing.T) {
	raw := `{"questions": [{"qid": 2, "query": "问题", "category": "faq", "source": ["7", "p1"]}]}`

	var file QuestionFile
	require.NoError(t, json.Unmarshal([]byte(raw), &file))
	assert.Equal(t, SourceList{"7", "p1"}, file.Questions[0].Sources)
}

func TestSourceListRejectsNonScalar(t *testing.T) {
	var s SourceList
	err := s.UnmarshalJSON([]byte(`[{"nested": true}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}
