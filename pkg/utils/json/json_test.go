package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshal(t *testing.T) {
	type sample struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	data, err := Marshal(sample{Name: "测试", Count: 7})
	require.NoError(t, err)

	var got sample
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, "测试", got.Name)
	assert.Equal(t, 7, got.Count)
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(map[string]int{"a": 1}))

	var got map[string]int
	require.NoError(t, NewDecoder(&buf).Decode(&got))
	assert.Equal(t, 1, got["a"])
}
