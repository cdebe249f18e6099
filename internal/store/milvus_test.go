package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilterExpr(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			name:   "empty filter",
			filter: Filter{},
			want:   "",
		},
		{
			name:   "category only",
			filter: Filter{Category: "faq"},
			want:   `category == "faq"`,
		},
		{
			name:   "sources only",
			filter: Filter{Sources: []string{"101", "205"}},
			want:   `source in ["101", "205"]`,
		},
		{
			name:   "category and sources",
			filter: Filter{Category: "finance", Sources: []string{"aaa_01"}},
			want:   `category == "finance" and source in ["aaa_01"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilterExpr(tt.filter))
		})
	}
}
