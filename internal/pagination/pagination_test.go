package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name           string
		in             PageRequest
		wantPage, size int
	}{
		{"empty", PageRequest{}, 1, DefaultPageSize},
		{"kept", PageRequest{Page: 3, PageSize: 10}, 3, 10},
		{"clamped", PageRequest{Page: 2, PageSize: 500}, 2, MaxPageSize},
		{"negative", PageRequest{Page: -1, PageSize: -5}, 1, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Defaults()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.size, p.PageSize)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, PageSize: 25}.Offset())
	assert.Equal(t, 50, PageRequest{Page: 3, PageSize: 25}.Offset())
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, 1, 2, 5)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)

	last := NewPageResponse([]string{"e"}, 3, 2, 5)
	assert.False(t, last.HasNext)

	empty := NewPageResponse[string](nil, 1, 25, 0)
	assert.NotNil(t, empty.Data)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
