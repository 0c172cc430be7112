package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, 2, 10, 41)

	assert.Equal(t, []string{"a", "b"}, resp.Data)
	assert.Equal(t, int64(41), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.PerPage)
	assert.Equal(t, 5, resp.Pagination.TotalPages)
}

func TestNewPaginatedResponseEmpty(t *testing.T) {
	resp := NewPaginatedResponse([]string{}, 1, 10, 0)

	assert.Empty(t, resp.Data)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
}
