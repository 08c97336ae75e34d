package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/employees", nil)
	p := ParsePagination(r, 100, 500)
	require.Equal(t, 100, p.Limit)
	require.Equal(t, 0, p.Skip)
}

func TestParsePaginationClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/employees?limit=100000&skip=20", nil)
	p := ParsePagination(r, 100, 500)
	require.Equal(t, 500, p.Limit)
	require.Equal(t, 20, p.Skip)
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/employees?limit=abc&skip=-5", nil)
	p := ParsePagination(r, 100, 500)
	require.Equal(t, 100, p.Limit)
	require.Equal(t, 0, p.Skip)
}
