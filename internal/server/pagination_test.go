package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPage(t *testing.T) {
	p := newPage([]int{1, 2, 3}, 10, 0, 3)
	if p.TotalPages != 4 {
		t.Errorf("TotalPages = %d, want 4", p.TotalPages)
	}
	if !p.First || p.Last {
		t.Errorf("First = %v, Last = %v, want first page", p.First, p.Last)
	}

	p = newPage([]int{10}, 10, 3, 3)
	if p.First || !p.Last {
		t.Errorf("First = %v, Last = %v, want last page", p.First, p.Last)
	}
	if p.Number != 3 {
		t.Errorf("Number = %d, want 3", p.Number)
	}
}

func TestNewPageEmpty(t *testing.T) {
	p := newPage[int](nil, 0, 0, 20)
	if p.Content == nil {
		t.Error("Content is nil, want empty slice")
	}
	if p.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", p.TotalPages)
	}
	if !p.First || !p.Last {
		t.Errorf("empty page should be both first and last, got First=%v Last=%v", p.First, p.Last)
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"", 0, 20},
		{"page=2&size=50", 2, 50},
		{"page=-1&size=0", 0, 20},
		{"page=abc&size=xyz", 0, 20},
		{"size=500", 0, maxPageSize},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)

		page, size := parsePagination(c, 20)
		if page != tc.wantPage || size != tc.wantSize {
			t.Errorf("parsePagination(%q) = (%d, %d), want (%d, %d)",
				tc.query, page, size, tc.wantPage, tc.wantSize)
		}
	}
}
