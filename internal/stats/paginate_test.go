package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                 string
		total, perPage, page int
		want                 Page
	}{
		{"empty list has one page", 0, 5, 1, Page{Number: 1, TotalPages: 1, PerPage: 5}},
		{"middle page", 12, 5, 2, Page{Number: 2, TotalPages: 3, Total: 12, PerPage: 5, HasNext: true, HasPrevious: true}},
		{"last page", 12, 5, 3, Page{Number: 3, TotalPages: 3, Total: 12, PerPage: 5, HasPrevious: true}},
		{"page past the end falls back to first", 12, 5, 9, Page{Number: 1, TotalPages: 3, Total: 12, PerPage: 5, HasNext: true}},
		{"zero page falls back to first", 3, 5, 0, Page{Number: 1, TotalPages: 1, Total: 3, PerPage: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.total, tt.perPage, tt.page))
		})
	}
}

func TestPage_Bounds(t *testing.T) {
	start, end := Paginate(12, 5, 3).Bounds()
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)

	start, end = Paginate(0, 5, 1).Bounds()
	assert.Zero(t, start)
	assert.Zero(t, end)

	p := Paginate(12, 5, 2)
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, 1, p.Previous())
	assert.Equal(t, []int{1, 2, 3}, p.Numbers())
}
