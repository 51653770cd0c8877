package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
		wantSkip  int
	}{
		{"defaults", "", "", 1, DefaultLimit, 0},
		{"third page of five", "3", "5", 3, 5, 10},
		{"garbage falls back", "abc", "-2", 1, DefaultLimit, 0},
		{"limit capped", "2", "1000", 2, MaxLimit, MaxLimit},
		{"zero page", "0", "20", 1, 20, 0},
		{"huge page clamped", "922337203685477581", "100", MaxPage, MaxLimit, (MaxPage - 1) * MaxLimit},
		{"out of range page clamped", "99999999999999999999999", "100", MaxPage, MaxLimit, (MaxPage - 1) * MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := FromRequest(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantLimit, req.Limit)
			assert.Equal(t, tt.wantSkip, req.Skip())
		})
	}
}

func TestNew(t *testing.T) {
	p := New(2, 10, 25)

	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 10, p.Offset)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
	assert.Equal(t, int64(25), p.Total)

	last := New(3, 10, 25)
	assert.False(t, last.HasNext)

	far := New(math.MaxInt, MaxLimit, 5)
	assert.Equal(t, MaxPage, far.Page)
	assert.Positive(t, far.Offset)
	assert.False(t, far.HasNext)

	empty := New(1, 10, 0)
	assert.Equal(t, 1, empty.Pages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
