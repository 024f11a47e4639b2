package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		want     int
	}{
		{"empty", 0, 5, 1},
		{"single partial page", 3, 5, 1},
		{"exact page", 5, 5, 1},
		{"one over", 6, 5, 2},
		{"many", 42, 10, 5},
		{"page size one", 7, 1, 7},
		{"invalid page size", 7, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.count, tt.pageSize))
		})
	}
}

func TestTotalPages_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 10_000).Draw(rt, "count")
		size := rapid.IntRange(1, 200).Draw(rt, "size")

		want := (count + size - 1) / size
		if want < 1 {
			want = 1
		}
		if got := TotalPages(count, size); got != want {
			rt.Fatalf("TotalPages(%d, %d) = %d, want %d", count, size, got, want)
		}
	})
}

func TestPager_PrevAtFirstPage(t *testing.T) {
	p := NewPager(1, 20, 5)

	assert.False(t, p.Prev())
	assert.Equal(t, 1, p.Page)
}

func TestPager_NextAtLastPage(t *testing.T) {
	p := NewPager(4, 20, 5)

	assert.False(t, p.Next())
	assert.Equal(t, 4, p.Page)
}

func TestPager_SinglePage(t *testing.T) {
	p := NewPager(1, 0, 5)

	assert.False(t, p.Next())
	assert.False(t, p.Prev())
	assert.Equal(t, 1, p.Page)
}

func TestPager_Moves(t *testing.T) {
	p := NewPager(2, 20, 5)

	assert.True(t, p.Next())
	assert.Equal(t, 3, p.Page)
	assert.True(t, p.Prev())
	assert.True(t, p.Prev())
	assert.Equal(t, 1, p.Page)
}

func TestPager_StaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 500).Draw(rt, "count")
		size := rapid.SampledFrom(LimitChoices).Draw(rt, "size")
		p := NewPager(1, count, size)

		steps := rapid.SliceOf(rapid.Bool()).Draw(rt, "steps")
		for _, forward := range steps {
			before := p.Page
			var moved bool
			if forward {
				moved = p.Next()
			} else {
				moved = p.Prev()
			}
			if p.Page < 1 || p.Page > p.TotalPages {
				rt.Fatalf("page %d out of [1, %d]", p.Page, p.TotalPages)
			}
			if moved == (before == p.Page) {
				rt.Fatalf("moved=%v but page went %d -> %d", moved, before, p.Page)
			}
		}
	})
}

func TestPageSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, PageSlice(items, 1, 3))
	assert.Equal(t, []int{7}, PageSlice(items, 3, 3))
	assert.Empty(t, PageSlice(items, 4, 3))
	assert.Equal(t, items, PageSlice(items, 1, 0))
}
