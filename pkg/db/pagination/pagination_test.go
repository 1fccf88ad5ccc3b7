package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	limit, offset := Normalize(0, -5)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Normalize(300, 10)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 10, offset)

	limit, offset = Normalize(25, 50)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}

func TestBuildPageInfo_TrimsOverfetch(t *testing.T) {
	rows := []int{1, 2, 3}

	page, info := BuildPageInfo(rows, 2, 0)
	assert.Equal(t, []int{1, 2}, page)
	assert.Equal(t, 2, info.Count)
	assert.True(t, info.HasMore)

	page, info = BuildPageInfo([]int{3}, 2, 2)
	assert.Equal(t, []int{3}, page)
	assert.Equal(t, 1, info.Count)
	assert.Equal(t, 2, info.Offset)
	assert.False(t, info.HasMore)
}

func TestBuildPageInfo_Empty(t *testing.T) {
	page, info := BuildPageInfo([]string{}, 10, 0)
	assert.Empty(t, page)
	assert.Equal(t, 0, info.Count)
	assert.False(t, info.HasMore)
}
