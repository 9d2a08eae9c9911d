package shapes

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/wordsearch-back/internal/mask"
)

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 18)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "donut")
}

func TestByName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{name: "正常系: 小文字", input: "circle", wantName: "circle"},
		{name: "正常系: 大文字と区切り", input: "STAR_5", wantName: "star5"},
		{name: "正常系: ハイフン", input: " Star-8 ", wantName: "star8"},
		{name: "異常系: 不明な形", input: "blob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ByName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Label())
			assert.False(t, m.Static)
		})
	}
}

func TestByName_ReturnsFreshMask(t *testing.T) {
	a, err := ByName("donut")
	require.NoError(t, err)
	b, err := ByName("donut")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestPresets_Generate(t *testing.T) {
	for _, name := range Names() {
		t.Run("正常系: "+name, func(t *testing.T) {
			m, err := ByName(name)
			require.NoError(t, err)

			size := max(21, m.MinSize)
			ag, err := m.Generate(size)
			require.NoError(t, err)
			assert.Greater(t, ag.Count(), 0)
			assert.LessOrEqual(t, ag.Count(), size*size)
		})
	}
}

func TestPresets_MinSize(t *testing.T) {
	for _, name := range Names() {
		m, err := ByName(name)
		require.NoError(t, err)
		if m.MinSize == 0 {
			continue
		}
		t.Run("異常系: "+name, func(t *testing.T) {
			_, err := m.Generate(m.MinSize - 1)
			var sizeErr *mask.SizeError
			require.True(t, errors.As(err, &sizeErr))
			assert.Equal(t, m.MinSize, sizeErr.MinSize)
		})
	}
}

func TestCircle(t *testing.T) {
	ag, err := Circle().Generate(7)
	require.NoError(t, err)
	assert.Equal(t, 37, ag.Count())
}

func TestSquare(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{name: "正常系: 偶数サイズは全面", size: 10, want: 100},
		{name: "正常系: 奇数サイズは一回り小さい", size: 11, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ag, err := Square().Generate(tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ag.Count())
		})
	}
}

func TestDonutRatio(t *testing.T) {
	tests := []struct {
		size      int
		wantDonut int
		wantHole  int
	}{
		{size: 10, wantDonut: 9, wantHole: 3},
		{size: 11, wantDonut: 11, wantHole: 3},
		{size: 21, wantDonut: 21, wantHole: 7},
	}

	for _, tt := range tests {
		donut, hole := DonutRatio(tt.size)
		assert.Equal(t, tt.wantDonut, donut, "size %d", tt.size)
		assert.Equal(t, tt.wantHole, hole, "size %d", tt.size)
	}
}

func TestDonut_Hole(t *testing.T) {
	ag, err := Donut().Generate(11)
	require.NoError(t, err)
	assert.False(t, ag.Active(5, 5))
	assert.True(t, ag.Active(5, 1))
}

func TestPresets_FollowSize(t *testing.T) {
	m := Star6()
	small, err := m.Generate(10)
	require.NoError(t, err)
	large, err := m.Generate(20)
	require.NoError(t, err)
	assert.Greater(t, large.Count(), small.Count())
	assert.Equal(t, 20, m.Size())
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, -3, floorDiv(-9, 4))
	assert.Equal(t, 2, floorDiv(9, 4))
	assert.Equal(t, -2, floorDiv(-8, 4))
}
