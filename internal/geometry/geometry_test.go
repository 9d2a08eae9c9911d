package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

func pointsOf(s PointSet) []grid.Point {
	out := make([]grid.Point, 0, s.Size())
	s.Each(func(p grid.Point) {
		out = append(out, p)
	})
	return out
}

func TestConnectPoints(t *testing.T) {
	tests := []struct {
		name string
		p1   grid.Point
		p2   grid.Point
		want []grid.Point
	}{
		{
			name: "正常系: 緩やかな傾き",
			p1:   grid.Point{X: 0, Y: 0},
			p2:   grid.Point{X: 3, Y: 1},
			want: []grid.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1}},
		},
		{
			name: "正常系: 逆順でも同じ線",
			p1:   grid.Point{X: 3, Y: 1},
			p2:   grid.Point{X: 0, Y: 0},
			want: []grid.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1}},
		},
		{
			name: "正常系: 垂直線",
			p1:   grid.Point{X: 2, Y: 0},
			p2:   grid.Point{X: 2, Y: 3},
			want: []grid.Point{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}},
		},
		{
			name: "正常系: 同一点",
			p1:   grid.Point{X: 1, Y: 1},
			p2:   grid.Point{X: 1, Y: 1},
			want: []grid.Point{{X: 1, Y: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ag := grid.NewActivity(5, false)
			got := ConnectPoints(tt.p1, tt.p2, ag)

			assert.ElementsMatch(t, tt.want, pointsOf(got))
			assert.ElementsMatch(t, tt.want, ag.ActivePoints())
		})
	}
}

func TestConnectPoints_OutOfBounds(t *testing.T) {
	ag := grid.NewActivity(3, false)
	got := ConnectPoints(grid.Point{X: -2, Y: 1}, grid.Point{X: 4, Y: 1}, ag)

	assert.Equal(t, 7, got.Size())
	assert.Equal(t, []string{"###", "***", "###"}, ag.Rows())
}

func TestPointInPolygon(t *testing.T) {
	square := []grid.Point{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}}

	tests := []struct {
		name string
		p    grid.Point
		want bool
	}{
		{name: "正常系: 内部", p: grid.Point{X: 2, Y: 2}, want: true},
		{name: "正常系: 左辺上", p: grid.Point{X: 0, Y: 2}, want: true},
		{name: "異常系: 右辺上", p: grid.Point{X: 4, Y: 2}, want: false},
		{name: "異常系: 外部", p: grid.Point{X: 5, Y: 2}, want: false},
		{name: "異常系: 上方", p: grid.Point{X: 2, Y: -1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.p, square))
		})
	}

	assert.False(t, PointInPolygon(grid.Point{}, square[:2]))
}

func TestFillPolygon(t *testing.T) {
	rect := []grid.Point{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 0}}
	ag := grid.NewActivity(5, false)

	DrawPath(rect, true, ag)
	FillPolygon(rect, ag)

	assert.Equal(t, 16, ag.Count())
	assert.False(t, ag.Active(4, 4))

	empty := grid.NewActivity(5, false)
	FillPolygon(rect, empty)
	assert.Equal(t, 0, empty.Count())
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		wantLeft  []int
		wantRight []int
	}{
		{name: "正常系: 偶数個の頂点", n: 10, wantLeft: []int{0, 1, 2, 3, 4, 5}, wantRight: []int{0, 9, 8, 7, 6, 5}},
		{name: "正常系: 奇数個の頂点", n: 5, wantLeft: []int{0, 1, 2, 3}, wantRight: []int{0, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := make([]grid.Point, tt.n)
			for i := range vs {
				vs[i] = grid.Point{X: i, Y: 0}
			}

			left, right := SplitPath(vs)

			idx := func(ps []grid.Point) []int {
				out := make([]int, len(ps))
				for i, p := range ps {
					out[i] = p.X
				}
				return out
			}
			assert.Equal(t, tt.wantLeft, idx(left))
			assert.Equal(t, tt.wantRight, idx(right))
		})
	}
}

func TestBoundingBox(t *testing.T) {
	t.Run("異常系: アクティブなセルなし", func(t *testing.T) {
		_, ok := BoundingBox(grid.NewActivity(6, false))
		assert.False(t, ok)
	})

	t.Run("正常系: 単一セル", func(t *testing.T) {
		ag := grid.NewActivity(6, false)
		ag.SetActive(3, 4, true)

		box, ok := BoundingBox(ag)
		require.True(t, ok)
		assert.Equal(t, grid.Point{X: 4, Y: 3}, box.Min)
		assert.Equal(t, grid.Point{X: 4, Y: 3}, box.Max)
		assert.Equal(t, 1, box.Width())
		assert.Equal(t, 1, box.Height())
	})

	t.Run("正常系: 全セル", func(t *testing.T) {
		box, ok := BoundingBox(grid.NewActivity(6, true))
		require.True(t, ok)
		assert.Equal(t, Rect{Max: grid.Point{X: 5, Y: 5}}, box)
	})
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, RoundHalfUp(2.5))
	assert.Equal(t, -2.0, RoundHalfUp(-2.5))
	assert.Equal(t, 2.0, RoundHalfUp(2.49))
}
