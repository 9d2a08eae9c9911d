package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_SetAndAt(t *testing.T) {
	tests := []struct {
		name string
		row  int
		col  int
		want rune
	}{
		{name: "正常系: 範囲内", row: 1, col: 2, want: 'A'},
		{name: "異常系: 行が負", row: -1, col: 0, want: Empty},
		{name: "異常系: 列が範囲外", row: 0, col: 3, want: Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3)
			g.Set(tt.row, tt.col, 'A')
			assert.Equal(t, tt.want, g.At(tt.row, tt.col))
		})
	}
}

func TestGrid_Rows(t *testing.T) {
	g := New(2)
	g.Set(0, 0, 'A')
	g.Set(1, 1, 'B')

	rows := g.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"A", " "}, rows[0])
	assert.Equal(t, []string{" ", "B"}, rows[1])
	assert.Equal(t, "A  \n  B", g.String())
}

func TestGrid_CropAndClone(t *testing.T) {
	g := New(4)
	g.Set(1, 1, 'X')
	g.Set(2, 2, 'Y')

	cropped := g.Crop(Point{X: 1, Y: 1}, Point{X: 2, Y: 2})
	assert.Equal(t, [][]string{{"X", " "}, {" ", "Y"}}, cropped)

	c := g.Clone()
	c.Set(1, 1, 'Z')
	assert.Equal(t, 'X', g.At(1, 1))
}

func TestActivityGrid_Transforms(t *testing.T) {
	tests := []struct {
		name string
		op   func(a *ActivityGrid)
		want []string
	}{
		{
			name: "正常系: 反転",
			op:   func(a *ActivityGrid) { a.Invert() },
			want: []string{"#**", "###", "###"},
		},
		{
			name: "正常系: 左右反転",
			op:   func(a *ActivityGrid) { a.FlipHorizontal() },
			want: []string{"##*", "***", "***"},
		},
		{
			name: "正常系: 上下反転",
			op:   func(a *ActivityGrid) { a.FlipVertical() },
			want: []string{"***", "***", "*##"},
		},
		{
			name: "正常系: 転置",
			op:   func(a *ActivityGrid) { a.Transpose() },
			want: []string{"***", "#**", "#**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ParseActivity([]string{"*##", "***", "***"})
			tt.op(a)
			assert.Equal(t, tt.want, a.Rows())
		})
	}
}

func TestActivityGrid_CountAndBounds(t *testing.T) {
	a := NewActivity(3, false)
	a.Mark(Point{X: 2, Y: 0})
	a.Mark(Point{X: 5, Y: 5})
	a.SetActive(-1, 0, true)

	assert.Equal(t, 1, a.Count())
	assert.True(t, a.Active(0, 2))
	assert.False(t, a.Active(9, 9))
	assert.Equal(t, []Point{{X: 2, Y: 0}}, a.ActivePoints())
}

func TestActivityGrid_EqualAndClone(t *testing.T) {
	a := NewActivity(3, true)
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.SetActive(1, 1, false)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(NewActivity(4, true)))
	assert.False(t, a.Equal(nil))
}
