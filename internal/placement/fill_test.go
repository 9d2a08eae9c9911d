package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

func TestHasNeighbor(t *testing.T) {
	g := gridOf("...", ".A.", "...")

	tests := []struct {
		name   string
		cell   grid.Cell
		letter rune
		want   bool
	}{
		{name: "正常系: 斜めの隣接", cell: grid.Cell{Row: 0, Col: 0}, letter: 'A', want: true},
		{name: "正常系: 上下の隣接", cell: grid.Cell{Row: 2, Col: 1}, letter: 'A', want: true},
		{name: "正常系: 別の文字", cell: grid.Cell{Row: 0, Col: 0}, letter: 'B', want: false},
		{name: "正常系: 自分自身は含まない", cell: grid.Cell{Row: 1, Col: 1}, letter: 'A', want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasNeighbor(g, tt.cell, tt.letter))
		})
	}
}

func TestEngine_NoiseLetter(t *testing.T) {
	t.Run("正常系: 隣接しない文字を選ぶ", func(t *testing.T) {
		e, err := NewEngine(Options{Alphabet: "ABC", Seed: 3})
		require.NoError(t, err)
		g := gridOf(".A.", "B..", "...")

		for i := 0; i < 20; i++ {
			ch := e.noiseLetter(g, grid.Cell{Row: 0, Col: 0}, nil, 200)
			assert.Equal(t, 'C', ch)
		}
		assert.Empty(t, e.UnsafeCells())
	})

	t.Run("正常系: 試行上限後は隣接規則を緩める", func(t *testing.T) {
		e, err := NewEngine(Options{Alphabet: "AB", Seed: 3})
		require.NoError(t, err)
		g := gridOf(".A.", "B..", "...")

		ch := e.noiseLetter(g, grid.Cell{Row: 0, Col: 0}, nil, len(e.alphabet)*4)

		assert.Contains(t, []rune("AB"), ch)
		assert.Empty(t, e.UnsafeCells())
	})

	t.Run("正常系: 単語を作らない文字を選ぶ", func(t *testing.T) {
		e, err := NewEngine(Options{Alphabet: "AB", Seed: 5})
		require.NoError(t, err)
		g := gridOf("A.A", "...", "...")

		ch := e.noiseLetter(g, grid.Cell{Row: 0, Col: 1}, []string{"AAA"}, len(e.alphabet)*4)

		assert.Equal(t, 'B', ch)
		assert.Empty(t, e.UnsafeCells())
	})

	t.Run("異常系: 安全な文字がない", func(t *testing.T) {
		e, err := NewEngine(Options{Alphabet: "AB", Seed: 3})
		require.NoError(t, err)
		g := gridOf("A.B", "...", "...")
		cell := grid.Cell{Row: 0, Col: 1}

		ch := e.noiseLetter(g, cell, []string{"AA", "BB"}, len(e.alphabet)*4)

		assert.Contains(t, []rune("AB"), ch)
		assert.Equal(t, []grid.Cell{cell}, e.UnsafeCells())
	})
}

func TestEngine_Fill(t *testing.T) {
	e, err := NewEngine(Options{Seed: 9})
	require.NoError(t, err)
	g := gridOf("CAT.", "....", "....", "....")
	activity := grid.NewActivity(4, true)
	activity.SetActive(3, 3, false)

	e.fill(g, activity, []string{"CAT"})

	assert.Equal(t, grid.Empty, g.At(3, 3))
	filled := 0
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if g.At(row, col) != grid.Empty {
				filled++
			}
		}
	}
	assert.Equal(t, 15, filled)
	assert.Len(t, findAll(g, "CAT"), 1)
	assert.Empty(t, e.UnsafeCells())
}
