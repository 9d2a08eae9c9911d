package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHiraganaToKatakana(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ひらがな", input: "おにかます", want: "オニカマス"},
		{name: "混合", input: "おにカマス", want: "オニカマス"},
		{name: "英字はそのまま", input: "CAT", want: "CAT"},
		{name: "空文字列", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HiraganaToKatakana(tt.input))
		})
	}
}

func TestContainsOnlyKana(t *testing.T) {
	assert.True(t, ContainsOnlyKana("さかなサカナ"))
	assert.False(t, ContainsOnlyKana("さかな FISH"))
	assert.False(t, ContainsOnlyKana(""))
}

func TestCleanInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  []string
	}{
		{name: "正常系: 空白区切り", input: "cat dog  bird", want: []string{"CAT", "DOG", "BIRD"}},
		{name: "正常系: カンマと改行", input: "cat,dog\nbird,\t owl", want: []string{"CAT", "DOG", "BIRD", "OWL"}},
		{name: "正常系: 重複を除外", input: "cat Cat CAT dog", want: []string{"CAT", "DOG"}},
		{name: "正常系: 上限", input: "a b c d", max: 2, want: []string{"A", "B"}},
		{name: "正常系: ひらがなはカタカナへ", input: "さば、あじ", want: []string{"サバ", "アジ"}},
		{name: "正常系: 空入力", input: " , ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanInput(tt.input, tt.max))
		})
	}
}

func TestAlphabetFor(t *testing.T) {
	assert.Equal(t, KatakanaAlphabet, AlphabetFor([]string{"サバ", "アジ"}))
	assert.Empty(t, AlphabetFor([]string{"サバ", "CAT"}))
	assert.Empty(t, AlphabetFor(nil))
}
