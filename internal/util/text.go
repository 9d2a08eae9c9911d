// Package util provides text helpers for word input.
package util

import (
	"strings"
	"unicode"
)

// hiraganaStart is the start of the hiragana Unicode block.
const hiraganaStart = 0x3041

// hiraganaEnd is the last hiragana letter with a katakana counterpart.
const hiraganaEnd = 0x3096

// katakanaStart is the start of the katakana Unicode block.
const katakanaStart = 0x30A0

// katakanaEnd is the end of the katakana Unicode block.
const katakanaEnd = 0x30FF

// kanaOffset is the offset between hiragana and katakana.
const kanaOffset = 0x30A1 - hiraganaStart

// MaxWords is the most words accepted from one piece of user input.
const MaxWords = 30

// KatakanaAlphabet is the noise alphabet used for Japanese word lists.
const KatakanaAlphabet = "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン"

// HiraganaToKatakana converts all hiragana characters to katakana.
func HiraganaToKatakana(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r >= hiraganaStart && r <= hiraganaEnd {
			result.WriteRune(r + kanaOffset)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// IsKana checks if a rune is either hiragana or katakana.
func IsKana(r rune) bool {
	return (r >= hiraganaStart && r <= hiraganaEnd) || (r >= katakanaStart && r <= katakanaEnd)
}

// ContainsOnlyKana checks if a string contains only kana characters.
func ContainsOnlyKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// CleanInput splits raw user input on whitespace and commas, upper-cases
// each word, folds hiragana into katakana and drops duplicates. At most max
// words are returned; max <= 0 means no limit.
func CleanInput(raw string, max int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '、' || unicode.IsSpace(r)
	})

	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := HiraganaToKatakana(strings.ToUpper(f))
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		if max > 0 && len(words) == max {
			break
		}
	}
	return words
}

// AlphabetFor returns KatakanaAlphabet when every word is kana and an empty
// string otherwise, which selects the default Latin alphabet.
func AlphabetFor(words []string) string {
	if len(words) == 0 {
		return ""
	}
	for _, w := range words {
		if !ContainsOnlyKana(w) {
			return ""
		}
	}
	return KatakanaAlphabet
}
