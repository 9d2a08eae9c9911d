// Package validator provides word predicates applied before placement.
package validator

import "strings"

// Validator decides whether a word may be placed given the words already
// placed on the grid.
type Validator interface {
	Validate(word string, placed []string) bool
}

// Func adapts a function to the Validator interface.
type Func func(word string, placed []string) bool

// Validate calls f.
func (f Func) Validate(word string, placed []string) bool {
	return f(word, placed)
}

// punctuation matches the ASCII punctuation and symbol characters.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// NoSingleLetter rejects words with fewer than two letters.
type NoSingleLetter struct{}

// Validate implements Validator.
func (NoSingleLetter) Validate(word string, _ []string) bool {
	return len([]rune(word)) > 1
}

// NoPunctuation rejects words containing punctuation.
type NoPunctuation struct{}

// Validate implements Validator.
func (NoPunctuation) Validate(word string, _ []string) bool {
	if word == "" {
		return false
	}
	return !strings.ContainsAny(word, punctuation)
}

// NoPalindrome rejects words that read the same in both directions,
// ignoring case.
type NoPalindrome struct{}

// Validate implements Validator.
func (NoPalindrome) Validate(word string, _ []string) bool {
	if word == "" {
		return false
	}
	r := []rune(strings.ToLower(word))
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		if r[i] != r[j] {
			return true
		}
	}
	return false
}

// NoSubword rejects words that contain, or are contained in, an already
// placed word in either orientation. Comparison ignores case.
type NoSubword struct{}

// Validate implements Validator.
func (NoSubword) Validate(word string, placed []string) bool {
	if word == "" {
		return false
	}
	w := strings.ToLower(word)
	wr := Reverse(w)
	for _, p := range placed {
		if p == "" {
			continue
		}
		p = strings.ToLower(p)
		if strings.Contains(p, w) ||
			strings.Contains(p, wr) ||
			strings.Contains(w, p) ||
			strings.Contains(w, Reverse(p)) {
			return false
		}
	}
	return true
}

// Defaults returns a fresh list of every built-in validator.
func Defaults() []Validator {
	return []Validator{
		NoPalindrome{},
		NoPunctuation{},
		NoSingleLetter{},
		NoSubword{},
	}
}

// ByName returns the built-in validator with the given name.
func ByName(name string) (Validator, bool) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "no_single_letter", "no_single_letter_words":
		return NoSingleLetter{}, true
	case "no_punctuation":
		return NoPunctuation{}, true
	case "no_palindrome", "no_palindromes":
		return NoPalindrome{}, true
	case "no_subword", "no_subwords":
		return NoSubword{}, true
	}
	return nil, false
}

// All reports whether word passes every validator.
func All(validators []Validator, word string, placed []string) bool {
	for _, v := range validators {
		if !v.Validate(word, placed) {
			return false
		}
	}
	return true
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
