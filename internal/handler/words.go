package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/wordsearch-back/internal/response"
	"github.com/kyiku/wordsearch-back/internal/wordlist"
)

const (
	defaultWordCount = 10
	maxWordCount     = 30
	defaultMinLength = 3
	defaultMaxLength = 10
)

// WordSuggesterInterface defines the interface for AI word suggestions.
type WordSuggesterInterface interface {
	SuggestWords(theme string, n, maxLen int) ([]string, error)
}

// WordSourceInterface defines the interface for the built-in word lists.
type WordSourceInterface interface {
	Themes() []string
	Random(theme string, n, minLen, maxLen int) ([]string, error)
}

// WordsHandler serves word lists for new puzzles.
type WordsHandler struct {
	source    WordSourceInterface
	suggester WordSuggesterInterface
}

// NewWordsHandler creates a new WordsHandler backed by the built-in lists.
func NewWordsHandler(source WordSourceInterface) *WordsHandler {
	return &WordsHandler{source: source}
}

// SetSuggester enables AI suggestions.
func (h *WordsHandler) SetSuggester(s WordSuggesterInterface) {
	h.suggester = s
}

// WordsQuery selects words for a theme.
type WordsQuery struct {
	Theme     string `json:"theme" query:"theme"`
	Count     int    `json:"count" query:"count"`
	MinLength int    `json:"min_length" query:"min_length"`
	MaxLength int    `json:"max_length" query:"max_length"`
}

func (q *WordsQuery) normalize() {
	q.Theme = strings.TrimSpace(q.Theme)
	if q.Count <= 0 {
		q.Count = defaultWordCount
	}
	if q.Count > maxWordCount {
		q.Count = maxWordCount
	}
	if q.MinLength <= 0 {
		q.MinLength = defaultMinLength
	}
	if q.MaxLength <= 0 {
		q.MaxLength = defaultMaxLength
	}
}

// Themes lists the built-in themes.
func (h *WordsHandler) Themes(c echo.Context) error {
	return response.Success(c, map[string]interface{}{
		"themes": h.source.Themes(),
	})
}

// Random picks words from the built-in lists.
func (h *WordsHandler) Random(c echo.Context) error {
	var q WordsQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	q.normalize()
	if q.MinLength > q.MaxLength {
		return badRequest(c, "min_lengthはmax_length以下である必要があります")
	}

	words, err := h.source.Random(q.Theme, q.Count, q.MinLength, q.MaxLength)
	if errors.Is(err, wordlist.ErrUnknownTheme) {
		return response.ErrorWithCode(c, http.StatusNotFound, response.CodeInvalidRequest, "テーマが見つかりません")
	}
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"theme": q.Theme,
		"words": words,
	})
}

// Suggest asks the AI for words matching a theme.
func (h *WordsHandler) Suggest(c echo.Context) error {
	if h.suggester == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":   true,
			"message": "Bedrock is not configured",
		})
	}

	var q WordsQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	q.normalize()
	if q.Theme == "" {
		return badRequest(c, "テーマが空です")
	}

	words, err := h.suggester.SuggestWords(q.Theme, q.Count, q.MaxLength)
	if err != nil {
		return response.ErrorWithCode(c, http.StatusBadGateway, response.CodeInternalError, "単語の提案に失敗しました")
	}
	return response.Success(c, map[string]interface{}{
		"theme": q.Theme,
		"words": words,
	})
}
