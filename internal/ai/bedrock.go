// Package ai provides AI integration for themed word suggestions.
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kyiku/wordsearch-back/internal/util"
)

// BedrockClientInterface defines the interface for Bedrock client.
type BedrockClientInterface interface {
	InvokeModel(modelID string, prompt string) (string, error)
}

// WordSourceInterface supplies fallback words when the model is unavailable.
type WordSourceInterface interface {
	Random(theme string, n, minLen, maxLen int) ([]string, error)
}

// BedrockClient suggests puzzle words for a theme.
type BedrockClient struct {
	client          BedrockClientInterface
	modelID         string
	fallback        WordSourceInterface
	fallbackEnabled bool
}

// ClaudeResponse represents the response from Claude.
type ClaudeResponse struct {
	Content []ContentBlock `json:"content"`
}

// ContentBlock represents a content block in Claude's response.
type ContentBlock struct {
	Text string `json:"text"`
}

// DefaultModelID is Claude 3 Haiku.
const DefaultModelID = "anthropic.claude-3-haiku-20240307-v1:0"

// Suggestion limits
const (
	MaxSuggestions = 30
	minWordLength  = 3
)

// ErrNoWords is returned when the model answered without any usable word.
var ErrNoWords = errors.New("no usable words in response")

// NewBedrockClient creates a new BedrockClient. An empty modelID selects
// DefaultModelID.
func NewBedrockClient(client BedrockClientInterface, modelID string) *BedrockClient {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &BedrockClient{
		client:          client,
		modelID:         modelID,
		fallbackEnabled: false,
	}
}

// EnableFallback enables or disables fallback mode.
// When enabled, words come from the fallback source instead of an error when
// the API fails.
func (c *BedrockClient) EnableFallback(enabled bool) {
	c.fallbackEnabled = enabled
}

// SetFallbackSource sets the word source used in fallback mode.
func (c *BedrockClient) SetFallbackSource(src WordSourceInterface) {
	c.fallback = src
}

// SuggestWords asks Claude for n words about theme, each at most maxLen
// letters long.
func (c *BedrockClient) SuggestWords(theme string, n, maxLen int) ([]string, error) {
	if n <= 0 || n > MaxSuggestions {
		n = MaxSuggestions
	}
	prompt := c.buildPrompt(theme, n, maxLen)

	response, err := c.client.InvokeModel(c.modelID, prompt)
	if err != nil {
		if c.fallbackEnabled {
			return c.getFallbackWords(theme, n, maxLen)
		}
		return nil, fmt.Errorf("failed to invoke Bedrock: %w", err)
	}

	text, err := c.parseResponse(response)
	if err != nil {
		if c.fallbackEnabled {
			return c.getFallbackWords(theme, n, maxLen)
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	words := extractWords(text, n, maxLen)
	if len(words) == 0 {
		if c.fallbackEnabled {
			return c.getFallbackWords(theme, n, maxLen)
		}
		return nil, ErrNoWords
	}
	return words, nil
}

// buildPrompt creates the prompt for word suggestions.
func (c *BedrockClient) buildPrompt(theme string, n, maxLen int) string {
	limit := ""
	if maxLen > 0 {
		limit = fmt.Sprintf("Each word must have between %d and %d letters.\n", minWordLength, maxLen)
	}
	return fmt.Sprintf(`You are helping build a word search puzzle.
List %d distinct single words related to the theme below.
Use letters only: no spaces, hyphens, digits or accents.
%sAnswer with the words separated by commas and nothing else.

Theme: %s`, n, limit, theme)
}

// parseResponse parses the Claude response JSON.
func (c *BedrockClient) parseResponse(response string) (string, error) {
	var claudeResp ClaudeResponse
	if err := json.Unmarshal([]byte(response), &claudeResp); err != nil {
		return "", err
	}

	if len(claudeResp.Content) == 0 {
		return "", errors.New("empty content in response")
	}

	return claudeResp.Content[0].Text, nil
}

// extractWords keeps the purely alphabetic words of text that fit the
// length limits.
func extractWords(text string, n, maxLen int) []string {
	var out []string
	for _, w := range util.CleanInput(text, 0) {
		w = strings.Trim(w, ".")
		l := len([]rune(w))
		if l < minWordLength || (maxLen > 0 && l > maxLen) || !letters(w) {
			continue
		}
		out = append(out, w)
		if len(out) == n {
			break
		}
	}
	return out
}

func letters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// getFallbackWords returns words from the fallback source. Unknown themes
// sample every built-in theme.
func (c *BedrockClient) getFallbackWords(theme string, n, maxLen int) ([]string, error) {
	if c.fallback == nil {
		return nil, errors.New("no fallback word source configured")
	}
	words, err := c.fallback.Random(strings.ToLower(theme), n, minWordLength, maxLen)
	if err != nil {
		words, err = c.fallback.Random("", n, minWordLength, maxLen)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fallback words: %w", err)
	}
	return words, nil
}
