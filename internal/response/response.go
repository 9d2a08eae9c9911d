// Package response provides helpers for consistent API responses.
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/wordsearch-back/internal/definition"
	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/store"
)

// Error codes
const (
	CodeNotFound       = "PUZZLE_NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidSize    = "INVALID_SIZE"
	CodeInvalidMask    = "INVALID_MASK"
	CodeNoWords        = "NO_WORDS"
	CodeMissingWords   = "MISSING_WORDS"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Success sends a successful JSON response with the given data.
// The response will always include "error": false.
func Success(c echo.Context, data map[string]interface{}) error {
	return SuccessWithStatus(c, http.StatusOK, data)
}

// SuccessWithStatus is Success with a status other than 200.
func SuccessWithStatus(c echo.Context, statusCode int, data map[string]interface{}) error {
	resp := make(map[string]interface{}, len(data)+1)
	resp["error"] = false

	for k, v := range data {
		resp[k] = v
	}

	return c.JSON(statusCode, resp)
}

// Error sends an error JSON response with the given status code and message.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"message": message,
	})
}

// ErrorWithCode sends an error response with a specific error code.
// This is useful for clients that need to handle specific error types.
func ErrorWithCode(c echo.Context, statusCode int, code string, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"code":    code,
		"message": message,
	})
}

// Classify maps a domain error to an HTTP status and error code.
func Classify(err error) (int, string) {
	var (
		sizeErr     *puzzle.SizeError
		maskSizeErr *mask.SizeError
		paramErr    *mask.ParamError
		contrastErr *mask.ContrastError
		wordSizeErr *placement.WordSizeError
		missingErr  *placement.MissingWordError
		invalidErr  *definition.InvalidError
	)

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &missingErr):
		return http.StatusUnprocessableEntity, CodeMissingWords
	case errors.Is(err, puzzle.ErrEmptyWordlist), errors.Is(err, puzzle.ErrNoValidWords):
		return http.StatusBadRequest, CodeNoWords
	case errors.As(err, &sizeErr), errors.As(err, &wordSizeErr):
		return http.StatusBadRequest, CodeInvalidSize
	case errors.As(err, &maskSizeErr), errors.As(err, &paramErr), errors.As(err, &contrastErr),
		errors.Is(err, mask.ErrMaskNotGenerated):
		return http.StatusBadRequest, CodeInvalidMask
	case errors.As(err, &invalidErr), errors.Is(err, puzzle.ErrNoDirections):
		return http.StatusBadRequest, CodeInvalidRequest
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// DomainError sends err with the status and code chosen by Classify.
// Internal errors hide their message from the client.
func DomainError(c echo.Context, err error) error {
	status, code := Classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "サーバーエラーが発生しました"
	}
	return ErrorWithCode(c, status, code, message)
}
