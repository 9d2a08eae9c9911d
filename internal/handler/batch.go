package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/batch"
	"github.com/kyiku/wordsearch-back/internal/definition"
	"github.com/kyiku/wordsearch-back/internal/model"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/response"
)

// BatchRunnerInterface defines the interface for batch generation.
type BatchRunnerInterface interface {
	Run(ctx context.Context, jobs []batch.Job) ([]batch.Result, error)
}

// BatchHandler generates many puzzles in one request.
type BatchHandler struct {
	store  PuzzleStoreInterface
	runner BatchRunnerInterface
	log    logrus.FieldLogger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(store PuzzleStoreInterface, runner BatchRunnerInterface) *BatchHandler {
	return &BatchHandler{
		store:  store,
		runner: runner,
		log:    logrus.StandardLogger(),
	}
}

// SetLogger sets the logger.
func (h *BatchHandler) SetLogger(log logrus.FieldLogger) {
	h.log = log
}

// BatchItem is one definition in a batch request.
type BatchItem struct {
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
}

// BatchRequest is the body of POST /api/puzzles/batch.
type BatchRequest struct {
	Puzzles []BatchItem `json:"puzzles"`
}

// BatchResult reports one generated puzzle. Failed items carry Error and
// no Puzzle.
type BatchResult struct {
	Name    string            `json:"name"`
	Puzzle  *model.PuzzleView `json:"puzzle,omitempty"`
	Missing []string          `json:"missing,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
}

// Create builds every definition of the batch. Invalid definitions fail
// the whole request before anything is generated.
func (h *BatchHandler) Create(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	if len(req.Puzzles) == 0 {
		return badRequest(c, "パズルが空です")
	}
	if len(req.Puzzles) > batch.MaxJobs {
		return badRequest(c, fmt.Sprintf("一度に生成できるパズルは%d個までです", batch.MaxJobs))
	}

	jobs := make([]batch.Job, len(req.Puzzles))
	for i, item := range req.Puzzles {
		def, err := definition.ParseJSON(item.Definition)
		if err != nil {
			return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest,
				fmt.Sprintf("puzzles[%d]: %s", i, err))
		}
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("puzzle-%d", i+1)
		}
		jobs[i] = batch.Job{Name: name, Definition: def}
	}

	results, err := h.runner.Run(c.Request().Context(), jobs)
	if err != nil {
		h.log.WithError(err).Warn("batch generation aborted")
		return response.DomainError(c, err)
	}

	out := make([]BatchResult, len(results))
	created := 0
	for i, res := range results {
		out[i] = h.result(res)
		if out[i].Puzzle != nil {
			created++
		}
	}
	h.log.WithFields(logrus.Fields{
		"requested": len(jobs),
		"created":   created,
	}).Info("batch generated")

	return response.SuccessWithStatus(c, http.StatusCreated, map[string]interface{}{
		"results": out,
		"created": created,
	})
}

func (h *BatchHandler) result(res batch.Result) BatchResult {
	out := BatchResult{Name: res.Name}

	var missing *placement.MissingWordError
	if res.Err != nil && !errors.As(res.Err, &missing) {
		_, out.Code = response.Classify(res.Err)
		out.Error = res.Err.Error()
		return out
	}

	id := h.store.Create(res.Puzzle)
	view := model.NewPuzzleView(id, res.Puzzle)
	out.Puzzle = &view
	if missing != nil {
		out.Missing = missing.Words
	}
	return out
}
