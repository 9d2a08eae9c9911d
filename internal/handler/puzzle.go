// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/definition"
	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/model"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/response"
	"github.com/kyiku/wordsearch-back/internal/util"
)

// maxBodyBytes caps definition bodies.
const maxBodyBytes = 1 << 20

// PuzzleStoreInterface defines the interface for puzzle storage.
type PuzzleStoreInterface interface {
	Create(p *puzzle.Puzzle) string
	View(id string, fn func(*puzzle.Puzzle) error) error
	Update(id string, fn func(*puzzle.Puzzle) error) error
	Delete(id string)
	Count() int
}

// BroadcasterInterface defines the interface for pushing puzzle updates to
// WebSocket subscribers.
type BroadcasterInterface interface {
	BroadcastPuzzle(view model.PuzzleView) int
	ClosePuzzle(puzzleID string)
}

// ExporterInterface defines the interface for exporting puzzles.
type ExporterInterface interface {
	ExportPuzzle(v any) (string, error)
}

// PuzzleHandler handles puzzle creation and editing.
type PuzzleHandler struct {
	store       PuzzleStoreInterface
	hub         BroadcasterInterface
	images      mask.ImageSource
	exporter    ExporterInterface
	maxFitTries int
	log         logrus.FieldLogger
}

// NewPuzzleHandler creates a new PuzzleHandler.
func NewPuzzleHandler(store PuzzleStoreInterface, hub BroadcasterInterface) *PuzzleHandler {
	return &PuzzleHandler{
		store: store,
		hub:   hub,
		log:   logrus.StandardLogger(),
	}
}

// SetImageSource sets where image masks are loaded from.
func (h *PuzzleHandler) SetImageSource(src mask.ImageSource) {
	h.images = src
}

// SetExporter enables the export endpoint.
func (h *PuzzleHandler) SetExporter(exporter ExporterInterface) {
	h.exporter = exporter
}

// SetMaxFitTries sets the placement attempts used when a definition does
// not specify them.
func (h *PuzzleHandler) SetMaxFitTries(n int) {
	h.maxFitTries = n
}

// SetLogger sets the logger.
func (h *PuzzleHandler) SetLogger(log logrus.FieldLogger) {
	h.log = log
}

func (h *PuzzleHandler) buildOptions() definition.BuildOptions {
	return definition.BuildOptions{
		ImageSource: h.images,
		MaxFitTries: h.maxFitTries,
		Logger:      h.log,
	}
}

// Create builds a puzzle from a JSON definition body.
func (h *PuzzleHandler) Create(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest, "リクエストの読み込みに失敗しました")
	}

	def, err := definition.ParseJSON(body)
	if err != nil {
		return response.DomainError(c, err)
	}

	p, err := def.Build(h.buildOptions())
	if err != nil {
		h.log.WithError(err).Info("puzzle definition rejected")
		return response.DomainError(c, err)
	}

	id := h.store.Create(p)
	view := model.NewPuzzleView(id, p)
	h.log.WithFields(logrus.Fields{
		"puzzle": id,
		"size":   view.Size,
		"words":  len(view.Words),
	}).Info("puzzle created")

	return response.SuccessWithStatus(c, http.StatusCreated, map[string]interface{}{
		"puzzle": view,
	})
}

// Get returns a puzzle.
func (h *PuzzleHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var view model.PuzzleView
	err := h.store.View(id, func(p *puzzle.Puzzle) error {
		view = model.NewPuzzleView(id, p)
		return nil
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, map[string]interface{}{"puzzle": view})
}

// Delete removes a puzzle and disconnects its subscribers.
func (h *PuzzleHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.View(id, func(*puzzle.Puzzle) error { return nil }); err != nil {
		return response.DomainError(c, err)
	}
	h.store.Delete(id)
	h.hub.ClosePuzzle(id)
	return response.Success(c, map[string]interface{}{"id": id})
}

// WordsRequest edits the word list. Words is free-form input separated by
// spaces, commas or new lines.
type WordsRequest struct {
	Action    string `json:"action"`
	Words     string `json:"words"`
	Secret    bool   `json:"secret"`
	ResetSize bool   `json:"reset_size"`
}

// Words adds, removes or replaces words.
func (h *PuzzleHandler) Words(c echo.Context) error {
	var req WordsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	words := util.CleanInput(req.Words, util.MaxWords)

	var op func(*puzzle.Puzzle) error
	switch req.Action {
	case "add", "":
		op = func(p *puzzle.Puzzle) error { return p.AddWords(words, req.Secret, req.ResetSize) }
	case "remove":
		op = func(p *puzzle.Puzzle) error { return p.RemoveWords(words, req.ResetSize) }
	case "replace":
		op = func(p *puzzle.Puzzle) error { return p.ReplaceWords(words, req.Secret, req.ResetSize) }
	default:
		return badRequest(c, "actionはadd、remove、replaceのいずれかです")
	}
	if len(words) == 0 && req.Action != "replace" {
		return badRequest(c, "単語が空です")
	}

	return h.mutate(c, op)
}

// SizeRequest sets the puzzle size. Zero recalculates it from the words.
type SizeRequest struct {
	Size int `json:"size"`
}

// Size changes the puzzle size.
func (h *PuzzleHandler) Size(c echo.Context) error {
	var req SizeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	return h.mutate(c, func(p *puzzle.Puzzle) error {
		if req.Size == 0 {
			return p.Generate(true)
		}
		return p.SetSize(req.Size)
	})
}

// LevelRequest sets the directions. Omitted fields are left unchanged.
type LevelRequest struct {
	Level       *definition.Level `json:"level"`
	SecretLevel *definition.Level `json:"secret_level"`
}

// Level changes the directions words are placed in.
func (h *PuzzleHandler) Level(c echo.Context) error {
	var req LevelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	if req.Level == nil && req.SecretLevel == nil {
		return badRequest(c, "levelまたはsecret_levelが必要です")
	}

	return h.mutate(c, func(p *puzzle.Puzzle) error {
		if req.Level != nil {
			dirs, err := req.Level.Directions()
			if err != nil {
				return &definition.InvalidError{Err: err}
			}
			if err := p.SetDirections(dirs); err != nil {
				return err
			}
		}
		if req.SecretLevel != nil {
			dirs, err := req.SecretLevel.Directions()
			if err != nil {
				return &definition.InvalidError{Err: err}
			}
			return p.SetSecretDirections(dirs)
		}
		return nil
	})
}

// MasksRequest applies masks. With Replace the existing masks are removed
// first.
type MasksRequest struct {
	Masks   []definition.MaskDef `json:"masks"`
	Replace bool                 `json:"replace"`
}

// Masks applies one or more masks.
func (h *PuzzleHandler) Masks(c echo.Context) error {
	var req MasksRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	if len(req.Masks) == 0 {
		return badRequest(c, "マスクが空です")
	}

	masks := make([]*mask.Mask, 0, len(req.Masks))
	for _, md := range req.Masks {
		m, err := definition.BuildMask(md, h.images)
		if err != nil {
			return response.DomainError(c, &definition.InvalidError{Err: err})
		}
		masks = append(masks, m)
	}

	return h.mutate(c, func(p *puzzle.Puzzle) error {
		if req.Replace {
			if err := p.RemoveMasks(); err != nil {
				return err
			}
		}
		return p.ApplyMasks(masks...)
	})
}

// MaskOp runs one of the mask transforms named by the :op parameter.
func (h *PuzzleHandler) MaskOp(c echo.Context) error {
	var op func(*puzzle.Puzzle) error
	switch c.Param("op") {
	case "invert":
		op = (*puzzle.Puzzle).InvertMask
	case "flip-horizontal":
		op = (*puzzle.Puzzle).FlipMaskHorizontal
	case "flip-vertical":
		op = (*puzzle.Puzzle).FlipMaskVertical
	case "transpose":
		op = (*puzzle.Puzzle).TransposeMask
	case "clear":
		op = (*puzzle.Puzzle).RemoveMasks
	case "clear-static":
		op = (*puzzle.Puzzle).RemoveStaticMasks
	default:
		return response.ErrorWithCode(c, http.StatusNotFound, response.CodeInvalidRequest, "不明なマスク操作です")
	}
	return h.mutate(c, op)
}

// GenerateRequest regenerates a puzzle.
type GenerateRequest struct {
	ResetSize bool `json:"reset_size"`
}

// Generate lays out the words again.
func (h *PuzzleHandler) Generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "リクエストの解析に失敗しました")
	}
	return h.mutate(c, func(p *puzzle.Puzzle) error {
		return p.Generate(req.ResetSize)
	})
}

// Export uploads the puzzle JSON and returns its URL.
func (h *PuzzleHandler) Export(c echo.Context) error {
	if h.exporter == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":   true,
			"message": "S3 is not configured",
		})
	}

	id := c.Param("id")
	var view model.PuzzleView
	if err := h.store.View(id, func(p *puzzle.Puzzle) error {
		view = model.NewPuzzleView(id, p)
		return nil
	}); err != nil {
		return response.DomainError(c, err)
	}

	url, err := h.exporter.ExportPuzzle(view)
	if err != nil {
		h.log.WithError(err).WithField("puzzle", id).Error("failed to export puzzle")
		return response.ErrorWithCode(c, http.StatusBadGateway, response.CodeInternalError, "エクスポートに失敗しました")
	}
	return response.Success(c, map[string]interface{}{"url": url})
}

// mutate runs op on the stored puzzle and broadcasts the new state. A
// *placement.MissingWordError still counts as success; the missing words
// are reported alongside the puzzle.
func (h *PuzzleHandler) mutate(c echo.Context, op func(*puzzle.Puzzle) error) error {
	id := c.Param("id")
	var (
		view  model.PuzzleView
		opErr error
	)
	err := h.store.Update(id, func(p *puzzle.Puzzle) error {
		opErr = op(p)
		view = model.NewPuzzleView(id, p)
		return nil
	})
	if err != nil {
		return response.DomainError(c, err)
	}

	var missing *placement.MissingWordError
	if opErr != nil && !errors.As(opErr, &missing) {
		h.log.WithError(opErr).WithField("puzzle", id).Info("puzzle update rejected")
		return response.DomainError(c, opErr)
	}

	sent := h.hub.BroadcastPuzzle(view)
	h.log.WithFields(logrus.Fields{
		"puzzle":      id,
		"path":        c.Path(),
		"subscribers": sent,
	}).Debug("puzzle updated")

	data := map[string]interface{}{"puzzle": view}
	if missing != nil {
		data["missing"] = missing.Words
	}
	return response.Success(c, data)
}

func badRequest(c echo.Context, message string) error {
	return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest, message)
}
