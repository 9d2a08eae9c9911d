package handler

import (
	"net/http"

	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/model"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/queue"
	"github.com/kyiku/wordsearch-back/internal/response"
	"github.com/kyiku/wordsearch-back/internal/websocket"
)

// ClientConn is a WebSocket connection the handler can read from.
type ClientConn interface {
	model.WebSocketConn
	ReadMessage() (int, []byte, error)
}

// WebSocketHandler streams puzzle updates to WebSocket clients.
type WebSocketHandler struct {
	store    PuzzleStoreInterface
	hub      *queue.Hub
	upgrader gws.Upgrader
	log      logrus.FieldLogger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(store PuzzleStoreInterface, hub *queue.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		store: store,
		hub:   hub,
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		log: logrus.StandardLogger(),
	}
}

// SetCheckOrigin sets the origin check used during the upgrade.
func (h *WebSocketHandler) SetCheckOrigin(allowed func(origin string) bool) {
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed(origin)
	}
}

// SetLogger sets the logger.
func (h *WebSocketHandler) SetLogger(log logrus.FieldLogger) {
	h.log = log
}

// Connect upgrades GET /ws?puzzle=<id> and subscribes the connection to
// the puzzle.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	puzzleID := c.QueryParam("puzzle")
	if puzzleID == "" {
		return badRequest(c, "puzzleパラメータが必要です")
	}
	if _, err := h.view(puzzleID); err != nil {
		return response.DomainError(c, err)
	}

	raw, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		h.log.WithError(err).Debug("websocket upgrade failed")
		return nil
	}

	h.Serve(puzzleID, websocket.NewConn(raw))
	return nil
}

// Serve subscribes conn to a puzzle, sends the current state and answers
// client messages until the connection fails.
func (h *WebSocketHandler) Serve(puzzleID string, conn ClientConn) {
	sub := &queue.Subscriber{ID: uuid.NewString(), Conn: conn}
	log := h.log.WithFields(logrus.Fields{"puzzle": puzzleID, "subscriber": sub.ID})

	h.hub.Subscribe(puzzleID, sub)
	defer func() {
		h.hub.Unsubscribe(puzzleID, sub.ID)
		_ = conn.Close()
		log.Debug("websocket disconnected")
	}()
	log.Debug("websocket connected")

	if !h.sendState(puzzleID, conn) {
		return
	}

	ping := websocket.NewPingHandler(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if ping.Handle(data) {
			continue
		}

		msg, ok := websocket.ParseMessage(data)
		switch {
		case ok && msg.Type == websocket.TypeRefresh:
			if !h.sendState(puzzleID, conn) {
				return
			}
		default:
			_ = conn.WriteJSON(map[string]interface{}{
				"type":    websocket.TypeError,
				"message": "不明なメッセージです",
			})
		}
	}
}

// sendState writes the current puzzle. It reports false when the puzzle is
// gone or the write failed.
func (h *WebSocketHandler) sendState(puzzleID string, conn ClientConn) bool {
	view, err := h.view(puzzleID)
	if err != nil {
		_ = conn.WriteJSON(map[string]interface{}{
			"type": queue.TypePuzzleDeleted,
			"id":   puzzleID,
		})
		return false
	}
	err = conn.WriteJSON(map[string]interface{}{
		"type":        queue.TypePuzzleUpdate,
		"puzzle":      view,
		"subscribers": h.hub.Len(puzzleID),
	})
	return err == nil
}

func (h *WebSocketHandler) view(puzzleID string) (model.PuzzleView, error) {
	var view model.PuzzleView
	err := h.store.View(puzzleID, func(p *puzzle.Puzzle) error {
		view = model.NewPuzzleView(puzzleID, p)
		return nil
	})
	return view, err
}
