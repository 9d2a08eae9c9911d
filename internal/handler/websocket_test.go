package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/wordsearch-back/internal/model"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/queue"
	"github.com/kyiku/wordsearch-back/internal/response"
	"github.com/kyiku/wordsearch-back/internal/store"
	"github.com/kyiku/wordsearch-back/internal/testutil"
	"github.com/kyiku/wordsearch-back/internal/websocket"
)

func newWebSocketFixture(t *testing.T) (*WebSocketHandler, *store.PuzzleStore, *queue.Hub, string) {
	t.Helper()
	s := store.NewPuzzleStore()
	hub := queue.NewHub()
	h := NewWebSocketHandler(s, hub)
	h.SetLogger(testutil.QuietLogger())
	id := s.Create(newTestPuzzle(t, "CAT", "DOG"))
	return h, s, hub, id
}

func TestWebSocketHandler_Serve(t *testing.T) {
	h, _, hub, id := newWebSocketFixture(t)
	conn := testutil.NewMockWebSocketConn()

	done := make(chan struct{})
	go func() {
		h.Serve(id, conn)
		close(done)
	}()

	msgs := testutil.WaitForMessages(conn, 1, time.Second)
	require.Len(t, msgs, 1)
	assert.Equal(t, queue.TypePuzzleUpdate, msgs[0]["type"])
	assert.Equal(t, float64(1), msgs[0]["subscribers"])
	assert.Equal(t, 1, hub.Len(id))

	conn.Send(`{"type":"ping"}`)
	msgs = testutil.WaitForMessages(conn, 2, time.Second)
	require.Len(t, msgs, 2)
	assert.Equal(t, websocket.TypePong, msgs[1]["type"])

	conn.Send(`{"type":"refresh"}`)
	msgs = testutil.WaitForMessages(conn, 3, time.Second)
	require.Len(t, msgs, 3)
	assert.Equal(t, queue.TypePuzzleUpdate, msgs[2]["type"])

	conn.Send(`hello`)
	msgs = testutil.WaitForMessages(conn, 4, time.Second)
	require.Len(t, msgs, 4)
	assert.Equal(t, websocket.TypeError, msgs[3]["type"])

	require.NoError(t, conn.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after the connection closed")
	}
	assert.Equal(t, 0, hub.Len(id))
}

func TestWebSocketHandler_Serve_DeletedPuzzle(t *testing.T) {
	h, s, hub, id := newWebSocketFixture(t)
	s.Delete(id)
	conn := testutil.NewMockWebSocketConn()

	h.Serve(id, conn)

	deleted := conn.MessagesOfType(queue.TypePuzzleDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, id, deleted[0]["id"])
	assert.True(t, conn.Closed())
	assert.Equal(t, 0, hub.Len(id))
}

func TestWebSocketHandler_Connect_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{name: "異常系: puzzleパラメータなし", query: "", wantStatus: http.StatusBadRequest, wantCode: response.CodeInvalidRequest},
		{name: "異常系: 存在しないパズル", query: "?puzzle=missing", wantStatus: http.StatusNotFound, wantCode: response.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _, _ := newWebSocketFixture(t)
			tc := testutil.NewTestContext(http.MethodGet, "/ws"+tt.query, nil)

			require.NoError(t, h.Connect(tc.Context))
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			assert.Equal(t, tt.wantCode, tc.GetResponseBody()["code"])
		})
	}
}

func TestWebSocketHandler_Connect(t *testing.T) {
	h, s, hub, id := newWebSocketFixture(t)
	h.SetCheckOrigin(func(origin string) bool { return origin == "http://allowed.example.com" })

	e := echo.New()
	e.GET("/ws", h.Connect)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?puzzle=" + id

	t.Run("異常系: 許可されていないOrigin", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://evil.example.com"}}
		_, resp, err := gws.DefaultDialer.Dial(url, header)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("正常系: 更新を受信", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://allowed.example.com"}}
		client, _, err := gws.DefaultDialer.Dial(url, header)
		require.NoError(t, err)
		defer client.Close()

		var first map[string]interface{}
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, client.ReadJSON(&first))
		assert.Equal(t, queue.TypePuzzleUpdate, first["type"])

		require.NoError(t, testutil.WaitFor(time.Second, 5*time.Millisecond, func() bool {
			return hub.Len(id) == 1
		}))

		var view model.PuzzleView
		require.NoError(t, s.Update(id, func(p *puzzle.Puzzle) error {
			if err := p.AddWords([]string{"EMU"}, false, false); err != nil {
				return err
			}
			view = model.NewPuzzleView(id, p)
			return nil
		}))
		assert.Equal(t, 1, hub.BroadcastPuzzle(view))

		var update struct {
			Type   string           `json:"type"`
			Puzzle model.PuzzleView `json:"puzzle"`
		}
		require.NoError(t, client.ReadJSON(&update))
		assert.Equal(t, queue.TypePuzzleUpdate, update.Type)
		assert.Equal(t, []string{"CAT", "DOG", "EMU"}, update.Puzzle.Words)

		require.NoError(t, client.WriteJSON(websocket.Message{Type: websocket.TypePing}))
		var pong websocket.Message
		require.NoError(t, client.ReadJSON(&pong))
		assert.Equal(t, websocket.TypePong, pong.Type)

		hub.ClosePuzzle(id)
		var deleted map[string]interface{}
		require.NoError(t, client.ReadJSON(&deleted))
		assert.Equal(t, queue.TypePuzzleDeleted, deleted["type"])
	})
}
