package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/wordsearch-back/internal/model"
	"github.com/kyiku/wordsearch-back/internal/placement"
	"github.com/kyiku/wordsearch-back/internal/puzzle"
	"github.com/kyiku/wordsearch-back/internal/queue"
	"github.com/kyiku/wordsearch-back/internal/response"
	"github.com/kyiku/wordsearch-back/internal/storage"
	"github.com/kyiku/wordsearch-back/internal/store"
	"github.com/kyiku/wordsearch-back/internal/testutil"
	"github.com/kyiku/wordsearch-back/internal/word"
)

func newTestPuzzle(t *testing.T, words ...string) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.New(puzzle.Options{
		Words:     words,
		Size:      10,
		Placement: placement.Options{Seed: 11},
		Logger:    testutil.QuietLogger(),
	})
	require.NoError(t, err)
	return p
}

type puzzleFixture struct {
	store   *store.PuzzleStore
	hub     *queue.Hub
	handler *PuzzleHandler
	id      string
	watcher *testutil.MockWebSocketConn
}

func newPuzzleFixture(t *testing.T) *puzzleFixture {
	t.Helper()
	f := &puzzleFixture{
		store:   store.NewPuzzleStore(),
		hub:     queue.NewHub(),
		watcher: testutil.NewMockWebSocketConn(),
	}
	f.handler = NewPuzzleHandler(f.store, f.hub)
	f.handler.SetLogger(testutil.QuietLogger())
	f.id = f.store.Create(newTestPuzzle(t, "CAT", "DOG"))
	f.hub.Subscribe(f.id, &queue.Subscriber{ID: "watcher", Conn: f.watcher})
	return f
}

// call runs handler fn with the :id parameter set and returns the context.
func (f *puzzleFixture) call(t *testing.T, fn func(*testutil.TestContext) error, method string, body interface{}, params ...string) *testutil.TestContext {
	t.Helper()
	var tc *testutil.TestContext
	if body != nil {
		tc = testutil.NewTestContextWithJSON(method, "/api/puzzles/"+f.id, body)
	} else {
		tc = testutil.NewTestContext(method, "/api/puzzles/"+f.id, nil)
	}
	tc.SetParams(append([]string{"id", f.id}, params...)...)
	require.NoError(t, fn(tc))
	return tc
}

func decodeView(t *testing.T, tc *testutil.TestContext) model.PuzzleView {
	t.Helper()
	var resp struct {
		Puzzle model.PuzzleView `json:"puzzle"`
	}
	require.NoError(t, tc.DecodeResponse(&resp))
	return resp.Puzzle
}

func TestPuzzleHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantWords  []string
	}{
		{
			name:       "正常系: 定義からパズルを作成",
			body:       `{"words":["cat","dog","bird"],"size":10,"seed":3}`,
			wantStatus: http.StatusCreated,
			wantWords:  []string{"BIRD", "CAT", "DOG"},
		},
		{
			name:       "正常系: マスク付き",
			body:       `{"words":["cat","dog"],"size":12,"seed":3,"masks":[{"shape":"circle"}]}`,
			wantStatus: http.StatusCreated,
			wantWords:  []string{"CAT", "DOG"},
		},
		{
			name:       "異常系: 不正なJSON",
			body:       `{"words":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "異常系: 未知のフィールド",
			body:       `{"words":["cat"],"colour":"red"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "異常系: 単語なし",
			body:       `{"size":10}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "異常系: サイズ範囲外",
			body:       `{"words":["cat"],"size":99}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidSize,
		},
		{
			name:       "異常系: マスクに対してサイズ不足",
			body:       `{"words":["cat"],"size":8,"masks":[{"shape":"star8"}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidMask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewPuzzleStore()
			h := NewPuzzleHandler(s, queue.NewHub())
			h.SetLogger(testutil.QuietLogger())

			tc := testutil.NewTestContext(http.MethodPost, "/api/puzzles", strings.NewReader(tt.body))
			tc.Request.Header.Set("Content-Type", "application/json")

			require.NoError(t, h.Create(tc.Context))
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, tc.GetResponseBody()["code"])
				assert.Equal(t, 0, s.Count())
				return
			}

			view := decodeView(t, tc)
			assert.NotEmpty(t, view.ID)
			assert.Equal(t, tt.wantWords, view.Words)
			assert.Equal(t, 1, s.Count())
			assert.NoError(t, s.View(view.ID, func(*puzzle.Puzzle) error { return nil }))
		})
	}
}

func TestPuzzleHandler_Get(t *testing.T) {
	f := newPuzzleFixture(t)

	tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Get(tc.Context) }, http.MethodGet, nil)
	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	view := decodeView(t, tc)
	assert.Equal(t, f.id, view.ID)
	assert.Equal(t, []string{"CAT", "DOG"}, view.Words)

	f.id = "missing"
	tc = f.call(t, func(tc *testutil.TestContext) error { return f.handler.Get(tc.Context) }, http.MethodGet, nil)
	assert.Equal(t, http.StatusNotFound, tc.GetResponseCode())
	assert.Equal(t, response.CodeNotFound, tc.GetResponseBody()["code"])
}

func TestPuzzleHandler_Words(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantWords  []string
	}{
		{
			name:       "正常系: 単語を追加",
			body:       map[string]interface{}{"action": "add", "words": "emu, owl\nbat"},
			wantStatus: http.StatusOK,
			wantWords:  []string{"BAT", "CAT", "DOG", "EMU", "OWL"},
		},
		{
			name:       "正常系: actionの省略は追加",
			body:       map[string]interface{}{"words": "emu"},
			wantStatus: http.StatusOK,
			wantWords:  []string{"CAT", "DOG", "EMU"},
		},
		{
			name:       "正常系: 単語を削除",
			body:       map[string]interface{}{"action": "remove", "words": "cat"},
			wantStatus: http.StatusOK,
			wantWords:  []string{"DOG"},
		},
		{
			name:       "正常系: 単語を置換",
			body:       map[string]interface{}{"action": "replace", "words": "fox hen"},
			wantStatus: http.StatusOK,
			wantWords:  []string{"FOX", "HEN"},
		},
		{
			name:       "異常系: 不明なaction",
			body:       map[string]interface{}{"action": "shuffle", "words": "emu"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 単語が空",
			body:       map[string]interface{}{"action": "add", "words": " , "},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPuzzleFixture(t)

			tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Words(tc.Context) }, http.MethodPost, tt.body)

			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, f.watcher.GetMessages())
				return
			}
			assert.Equal(t, tt.wantWords, decodeView(t, tc).Words)

			updates := f.watcher.MessagesOfType(queue.TypePuzzleUpdate)
			require.Len(t, updates, 1)
			pushed := updates[0]["puzzle"].(map[string]interface{})
			assert.Len(t, pushed["words"], len(tt.wantWords))
		})
	}
}

func TestPuzzleHandler_Size(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantStatus int
		wantSize   int
	}{
		{name: "正常系: サイズ変更", size: 12, wantStatus: http.StatusOK, wantSize: 12},
		{name: "正常系: 0で自動計算", size: 0, wantStatus: http.StatusOK, wantSize: 14},
		{name: "異常系: 小さすぎる", size: 3, wantStatus: http.StatusBadRequest},
		{name: "異常系: 大きすぎる", size: 51, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPuzzleFixture(t)

			tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Size(tc.Context) },
				http.MethodPost, map[string]int{"size": tt.size})

			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus == http.StatusOK {
				view := decodeView(t, tc)
				assert.Equal(t, tt.wantSize, view.Size)
				assert.Len(t, view.Puzzle, tt.wantSize)
			} else {
				assert.Equal(t, response.CodeInvalidSize, tc.GetResponseBody()["code"])
			}
		})
	}
}

func TestPuzzleHandler_Level(t *testing.T) {
	level1, err := word.Level(1)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLevel  []string
		wantSecret []string
	}{
		{name: "正常系: レベル番号", body: `{"level":1}`, wantStatus: http.StatusOK, wantLevel: word.Names(level1), wantSecret: []string{}},
		{name: "正常系: 方向リスト", body: `{"level":["N","E"],"secret_level":"W"}`, wantStatus: http.StatusOK, wantLevel: []string{"N", "E"}, wantSecret: []string{"W"}},
		{name: "異常系: 不正な方向", body: `{"level":"NORTH"}`, wantStatus: http.StatusBadRequest},
		{name: "異常系: 空の方向", body: `{"level":""}`, wantStatus: http.StatusBadRequest},
		{name: "異常系: フィールドなし", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPuzzleFixture(t)

			tc := testutil.NewTestContext(http.MethodPost, "/api/puzzles/"+f.id+"/level", strings.NewReader(tt.body))
			tc.Request.Header.Set("Content-Type", "application/json")
			tc.SetParams("id", f.id)

			require.NoError(t, f.handler.Level(tc.Context))
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, response.CodeInvalidRequest, tc.GetResponseBody()["code"])
				return
			}
			view := decodeView(t, tc)
			assert.ElementsMatch(t, tt.wantLevel, view.Level)
			assert.ElementsMatch(t, tt.wantSecret, view.SecretLevel)
		})
	}
}

func TestPuzzleHandler_Masks(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
		wantMasks  []string
	}{
		{
			name:       "正常系: プリセット形状",
			body:       map[string]interface{}{"masks": []map[string]interface{}{{"shape": "circle"}}},
			wantStatus: http.StatusOK,
			wantMasks:  []string{"circle"},
		},
		{
			name: "正常系: 長方形を2つ",
			body: map[string]interface{}{"masks": []map[string]interface{}{
				{"type": "rectangle", "width": 6, "height": 6},
				{"type": "rectangle", "width": 4, "height": 4, "origin": []int{6, 6}, "method": "additive"},
			}},
			wantStatus: http.StatusOK,
			wantMasks:  []string{"rectangle", "rectangle"},
		},
		{
			name:       "異常系: マスクなし",
			body:       map[string]interface{}{"masks": []interface{}{}},
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "異常系: 不明な種類",
			body:       map[string]interface{}{"masks": []map[string]interface{}{{"type": "blob"}}},
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "異常系: サイズ不足",
			body:       map[string]interface{}{"masks": []map[string]interface{}{{"shape": "star8"}}},
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidMask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPuzzleFixture(t)

			tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Masks(tc.Context) }, http.MethodPost, tt.body)

			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, tc.GetResponseBody()["code"])
				return
			}
			view := decodeView(t, tc)
			assert.True(t, view.Masked)
			assert.Equal(t, tt.wantMasks, view.Masks)
		})
	}
}

func TestPuzzleHandler_MaskOp(t *testing.T) {
	f := newPuzzleFixture(t)
	f.call(t, func(tc *testutil.TestContext) error { return f.handler.Masks(tc.Context) }, http.MethodPost,
		map[string]interface{}{"masks": []map[string]interface{}{{"type": "rectangle", "width": 10, "height": 5}}})

	var activeBefore int
	require.NoError(t, f.store.View(f.id, func(p *puzzle.Puzzle) error {
		activeBefore = p.Activity().Count()
		return nil
	}))
	require.Equal(t, 50, activeBefore)

	tests := []struct {
		op         string
		wantStatus int
		wantActive int
	}{
		{op: "transpose", wantStatus: http.StatusOK, wantActive: 50},
		{op: "flip-horizontal", wantStatus: http.StatusOK, wantActive: 50},
		{op: "flip-vertical", wantStatus: http.StatusOK, wantActive: 50},
		{op: "invert", wantStatus: http.StatusOK, wantActive: 50},
		{op: "rotate", wantStatus: http.StatusNotFound},
		{op: "clear", wantStatus: http.StatusOK, wantActive: 100},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.MaskOp(tc.Context) }, http.MethodPost, nil, "op", tt.op)

			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus != http.StatusOK {
				return
			}
			require.NoError(t, f.store.View(f.id, func(p *puzzle.Puzzle) error {
				assert.Equal(t, tt.wantActive, p.Activity().Count())
				return nil
			}))
		})
	}
}

func TestPuzzleHandler_Generate(t *testing.T) {
	f := newPuzzleFixture(t)

	tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Generate(tc.Context) },
		http.MethodPost, map[string]bool{"reset_size": false})

	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	assert.Equal(t, []string{"CAT", "DOG"}, decodeView(t, tc).Words)
	assert.Len(t, f.watcher.MessagesOfType(queue.TypePuzzleUpdate), 1)
}

func TestPuzzleHandler_Export(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*PuzzleHandler, *testutil.MockS3Client)
		wantStatus int
		wantUpload bool
	}{
		{
			name:       "異常系: S3未設定",
			setup:      func(*PuzzleHandler, *testutil.MockS3Client) {},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "正常系: エクスポート",
			setup: func(h *PuzzleHandler, m *testutil.MockS3Client) {
				h.SetExporter(storage.NewS3Client(m, "bucket", "https://cdn.example.com"))
			},
			wantStatus: http.StatusOK,
			wantUpload: true,
		},
		{
			name: "異常系: アップロード失敗",
			setup: func(h *PuzzleHandler, m *testutil.MockS3Client) {
				m.PutErr = errors.New("S3 error")
				h.SetExporter(storage.NewS3Client(m, "bucket", "https://cdn.example.com"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPuzzleFixture(t)
			mockS3 := testutil.NewMockS3Client()
			tt.setup(f.handler, mockS3)

			tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Export(tc.Context) }, http.MethodPost, nil)

			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if !tt.wantUpload {
				assert.Empty(t, mockS3.Uploaded(storage.ExportPrefix))
				return
			}
			keys := mockS3.Uploaded(storage.ExportPrefix)
			require.Len(t, keys, 1)
			assert.Equal(t, "https://cdn.example.com/"+keys[0], tc.GetResponseBody()["url"])
			assert.Contains(t, string(mockS3.UploadedData[keys[0]]), `"CAT"`)
		})
	}
}

func TestPuzzleHandler_Delete(t *testing.T) {
	f := newPuzzleFixture(t)

	tc := f.call(t, func(tc *testutil.TestContext) error { return f.handler.Delete(tc.Context) }, http.MethodDelete, nil)

	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	assert.Equal(t, 0, f.store.Count())
	assert.True(t, f.watcher.Closed())
	assert.Len(t, f.watcher.MessagesOfType(queue.TypePuzzleDeleted), 1)

	tc = f.call(t, func(tc *testutil.TestContext) error { return f.handler.Delete(tc.Context) }, http.MethodDelete, nil)
	assert.Equal(t, http.StatusNotFound, tc.GetResponseCode())
}
