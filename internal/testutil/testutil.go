// Package testutil provides common test utilities, mocks, and helpers for testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// QuietLogger returns a logger that discards everything.
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// MockWebSocketConn is a mock implementation of WebSocket connection for testing.
type MockWebSocketConn struct {
	mu          sync.Mutex
	Messages    [][]byte
	LastMessage []byte
	IsClosed    bool
	ReadChan    chan []byte
	CloseChan   chan struct{}
	WriteErr    error
	CloseErr    error
}

// NewMockWebSocketConn creates a new MockWebSocketConn.
func NewMockWebSocketConn() *MockWebSocketConn {
	return &MockWebSocketConn{
		Messages:  make([][]byte, 0),
		ReadChan:  make(chan []byte, 100),
		CloseChan: make(chan struct{}),
	}
}

// WriteMessage mocks writing a message to WebSocket.
func (m *MockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.Messages = append(m.Messages, data)
	m.LastMessage = data
	return nil
}

// WriteJSON mocks writing JSON to WebSocket.
func (m *MockWebSocketConn) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.WriteMessage(1, data)
}

// ReadMessage returns the next message queued with Send, or io.EOF once the
// connection is closed.
func (m *MockWebSocketConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.ReadChan:
		return 1, msg, nil
	case <-m.CloseChan:
		return 0, nil, io.EOF
	}
}

// Send queues a client message for ReadMessage.
func (m *MockWebSocketConn) Send(msg string) {
	m.ReadChan <- []byte(msg)
}

// Close mocks closing the WebSocket connection.
func (m *MockWebSocketConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsClosed {
		return nil
	}

	m.IsClosed = true
	close(m.CloseChan)

	return m.CloseErr
}

// Closed reports whether Close has been called.
func (m *MockWebSocketConn) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.IsClosed
}

// GetMessages returns all messages sent through this connection.
func (m *MockWebSocketConn) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.Messages...)
}

// GetLastMessageAsMap returns the last message as a map.
func (m *MockWebSocketConn) GetLastMessageAsMap() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LastMessage == nil {
		return nil
	}

	var result map[string]interface{}
	_ = json.Unmarshal(m.LastMessage, &result)
	return result
}

// MessagesOfType returns the decoded messages whose "type" is msgType.
func (m *MockWebSocketConn) MessagesOfType(msgType string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, raw := range m.GetMessages() {
		var msg map[string]interface{}
		if json.Unmarshal(raw, &msg) == nil && msg["type"] == msgType {
			out = append(out, msg)
		}
	}
	return out
}

// MockS3Client is an in-memory S3 bucket.
type MockS3Client struct {
	mu           sync.Mutex
	Objects      map[string][]byte
	UploadedData map[string][]byte
	GetErr       error
	PutErr       error
	ListErr      error
}

// NewMockS3Client creates a new MockS3Client.
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Objects:      make(map[string][]byte),
		UploadedData: make(map[string][]byte),
	}
}

// GetObject returns an object stored in Objects or uploaded earlier.
func (m *MockS3Client) GetObject(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	if data, ok := m.Objects[key]; ok {
		return data, nil
	}
	if data, ok := m.UploadedData[key]; ok {
		return data, nil
	}
	return nil, &ObjectNotFoundError{Key: key}
}

// PutObject records an upload in UploadedData.
func (m *MockS3Client) PutObject(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return m.PutErr
	}

	m.UploadedData[key] = data
	return nil
}

// ListObjects returns the sorted keys of Objects under prefix.
func (m *MockS3Client) ListObjects(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var keys []string
	for key := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Uploaded returns the keys uploaded under prefix.
func (m *MockS3Client) Uploaded(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.UploadedData {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ObjectNotFoundError is returned when an S3 object is not found.
type ObjectNotFoundError struct {
	Key string
}

func (e *ObjectNotFoundError) Error() string {
	return "object not found: " + e.Key
}

// MockBedrockClient is a mock implementation of Bedrock client for testing.
type MockBedrockClient struct {
	mu          sync.Mutex
	Response    string
	Err         error
	LastPrompt  string
	LastModelID string
	Calls       int
}

// NewMockBedrockClient creates a new MockBedrockClient.
func NewMockBedrockClient() *MockBedrockClient {
	return &MockBedrockClient{}
}

// NewMockBedrockClientWithWords returns a client answering with a Claude
// style response listing words one per line.
func NewMockBedrockClientWithWords(words ...string) *MockBedrockClient {
	text, _ := json.Marshal(strings.Join(words, "\n"))
	return &MockBedrockClient{
		Response: fmt.Sprintf(`{"content":[{"type":"text","text":%s}]}`, text),
	}
}

// InvokeModel mocks Bedrock InvokeModel.
func (m *MockBedrockClient) InvokeModel(modelID string, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastModelID = modelID
	m.LastPrompt = prompt

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// TestContext wraps Echo context for testing.
type TestContext struct {
	Echo     *echo.Echo
	Context  echo.Context
	Request  *http.Request
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a new test context for Echo handlers.
func NewTestContext(method, path string, body io.Reader) *TestContext {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return &TestContext{
		Echo:     e,
		Context:  c,
		Request:  req,
		Recorder: rec,
	}
}

// NewTestContextWithJSON creates a test context with JSON body.
func NewTestContextWithJSON(method, path string, body interface{}) *TestContext {
	jsonBody, _ := json.Marshal(body)
	tc := NewTestContext(method, path, bytes.NewReader(jsonBody))
	tc.Request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return tc
}

// SetParams sets the route path parameters, e.g. SetParams("id", "abc").
func (tc *TestContext) SetParams(nameValues ...string) {
	var names, values []string
	for i := 0; i+1 < len(nameValues); i += 2 {
		names = append(names, nameValues[i])
		values = append(values, nameValues[i+1])
	}
	tc.Context.SetParamNames(names...)
	tc.Context.SetParamValues(values...)
}

// GetResponseBody returns the response body as a map.
func (tc *TestContext) GetResponseBody() map[string]interface{} {
	var result map[string]interface{}
	_ = json.Unmarshal(tc.Recorder.Body.Bytes(), &result)
	return result
}

// DecodeResponse decodes the response body into v.
func (tc *TestContext) DecodeResponse(v interface{}) error {
	return json.Unmarshal(tc.Recorder.Body.Bytes(), v)
}

// GetResponseCode returns the HTTP response status code.
func (tc *TestContext) GetResponseCode() int {
	return tc.Recorder.Code
}

// WaitFor waits for a condition to be true within timeout.
func WaitFor(timeout, interval time.Duration, condition func() bool) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return nil
		}
		time.Sleep(interval)
	}
	return &TimeoutError{Timeout: timeout}
}

// TimeoutError is returned when WaitFor times out.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for condition after %s", e.Timeout)
}

// WaitForMessages waits for at least n messages and returns them decoded.
func WaitForMessages(conn *MockWebSocketConn, n int, timeout time.Duration) []map[string]interface{} {
	var msgs [][]byte
	err := WaitFor(timeout, 5*time.Millisecond, func() bool {
		msgs = conn.GetMessages()
		return len(msgs) >= n
	})
	if err != nil {
		return nil
	}

	result := make([]map[string]interface{}, len(msgs))
	for i, raw := range msgs {
		_ = json.Unmarshal(raw, &result[i])
	}
	return result
}

// CreateTestImage creates a gradient image with specified dimensions.
func CreateTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}

	return img
}

// CreateTestPNG encodes CreateTestImage as PNG.
func CreateTestPNG(width, height int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, CreateTestImage(width, height))
	return buf.Bytes()
}

// CreateTestJPEG encodes CreateTestImage as JPEG.
func CreateTestJPEG(width, height int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, CreateTestImage(width, height), &jpeg.Options{Quality: 80})
	return buf.Bytes()
}

// CreateSilhouette returns a black on white image. dark reports which
// pixels are black.
func CreateSilhouette(width, height int, dark func(x, y int) bool) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dark(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// CreateSilhouettePNG encodes CreateSilhouette as PNG.
func CreateSilhouettePNG(width, height int, dark func(x, y int) bool) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, CreateSilhouette(width, height, dark))
	return buf.Bytes()
}
