package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/testutil"
)

var _ mask.ImageSource = (*S3Client)(nil)

func TestS3Client_Open(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		setupMock  func(*testutil.MockS3Client)
		wantErr    bool
		wantWidth  int
		wantHeight int
	}{
		{
			name: "正常系: PNG画像取得",
			ref:  "heart.png",
			setupMock: func(m *testutil.MockS3Client) {
				m.Objects["masks/heart.png"] = testutil.CreateTestPNG(64, 48)
			},
			wantWidth:  64,
			wantHeight: 48,
		},
		{
			name: "正常系: プレフィックス付きの参照",
			ref:  "masks/photo.jpg",
			setupMock: func(m *testutil.MockS3Client) {
				m.Objects["masks/photo.jpg"] = testutil.CreateTestJPEG(32, 32)
			},
			wantWidth:  32,
			wantHeight: 32,
		},
		{
			name:      "異常系: 画像が存在しない",
			ref:       "missing.png",
			setupMock: func(m *testutil.MockS3Client) {},
			wantErr:   true,
		},
		{
			name: "異常系: 画像として読めない",
			ref:  "broken.png",
			setupMock: func(m *testutil.MockS3Client) {
				m.Objects["masks/broken.png"] = []byte("not an image")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockS3 := testutil.NewMockS3Client()
			tt.setupMock(mockS3)

			client := NewS3Client(mockS3, "test-bucket", "https://test.cloudfront.net")

			img, err := client.Open(tt.ref)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, img.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, img.Bounds().Dy())
		})
	}
}

func TestS3Client_ListMaskImages(t *testing.T) {
	mockS3 := testutil.NewMockS3Client()
	mockS3.Objects = map[string][]byte{
		"masks/star.png":      {},
		"masks/heart.PNG":     {},
		"masks/readme.txt":    {},
		"exports/abc.json":    {},
		"masks/photo.jpg":     {},
		"masks/legacy.bmp":    {},
		"masks/nested/x.jpeg": {},
	}

	client := NewS3Client(mockS3, "test-bucket", "https://test.cloudfront.net")
	names, err := client.ListMaskImages()

	require.NoError(t, err)
	assert.Equal(t, []string{"heart.PNG", "legacy.bmp", "nested/x.jpeg", "photo.jpg", "star.png"}, names)

	mockS3.ListErr = errors.New("list failed")
	_, err = client.ListMaskImages()
	assert.Error(t, err)
}

func TestS3Client_MaskImageURL(t *testing.T) {
	client := NewS3Client(testutil.NewMockS3Client(), "test-bucket", "https://test.cloudfront.net/")

	assert.Equal(t, "https://test.cloudfront.net/masks/heart.png", client.MaskImageURL("heart.png"))
	assert.Equal(t, "https://test.cloudfront.net/masks/heart.png", client.MaskImageURL("masks/heart.png"))
}

func TestS3Client_UploadMaskImage(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		putErr     error
		wantSuffix string
		wantErr    bool
	}{
		{name: "正常系: PNG", data: testutil.CreateTestPNG(10, 10), wantSuffix: ".png"},
		{name: "正常系: JPEG", data: testutil.CreateTestJPEG(10, 10), wantSuffix: ".jpg"},
		{name: "異常系: 画像でない", data: []byte("hello"), wantErr: true},
		{name: "異常系: アップロード失敗", data: testutil.CreateTestPNG(10, 10), putErr: errors.New("S3 error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockS3 := testutil.NewMockS3Client()
			mockS3.PutErr = tt.putErr

			client := NewS3Client(mockS3, "test-bucket", "https://test.cloudfront.net")
			name, err := client.UploadMaskImage(tt.data)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(name, tt.wantSuffix))
			assert.Equal(t, tt.data, mockS3.UploadedData["masks/"+name])
		})
	}
}

func TestS3Client_ExportPuzzle(t *testing.T) {
	tests := []struct {
		name    string
		putErr  error
		wantErr bool
	}{
		{name: "正常系: エクスポート成功"},
		{name: "異常系: アップロード失敗", putErr: errors.New("S3 error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockS3 := testutil.NewMockS3Client()
			mockS3.PutErr = tt.putErr

			client := NewS3Client(mockS3, "test-bucket", "https://test.cloudfront.net")
			url, err := client.ExportPuzzle(map[string]any{"words": []string{"CAT"}})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, "https://test.cloudfront.net/exports/"))
			assert.True(t, strings.HasSuffix(url, ".json"))

			key := strings.TrimPrefix(url, "https://test.cloudfront.net/")
			var got map[string]any
			require.NoError(t, json.Unmarshal(mockS3.UploadedData[key], &got))
			assert.Equal(t, []any{"CAT"}, got["words"])
		})
	}

	t.Run("異常系: JSONにできない値", func(t *testing.T) {
		client := NewS3Client(testutil.NewMockS3Client(), "test-bucket", "https://test.cloudfront.net")
		_, err := client.ExportPuzzle(make(chan int))
		assert.Error(t, err)
	})
}

func TestS3Client_ImageMask(t *testing.T) {
	m := testutil.NewMockS3Client()
	m.Objects["masks/half.png"] = testutil.CreateSilhouettePNG(10, 10, func(x, y int) bool { return x < 5 })
	client := NewS3Client(m, "test-bucket", "https://cdn.example.com")

	im, err := mask.NewImage(mask.ImageParams{Ref: "half.png", Source: client})
	require.NoError(t, err)

	ag, err := im.Generate(10)
	require.NoError(t, err)
	assert.Equal(t, 50, ag.Count())
}
