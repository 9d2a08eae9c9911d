package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/response"
	"github.com/kyiku/wordsearch-back/internal/shapes"
)

// maxImageBytes caps uploaded mask images.
const maxImageBytes = 5 << 20

// MaskLibraryInterface defines the interface for stored mask images.
type MaskLibraryInterface interface {
	ListMaskImages() ([]string, error)
	MaskImageURL(ref string) string
	UploadMaskImage(data []byte) (string, error)
}

// MaskImage is a stored image that can be used as an image mask.
type MaskImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ShapesHandler lists the available mask shapes.
type ShapesHandler struct {
	library MaskLibraryInterface
	log     logrus.FieldLogger
}

// NewShapesHandler creates a new ShapesHandler.
func NewShapesHandler() *ShapesHandler {
	return &ShapesHandler{log: logrus.StandardLogger()}
}

// SetLibrary enables stored mask images.
func (h *ShapesHandler) SetLibrary(library MaskLibraryInterface) {
	h.library = library
}

// List returns the preset shapes and, when storage is configured, the
// stored mask images.
func (h *ShapesHandler) List(c echo.Context) error {
	images := []MaskImage{}
	if h.library != nil {
		names, err := h.library.ListMaskImages()
		if err != nil {
			h.log.WithError(err).Warn("failed to list mask images")
		}
		for _, name := range names {
			images = append(images, MaskImage{Name: name, URL: h.library.MaskImageURL(name)})
		}
	}

	return response.Success(c, map[string]interface{}{
		"shapes": shapes.Names(),
		"images": images,
	})
}

// Upload stores a mask image sent as the multipart field "image".
func (h *ShapesHandler) Upload(c echo.Context) error {
	if h.library == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":   true,
			"message": "S3 is not configured",
		})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "画像ファイルが必要です")
	}
	if fh.Size > maxImageBytes {
		return badRequest(c, "画像ファイルが大きすぎます")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "画像ファイルを開けません")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return badRequest(c, "画像ファイルを読み込めません")
	}

	name, err := h.library.UploadMaskImage(data)
	if err != nil {
		h.log.WithError(err).Info("mask image upload rejected")
		return badRequest(c, "画像を保存できませんでした")
	}
	return response.SuccessWithStatus(c, http.StatusCreated, map[string]interface{}{
		"image": MaskImage{Name: name, URL: h.library.MaskImageURL(name)},
	})
}
