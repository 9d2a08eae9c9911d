package mask

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/kyiku/wordsearch-back/internal/grid"
)

// DefaultThreshold is the luminance cutoff separating dark pixels (active)
// from light ones.
const DefaultThreshold = 200

// ImageSource loads raster images by reference.
type ImageSource interface {
	Open(ref string) (image.Image, error)
}

// FileSource loads BMP, JPEG and PNG images from the local filesystem.
type FileSource struct{}

// Open decodes the image at path.
func (FileSource) Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}
	return img, nil
}

// ImageParams describes an image derived mask. Image takes precedence over
// loading Ref from Source; a nil Source reads from the filesystem.
type ImageParams struct {
	Ref       string
	Source    ImageSource
	Image     image.Image
	Threshold int
}

// NewImage creates an image derived mask. It recomputes its points whenever
// the puzzle size changes unless marked static.
func NewImage(p ImageParams) (*Mask, error) {
	if p.Image == nil && p.Ref == "" {
		return nil, &ParamError{Kind: KindImage, Reason: "image or reference required"}
	}
	if p.Threshold < 0 || p.Threshold > 255 {
		return nil, &ParamError{Kind: KindImage, Reason: "threshold must be between 0 and 255"}
	}
	return &Mask{
		Kind:   KindImage,
		Method: Intersection,
		Image:  p,
	}, nil
}

func (m *Mask) imagePoints(size int) ([]grid.Point, error) {
	if m.img == nil {
		img := m.Image.Image
		if img == nil {
			src := m.Image.Source
			if src == nil {
				src = FileSource{}
			}
			var err error
			img, err = src.Open(m.Image.Ref)
			if err != nil {
				return nil, err
			}
		}
		m.img = img
	}

	threshold := m.Image.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	pts := ProcessImage(m.img, size, threshold)
	if len(pts) == 0 {
		return nil, &ContrastError{Ref: m.Image.Ref, Threshold: threshold}
	}
	return pts, nil
}

// ProcessImage converts img into the (x, y) points of its dark pixels after
// thresholding, cropping to content and shrinking to fit size x size with
// nearest neighbour sampling. Aspect ratio is preserved and images already
// within size are not enlarged.
func ProcessImage(img image.Image, size, threshold int) []grid.Point {
	b := img.Bounds()
	bw := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	minX, minY := b.Dx(), b.Dy()
	maxX, maxY := -1, -1
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := uint8(255)
			if luma(img.At(b.Min.X+x, b.Min.Y+y)) <= threshold {
				v = 0
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)
			}
			bw.SetGray(x, y, color.Gray{Y: v})
		}
	}
	if maxX < 0 {
		return nil
	}

	crop := image.Rect(minX, minY, maxX+1, maxY+1)
	w, h := thumbnailSize(crop.Dx(), crop.Dy(), size)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), bw, crop, draw.Src, nil)

	pts := make([]grid.Point, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if int(dst.GrayAt(x, y).Y) <= threshold {
				pts = append(pts, grid.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// luma returns the ITU-R 601-2 luminance of c, ignoring alpha.
func luma(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return (int(n.R)*299 + int(n.G)*587 + int(n.B)*114) / 1000
}

func thumbnailSize(w, h, size int) (int, int) {
	if w <= size && h <= size {
		return w, h
	}
	if w >= h {
		nh := int(float64(h)*float64(size)/float64(w) + 0.5)
		return size, max(1, nh)
	}
	nw := int(float64(w)*float64(size)/float64(h) + 0.5)
	return max(1, nw), size
}
