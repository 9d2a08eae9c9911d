// Package storage provides S3 storage integration.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
)

// Key prefixes
const (
	MaskPrefix   = "masks/"
	ExportPrefix = "exports/"
)

// S3ClientInterface defines the interface for S3 operations.
type S3ClientInterface interface {
	GetObject(key string) ([]byte, error)
	PutObject(key string, data []byte) error
	ListObjects(prefix string) ([]string, error)
}

// S3Client wraps S3 operations for mask images and puzzle exports.
type S3Client struct {
	client        S3ClientInterface
	bucket        string
	cloudfrontURL string
}

// NewS3Client creates a new S3Client.
func NewS3Client(client S3ClientInterface, bucket string, cloudfrontURL string) *S3Client {
	return &S3Client{
		client:        client,
		bucket:        bucket,
		cloudfrontURL: strings.TrimSuffix(cloudfrontURL, "/"),
	}
}

// maskKey maps a mask image reference to its object key. References may
// be given with or without the masks/ prefix.
func maskKey(ref string) string {
	ref = strings.TrimPrefix(ref, "/")
	if strings.HasPrefix(ref, MaskPrefix) {
		return ref
	}
	return MaskPrefix + ref
}

// Open loads and decodes a mask image. It makes S3Client usable as a mask
// image source.
func (c *S3Client) Open(ref string) (image.Image, error) {
	key := maskKey(ref)
	data, err := c.client.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get mask image %s: %w", key, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask image %s: %w", key, err)
	}

	return img, nil
}

// ListMaskImages returns the names of the mask images available in storage,
// sorted.
func (c *S3Client) ListMaskImages() ([]string, error) {
	keys, err := c.client.ListObjects(MaskPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list mask images: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		// "masks/heart.png" -> "heart.png"
		name := strings.TrimPrefix(key, MaskPrefix)
		switch strings.ToLower(path.Ext(name)) {
		case ".png", ".jpg", ".jpeg", ".bmp":
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

// MaskImageURL returns the CloudFront URL for a mask image.
func (c *S3Client) MaskImageURL(ref string) string {
	return fmt.Sprintf("%s/%s", c.cloudfrontURL, maskKey(ref))
}

// UploadMaskImage validates that data is a decodable image, stores it under
// masks/ and returns its reference.
func (c *S3Client) UploadMaskImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode mask image: %w", err)
	}
	if format == "jpeg" {
		format = "jpg"
	}

	name := uuid.New().String() + "." + format
	if err := c.client.PutObject(MaskPrefix+name, data); err != nil {
		return "", fmt.Errorf("failed to upload mask image: %w", err)
	}

	return name, nil
}

// ExportPuzzle uploads v as JSON and returns its CloudFront URL.
func (c *S3Client) ExportPuzzle(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode puzzle export: %w", err)
	}

	// Generate unique filename
	key := ExportPrefix + uuid.New().String() + ".json"

	if err := c.client.PutObject(key, data); err != nil {
		return "", fmt.Errorf("failed to upload puzzle export: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.cloudfrontURL, key)
	return url, nil
}
