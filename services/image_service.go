package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/foodgram-api/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const recipeImageDir = "recipes"

// maxImageBytes bounds a decoded recipe image
const maxImageBytes = 10 << 20

// DecodedImage is the payload of a data URI together with its sniffed type
type DecodedImage struct {
	Data      []byte
	MIME      string
	Extension string
}

// ImageService turns base64 data URIs into files under the media root
type ImageService struct {
	mediaRoot string
	mediaURL  string
}

// NewImageService creates a new image service instance
func NewImageService(mediaRoot, mediaURL string) *ImageService {
	return &ImageService{
		mediaRoot: mediaRoot,
		mediaURL:  "/" + strings.Trim(mediaURL, "/"),
	}
}

// rasterTypes are the image formats accepted for upload. Vector and markup
// formats such as SVG are served from our origin and may carry scripts.
var rasterTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Decode parses data:image/<ext>;base64,<payload>. The declared type is not
// trusted; the bytes themselves must sniff as an image.
func (s *ImageService) Decode(dataURI string) (DecodedImage, error) {
	header, payload, ok := strings.Cut(dataURI, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return DecodedImage{}, fmt.Errorf("%w: not a base64 image data URI", ErrInvalidImage)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return DecodedImage{}, fmt.Errorf("%w: image is too large", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return DecodedImage{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return DecodedImage{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	mtype := mimetype.Detect(data)
	if !rasterTypes[mtype.String()] {
		return DecodedImage{}, fmt.Errorf("%w: content is %s", ErrInvalidImage, mtype.String())
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = "." + strings.TrimPrefix(header, "data:image/")
	}
	return DecodedImage{Data: data, MIME: mtype.String(), Extension: ext}, nil
}

// Store decodes the data URI and writes it under <media_root>/recipes.
// It returns the public path of the stored file.
func (s *ImageService) Store(dataURI string) (string, error) {
	img, err := s.Decode(dataURI)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.mediaRoot, recipeImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + img.Extension
	if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(s.mediaURL, recipeImageDir, name), nil
}

// Remove deletes a stored image by its public path. Paths outside the
// recipe image directory are ignored.
func (s *ImageService) Remove(publicPath string) {
	prefix := path.Join(s.mediaURL, recipeImageDir) + "/"
	if !strings.HasPrefix(publicPath, prefix) {
		return
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" || strings.Contains(name, "..") {
		return
	}

	err := os.Remove(filepath.Join(s.mediaRoot, recipeImageDir, name))
	if err != nil && !os.IsNotExist(err) {
		logger.WithError(err).WithField("image", publicPath).Warn("failed to remove recipe image")
	}
}
