package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidImage     = errors.New("invalid image data")
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImageService stores uploaded hotel and room pictures under Dir, which is
// served at /uploads.
type ImageService struct {
	Dir string
}

func NewImageService(dir string) *ImageService {
	if dir == "" {
		dir = "uploads"
	}
	return &ImageService{Dir: dir}
}

// SaveBase64 writes a raw or data-URL encoded image and returns the public
// reference to store in an images list, e.g. "/uploads/hotels/<id>.png".
func (s *ImageService) SaveBase64(b64, subdir string) (string, error) {
	ext := "jpg"
	if strings.HasPrefix(b64, "data:") {
		if semi := strings.Index(b64, ";"); semi > 5 {
			mime := strings.ToLower(b64[5:semi])
			e, ok := imageExtensions[mime]
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
			}
			ext = e
		}
	}
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	subdir = filepath.Clean("/" + subdir)[1:]
	dir := filepath.Join(s.Dir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/uploads/" + filepath.ToSlash(filepath.Join(subdir, filename)), nil
}
