// file: services/image_service.go
package services

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go-youth-feed/gateway"
	"go-youth-feed/logger"
	"go-youth-feed/models"
)

// ImageFolder is the object store prefix for feed images.
const ImageFolder = "feeds"

// ImageService uploads feed images and resolves their public URLs.
type ImageService struct {
	objects gateway.Objects
	newName func() string
}

// NewImageService returns an ImageService naming objects with random UUIDs.
func NewImageService(objects gateway.Objects) *ImageService {
	return &ImageService{objects: objects, newName: uuid.NewString}
}

// ObjectPath builds feeds/<random>.<ext> for an uploaded file.
func (s *ImageService) ObjectPath(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return ImageFolder + "/" + s.newName() + ext
}

// Upload stores data and returns the public URL to put in the draft.
func (s *ImageService) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("file", models.ErrEmptyUpload)
	}

	path := s.ObjectPath(filename, contentType)
	if err := s.objects.Upload(ctx, path, contentType, data); err != nil {
		logger.Error.Printf("ImageService: upload of %s failed: %v", path, err)
		return "", &models.UploadError{Path: path, Err: err}
	}

	url := s.objects.PublicURL(path)
	logger.Info.Printf("ImageService: uploaded %s (%d bytes)", path, len(data))
	return url, nil
}
