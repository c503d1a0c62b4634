package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"housebroker/internal/domain/aggregate"
)

// Service stores listing images in Cloudinary and records each upload as a
// FileInfo aggregate. It implements services.FileService.
type Service struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

// NewService creates a new Cloudinary service
func NewService(config *Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cloudinary config: %w", err)
	}

	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		cld:          cld,
		uploadFolder: config.UploadFolder,
	}, nil
}

// Upload sends the file bytes to Cloudinary under a generated unique name and
// returns an unsaved FileInfo describing the stored asset. The caller persists
// the record inside its own transaction.
func (s *Service) Upload(ctx context.Context, data []byte, fileName string) (*aggregate.FileInfo, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	storedName := uuid.NewString() + ext

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         s.uploadFolder,
		PublicID:       strings.TrimSuffix(storedName, ext),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if result == nil || result.PublicID == "" {
		return nil, fmt.Errorf("cloudinary upload failed: empty public ID (check credentials)")
	}

	return aggregate.NewFileInfo(fileName, storedName, result.SecureURL), nil
}

// Delete removes a stored asset by its public ID.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
