package service

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/reelhub/reelhub/internal/storage"
	"github.com/reelhub/reelhub/internal/validation"
)

type UploadSigner interface {
	Sign() (*storage.UploadAuth, error)
	PublicKey() string
}

type DirectUploader interface {
	PresignUpload(ctx context.Context, key, contentType string) (*storage.PresignedUpload, error)
}

type UploadCredentials struct {
	PublicKey string
	Auth      *storage.UploadAuth
}

// MediaService brokers upload credentials. Bytes never pass through this process.
type MediaService struct {
	signer   UploadSigner
	uploader DirectUploader
}

// NewMediaService accepts a nil uploader when no S3-compatible host is configured.
func NewMediaService(signer UploadSigner, uploader DirectUploader) *MediaService {
	return &MediaService{
		signer:   signer,
		uploader: uploader,
	}
}

func (s *MediaService) UploadCredentials() (*UploadCredentials, error) {
	publicKey := s.signer.PublicKey()
	if publicKey == "" {
		return nil, configurationError("Failed to generate authentication parameters", nil)
	}

	auth, err := s.signer.Sign()
	if err != nil {
		return nil, configurationError("Failed to generate authentication parameters", err)
	}

	return &UploadCredentials{PublicKey: publicKey, Auth: auth}, nil
}

func (s *MediaService) DirectUploadEnabled() bool {
	return s.uploader != nil
}

// DirectUpload presigns an upload under videos/ or thumbnails/ with a random name.
func (s *MediaService) DirectUpload(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	if s.uploader == nil {
		return nil, ErrUploadNotConfigured
	}

	err := validation.ValidateUpload(filename, contentType, validation.VideoConstraints, validation.ThumbnailConstraints)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	folder := "thumbnails"
	if strings.HasPrefix(mediaType, "video/") {
		folder = "videos"
	}
	key := folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	upload, err := s.uploader.PresignUpload(ctx, key, mediaType)
	if err != nil {
		return nil, upstreamError("Failed to create upload URL", err)
	}

	return upload, nil
}
