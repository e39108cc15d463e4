package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reelhub/reelhub/internal/model"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/validation"
)

// VideoSubmission is the client payload sent after a successful upload.
// Height and width are accepted but always replaced by the fixed portrait size.
type VideoSubmission struct {
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	VideoURL       string               `json:"videoUrl"`
	ThumbnailURL   string               `json:"thumbnailUrl"`
	FileID         string               `json:"fileId"`
	Controls       *bool                `json:"controls"`
	Transformation *TransformationInput `json:"transformation"`
}

type TransformationInput struct {
	Height  *int `json:"height"`
	Width   *int `json:"width"`
	Quality *int `json:"quality"`
}

type VideoService struct {
	videoRepository repository.VideoRepository
	now             func() time.Time
}

func NewVideoService(videoRepository repository.VideoRepository) *VideoService {
	return &VideoService{
		videoRepository: videoRepository,
		now:             time.Now,
	}
}

// List returns the feed newest first. An empty store yields an empty slice.
func (s *VideoService) List(ctx context.Context) ([]*model.Video, error) {
	videos, err := s.videoRepository.List(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	return videos, nil
}

func (s *VideoService) ByID(ctx context.Context, id string) (*model.Video, error) {
	video, err := s.videoRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrVideoNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, persistenceError(err)
	}
	return video, nil
}

// Create validates and normalizes a submission and stores it for ownerID.
func (s *VideoService) Create(ctx context.Context, ownerID string, submission VideoSubmission) (*model.Video, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}

	video, err := s.normalize(submission)
	if err != nil {
		return nil, err
	}

	// v7 ids sort by creation, breaking created_at ties in insertion order
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate video id: %w", err)
	}

	now := s.now().UTC()
	video.ID = id.String()
	video.OwnerID = ownerID
	video.CreatedAt = now
	video.UpdatedAt = now

	err = s.videoRepository.Create(ctx, video)
	if err != nil {
		return nil, persistenceError(err)
	}

	return video, nil
}

func (s *VideoService) normalize(submission VideoSubmission) (*model.Video, error) {
	title := strings.TrimSpace(submission.Title)
	description := strings.TrimSpace(submission.Description)
	videoURL := strings.TrimSpace(submission.VideoURL)
	thumbnailURL := strings.TrimSpace(submission.ThumbnailURL)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if videoURL == "" {
		missing = append(missing, "videoUrl")
	}
	if thumbnailURL == "" {
		missing = append(missing, "thumbnailUrl")
	}
	if len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	checks := []error{
		validation.ValidateTitle(title),
		validation.ValidateDescription(description),
		validation.ValidateMediaURL("videoUrl", videoURL),
		validation.ValidateMediaURL("thumbnailUrl", thumbnailURL),
	}

	quality := model.DefaultQuality
	if t := submission.Transformation; t != nil && t.Quality != nil {
		quality = *t.Quality
		checks = append(checks, validation.ValidateQuality(quality))
	}

	for _, err := range checks {
		if err != nil {
			return nil, validationError("%s", err.Error())
		}
	}

	controls := true
	if submission.Controls != nil {
		controls = *submission.Controls
	}

	return &model.Video{
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		FileID:       strings.TrimSpace(submission.FileID),
		Controls:     controls,
		Transformation: model.Transformation{
			Height:  model.VideoHeight,
			Width:   model.VideoWidth,
			Quality: quality,
		},
	}, nil
}
