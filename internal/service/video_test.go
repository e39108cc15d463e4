package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reelhub/reelhub/internal/model"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingVideoRepository struct {
	repository.VideoRepository
	err error
}

func (r failingVideoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.err
}

func (r failingVideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	return nil, r.err
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func validSubmission() VideoSubmission {
	return VideoSubmission{
		Title:        "Sunset",
		Description:  "Golden hour on the pier",
		VideoURL:     "https://ik.imagekit.io/demo/sunset.mp4",
		ThumbnailURL: "https://ik.imagekit.io/demo/sunset.jpg",
		FileID:       "file_123",
	}
}

func newVideoService(t *testing.T) *VideoService {
	t.Helper()
	return NewVideoService(repository.NewVideoRepository(testutil.NewSQLiteDB(t)))
}

func TestVideoService_ListEmpty(t *testing.T) {
	videos, err := newVideoService(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestVideoService_CreateNormalizes(t *testing.T) {
	ctx := context.Background()
	svc := newVideoService(t)

	submission := validSubmission()
	submission.Transformation = &TransformationInput{Height: intPtr(10), Width: intPtr(20)}

	video, err := svc.Create(ctx, "owner-1", submission)
	require.NoError(t, err)
	assert.NotEmpty(t, video.ID)
	assert.Equal(t, "owner-1", video.OwnerID)
	assert.True(t, video.Controls)
	assert.Equal(t, model.Transformation{Height: 1920, Width: 1080, Quality: 100}, video.Transformation)
	assert.False(t, video.CreatedAt.IsZero())

	submission.Transformation = &TransformationInput{Quality: intPtr(42)}
	submission.Controls = boolPtr(false)
	video, err = svc.Create(ctx, "owner-1", submission)
	require.NoError(t, err)
	assert.False(t, video.Controls)
	assert.Equal(t, model.Transformation{Height: 1920, Width: 1080, Quality: 42}, video.Transformation)

	stored, err := svc.ByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Transformation, stored.Transformation)
}

func TestVideoService_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newVideoService(t)

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for _, title := range []string{"one", "two", "three"} {
		submission := validSubmission()
		submission.Title = title
		_, err := svc.Create(ctx, "owner-1", submission)
		require.NoError(t, err)
	}

	videos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "three", videos[0].Title)
	assert.Equal(t, "one", videos[2].Title)
}

func TestVideoService_NewestFirstWithinSameInstant(t *testing.T) {
	ctx := context.Background()
	svc := newVideoService(t)

	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	for i := range 20 {
		video, err := svc.Create(ctx, "owner-1", validSubmission())
		require.NoError(t, err)

		videos, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, videos, i+1)
		assert.Equal(t, video.ID, videos[0].ID, "creation %d", i)
	}
}

func TestVideoService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *VideoSubmission)
		message string
	}{
		{
			name:    "missing fields",
			mutate:  func(s *VideoSubmission) { s.Title = " "; s.ThumbnailURL = "" },
			message: "Missing required fields: title, thumbnailUrl",
		},
		{
			name:    "title too long",
			mutate:  func(s *VideoSubmission) { s.Title = strings.Repeat("t", 121) },
			message: "title is too long (max 120 characters)",
		},
		{
			name:    "description too long",
			mutate:  func(s *VideoSubmission) { s.Description = strings.Repeat("d", 1001) },
			message: "description is too long (max 1000 characters)",
		},
		{
			name:    "relative video url",
			mutate:  func(s *VideoSubmission) { s.VideoURL = "/uploads/a.mp4" },
			message: "videoUrl must be a valid http(s) URL",
		},
		{
			name:    "quality out of range",
			mutate:  func(s *VideoSubmission) { s.Transformation = &TransformationInput{Quality: intPtr(0)} },
			message: "quality must be between 1 and 100",
		},
	}

	svc := newVideoService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submission := validSubmission()
			tt.mutate(&submission)

			_, err := svc.Create(context.Background(), "owner-1", submission)
			kind, message := Describe(err)
			assert.Equal(t, KindValidation, kind)
			assert.Equal(t, tt.message, message)
		})
	}

	videos, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestVideoService_RequiresOwner(t *testing.T) {
	_, err := newVideoService(t).Create(context.Background(), "", validSubmission())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVideoService_PersistenceErrors(t *testing.T) {
	storeErr := errors.New("connection reset by peer")
	svc := NewVideoService(failingVideoRepository{err: storeErr})

	_, err := svc.Create(context.Background(), "owner-1", validSubmission())
	kind, message := Describe(err)
	assert.Equal(t, KindPersistence, kind)
	assert.Equal(t, "connection reset by peer", message)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.List(context.Background())
	assert.Equal(t, KindPersistence, KindOf(err))
}

func TestVideoService_ByIDNotFound(t *testing.T) {
	_, err := newVideoService(t).ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}
