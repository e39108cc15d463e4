package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/reelhub/reelhub/internal/model"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	// List returns every video, newest first.
	List(ctx context.Context) ([]*model.Video, error)
	ByID(ctx context.Context, id string) (*model.Video, error)
}

const videoColumns = `id, title, description, video_url, thumbnail_url, file_id, controls, height, width, quality, owner_id, created_at, updated_at`

// videoRow is the flat relational shape of model.Video.
type videoRow struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	VideoURL     string    `db:"video_url"`
	ThumbnailURL string    `db:"thumbnail_url"`
	FileID       string    `db:"file_id"`
	Controls     bool      `db:"controls"`
	Height       int       `db:"height"`
	Width        int       `db:"width"`
	Quality      int       `db:"quality"`
	OwnerID      string    `db:"owner_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row videoRow) toModel() *model.Video {
	return &model.Video{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		VideoURL:     row.VideoURL,
		ThumbnailURL: row.ThumbnailURL,
		FileID:       row.FileID,
		Controls:     row.Controls,
		Transformation: model.Transformation{
			Height:  row.Height,
			Width:   row.Width,
			Quality: row.Quality,
		},
		OwnerID:   row.OwnerID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	query := `INSERT INTO videos (` + videoColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.FileID,
		video.Controls,
		video.Transformation.Height,
		video.Transformation.Width,
		video.Transformation.Quality,
		video.OwnerID,
		video.CreatedAt,
		video.UpdatedAt,
	)

	return err
}

func (r *videoRepository) List(ctx context.Context) ([]*model.Video, error) {
	var rows []videoRow
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.toModel())
	}
	return videos, nil
}

func (r *videoRepository) ByID(ctx context.Context, id string) (*model.Video, error) {
	var row videoRow
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}
