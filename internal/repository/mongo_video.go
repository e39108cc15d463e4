package repository

import (
	"context"
	"errors"

	"github.com/reelhub/reelhub/internal/db"
	"github.com/reelhub/reelhub/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoVideoRepository struct {
	handle *db.Handle[*mongo.Database]
}

func NewMongoVideoRepository(handle *db.Handle[*mongo.Database]) VideoRepository {
	return &mongoVideoRepository{handle: handle}
}

func (r *mongoVideoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	database, err := r.handle.Get(ctx)
	if err != nil {
		return nil, err
	}
	return database.Collection(db.VideosCollection), nil
}

func (r *mongoVideoRepository) Create(ctx context.Context, video *model.Video) error {
	videos, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = videos.InsertOne(ctx, video)
	return err
}

func (r *mongoVideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	videos, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := videos.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	result := make([]*model.Video, 0)
	err = cursor.All(ctx, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *mongoVideoRepository) ByID(ctx context.Context, id string) (*model.Video, error) {
	videos, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	video := &model.Video{}
	err = videos.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}
