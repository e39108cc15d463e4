package repository

import (
	"context"
	"errors"
	"time"

	"github.com/reelhub/reelhub/internal/db"
	"github.com/reelhub/reelhub/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUserRepository struct {
	handle *db.Handle[*mongo.Database]
}

func NewMongoUserRepository(handle *db.Handle[*mongo.Database]) UserRepository {
	return &mongoUserRepository{handle: handle}
}

func (r *mongoUserRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	database, err := r.handle.Get(ctx)
	if err != nil {
		return nil, err
	}
	return database.Collection(db.UsersCollection), nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	users, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *mongoUserRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.one(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoUserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *mongoUserRepository) one(ctx context.Context, filter bson.D) (*model.User, error) {
	users, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	user := &model.User{}
	err = users.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id, name, avatarURL string, updatedAt time.Time) error {
	users, err := r.collection(ctx)
	if err != nil {
		return err
	}

	result, err := users.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: name},
		{Key: "avatar_url", Value: avatarURL},
		{Key: "updated_at", Value: updatedAt},
	}}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
