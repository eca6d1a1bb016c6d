package repository

import (
	"context"

	"nodewars/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByPreferredUsername(ctx context.Context, preferredUsername string) (*model.User, error)
}

type userRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		collection: db.Collection("users"),
	}
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.Username}, user, options.Replace().SetUpsert(true))
	return err
}

func (r *userRepo) GetByPreferredUsername(ctx context.Context, preferredUsername string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"preferredUsername": preferredUsername}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}
