package repository

import (
	"context"

	"nodewars/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProblemRepo interface {
	Create(ctx context.Context, problem *model.Problem) error
	Exists(ctx context.Context, slug string) (bool, error)
}

type problemRepo struct {
	collection *mongo.Collection
}

func NewProblemRepo(db *mongo.Database) ProblemRepo {
	return &problemRepo{
		collection: db.Collection("problems"),
	}
}

func (r *problemRepo) Create(ctx context.Context, problem *model.Problem) error {
	_, err := r.collection.InsertOne(ctx, problem)
	return err
}

func (r *problemRepo) Exists(ctx context.Context, slug string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
