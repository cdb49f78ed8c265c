package repository

import (
	"context"
	"fmt"
	"time"

	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert replaces the scalar fields of the user's profile, creating the
// document when none exists. Experience and education lists are untouched by
// design: they are edited through Save after an aggregate-level operation.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	filter := bson.M{"user": profile.User}
	update := bson.M{
		"$set": bson.M{
			"company":        profile.Company,
			"website":        profile.Website,
			"location":       profile.Location,
			"status":         profile.Status,
			"skills":         profile.Skills,
			"bio":            profile.Bio,
			"githubusername": profile.GithubUsername,
			"social":         profile.Social,
		},
		"$setOnInsert": bson.M{
			"user":       profile.User,
			"experience": []models.Experience{},
			"education":  []models.Education{},
			"date":       time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	var updated models.Profile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &updated, nil
}

// Save persists the whole profile document after an aggregate edit. The
// load-edit-save sequence is not atomic across requests; Mongo's
// per-document atomicity on the final write is the only guarantee relied on.
func (r *ProfileRepository) Save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	filter := bson.M{"_id": profile.ID}
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var saved models.Profile
	err := r.collection.FindOneAndReplace(ctx, filter, profile, opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &saved, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create profile indexes: %w", err)
	}
	return nil
}
