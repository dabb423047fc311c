// internal/app/store/rewards/rewardstore.go
package rewardstore

import (
	"context"
	"time"

	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rewards")}
}

// Get returns the reward document for a role. A missing document (role
// created before rewards existed, or reward doc lost) degrades to
// placeholder text rather than an error.
func (s *Store) Get(ctx context.Context, roleID primitive.ObjectID) (models.Reward, error) {
	var r models.Reward
	err := s.c.FindOne(ctx, bson.M{"_id": roleID}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return models.Reward{
			RoleID: roleID,
			First:  models.RewardPlaceholder,
			Second: models.RewardPlaceholder,
			Third:  models.RewardPlaceholder,
		}, nil
	}
	if err != nil {
		return models.Reward{}, err
	}
	return r, nil
}

// Create seeds the companion reward document at role creation.
func (s *Store) Create(ctx context.Context, roleID primitive.ObjectID) error {
	_, err := s.c.InsertOne(ctx, models.Reward{
		RoleID:    roleID,
		First:     models.RewardUnset,
		Second:    models.RewardUnset,
		Third:     models.RewardUnset,
		UpdatedAt: time.Now().UTC(),
	})
	return err
}

// Set writes the three podium strings (upsert: survives a missing doc).
func (s *Store) Set(ctx context.Context, roleID primitive.ObjectID, first, second, third string) error {
	_, err := s.c.UpdateByID(ctx, roleID, bson.M{"$set": bson.M{
		"first":      first,
		"second":     second,
		"third":      third,
		"updated_at": time.Now().UTC(),
	}}, options.Update().SetUpsert(true))
	return err
}

// Reset writes placeholder text into all three slots (monthly reset).
func (s *Store) Reset(ctx context.Context, roleID primitive.ObjectID) error {
	return s.Set(ctx, roleID,
		models.RewardPlaceholder, models.RewardPlaceholder, models.RewardPlaceholder)
}

// Delete removes the reward document (role deletion cascade).
func (s *Store) Delete(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": roleID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
