// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"

	"github.com/dalemusser/rolehub/internal/app/system/timeouts"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the single admin-set document ("all-perms"). Admin rights
// are global across roles; there is no per-role admin concept.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

// Get returns the admin set. A missing document means nobody is an admin
// yet; that is not an error.
func (s *Store) Get(ctx context.Context) (models.AdminSet, error) {
	var a models.AdminSet
	err := s.c.FindOne(ctx, bson.M{"_id": models.AdminSetID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.AdminSet{ID: models.AdminSetID}, nil
	}
	if err != nil {
		return models.AdminSet{}, err
	}
	return a, nil
}

// Add grants admin rights ($addToSet on the singleton, upserting it the
// first time).
func (s *Store) Add(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, models.AdminSetID,
		bson.M{"$addToSet": bson.M{"ids": userID}},
		options.Update().SetUpsert(true))
	return err
}

// Remove revokes admin rights.
func (s *Store) Remove(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, models.AdminSetID,
		bson.M{"$pull": bson.M{"ids": userID}})
	return err
}

// IsAdmin satisfies auth.AdminChecker: hex user id in, membership out.
func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	err = s.c.FindOne(ctx, bson.M{"_id": models.AdminSetID, "ids": oid}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
