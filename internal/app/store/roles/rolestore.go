// internal/app/store/roles/rolestore.go
package rolestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/rolehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateRoleName = errors.New("a role with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Role, error) {
	var r models.Role
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Role{}, err
	}
	return r, nil
}

// List returns every role. The role catalog is small and bounded (teams,
// not users), so no pagination.
func (s *Store) List(ctx context.Context) ([]models.Role, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var roles []models.Role
	if err := cur.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Create inserts a role. Members is seeded by the caller (admins join every
// role they create); PendingRequests starts empty.
func (s *Store) Create(ctx context.Context, r models.Role) (models.Role, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.NameCI = text.Fold(r.Name)
	if r.Members == nil {
		r.Members = []primitive.ObjectID{}
	}
	r.PendingRequests = []primitive.ObjectID{}
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Role{}, ErrDuplicateRoleName
		}
		return models.Role{}, err
	}
	return r, nil
}

func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("role name must not be empty")
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"updated_at": time.Now().UTC(),
	}})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateRoleName
	}
	return err
}

// AddPendingRequest records a join request. $addToSet keeps the request
// set duplicate-free; the extra members guard makes the call a no-op for
// users who already belong to the role.
func (s *Store) AddPendingRequest(ctx context.Context, roleID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": roleID, "members": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"pending_requests": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// PullPendingRequest removes userID from the pending set (accept and
// decline both start here, so an id is never in both sets at once).
func (s *Store) PullPendingRequest(ctx context.Context, roleID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, roleID, bson.M{
		"$pull": bson.M{"pending_requests": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddMember adds userID to the member set ($addToSet: safe to repeat).
func (s *Store) AddMember(ctx context.Context, roleID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, roleID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveMember pulls userID from the member set.
func (s *Store) RemoveMember(ctx context.Context, roleID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, roleID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveUserEverywhere pulls userID from every role's member and pending
// sets. Used by account deletion.
func (s *Store) RemoveUserEverywhere(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{}, bson.M{
		"$pull": bson.M{"members": userID, "pending_requests": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a role by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
