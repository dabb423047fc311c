// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rolehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAvatar is written on first sign-in when no photo is available.
const DefaultAvatar = "https://ui-avatars.com/api/?name=User&background=90caf9&color=fff"

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	ErrBadCredentials = errors.New("wrong email or password")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByIDs resolves a set of user ids in one query. Dangling ids (deleted
// users still referenced from a member list) simply do not appear in the
// result; callers must not treat a short result as an error.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a user with the starter data every account gets on first
// sign-in: zero aggregates, default avatar, no current role. The caller
// seeds Roles with the global-role summary.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.NameCI = text.Fold(u.Name)
	u.EmailCI = text.Fold(u.Email)
	if u.PhotoURL == "" {
		u.PhotoURL = DefaultAvatar
	}
	if u.Roles == nil {
		u.Roles = []models.RoleSummary{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SetPassword stores a bcrypt hash of password on the user.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// Authenticate checks email+password and returns the user on success.
// Both unknown email and wrong password map to ErrBadCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, err
	}
	if u.PasswordHash == "" {
		return models.User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// UpdateProfile merges name/photo changes into the user document. Empty
// values leave the stored field untouched.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, photoURL string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *Store) SetCurrentRole(ctx context.Context, id, roleID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"current_role": roleID,
		"updated_at":   time.Now().UTC(),
	}})
	return err
}

// AppendRoleSummary adds a zeroed summary for roleID unless one is already
// present (id-level idempotence for double accepts).
func (s *Store) AppendRoleSummary(ctx context.Context, userID, roleID primitive.ObjectID, roleName string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "roles.role_id": bson.M{"$ne": roleID}},
		bson.M{
			"$push": bson.M{"roles": models.RoleSummary{
				RoleID: roleID,
				Name:   roleName,
			}},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// PullRoleSummary removes the embedded summary for roleID from userID.
func (s *Store) PullRoleSummary(ctx context.Context, userID, roleID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"roles": bson.M{"role_id": roleID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullRoleSummaryAll removes the summary for roleID from every user.
// Used by role deletion.
func (s *Store) PullRoleSummaryAll(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{"roles.role_id": roleID}, bson.M{
		"$pull": bson.M{"roles": bson.M{"role_id": roleID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RenameRoleSummaryAll rewrites the denormalized role name on every user's
// embedded summary after a role rename.
func (s *Store) RenameRoleSummaryAll(ctx context.Context, roleID primitive.ObjectID, name string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"roles.role_id": roleID},
		bson.M{"$set": bson.M{
			"roles.$[r].name": name,
			"updated_at":      time.Now().UTC(),
		}},
		arrayFilterFor(roleID))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Award applies an approval: $inc on the embedded summary for roleID and
// on the global aggregates, all in one field-level atomic update, so
// concurrent approvals on the same user cannot lose an increment. A user
// with no summary for the role (they left it after the task was handed
// out) still gets the global aggregates.
func (s *Store) Award(ctx context.Context, userID, roleID primitive.ObjectID, points int64) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "roles.role_id": roleID},
		bson.M{
			"$inc": bson.M{
				"points":                    points,
				"task_completed":            1,
				"roles.$[r].points":         points,
				"roles.$[r].task_completed": 1,
			},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		arrayFilterFor(roleID))
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{
				"points":         points,
				"task_completed": 1,
			},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// ZeroRoleSummaryAll resets every user's embedded summary for roleID to
// zero points / zero completed. Used by the monthly role reset.
func (s *Store) ZeroRoleSummaryAll(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"roles.role_id": roleID},
		bson.M{"$set": bson.M{
			"roles.$[r].points":         int64(0),
			"roles.$[r].task_completed": int64(0),
			"updated_at":                time.Now().UTC(),
		}},
		arrayFilterFor(roleID))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes the user document. Cascading cleanup (member lists,
// tasks, submissions) is the mutation layer's job.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func arrayFilterFor(roleID primitive.ObjectID) *options.UpdateOptions {
	return options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"r.role_id": roleID}},
	})
}
