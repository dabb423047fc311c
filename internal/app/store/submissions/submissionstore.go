// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rolehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

// ErrAlreadySubmitted is returned when a task already has an open
// submission (the submission shares the task's _id, so the unique _id
// index is the guard).
var ErrAlreadySubmitted = errors.New("task has already been submitted")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks_submitted")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// CreateFromTask records a user's claim that task is done. The submission
// copies the task's denormalized fields and shares its id.
func (s *Store) CreateFromTask(ctx context.Context, t models.Task) (models.Submission, error) {
	sub := models.Submission{
		ID:           t.ID,
		AssignedTo:   t.AssignedTo,
		AssignedName: t.AssignedName,
		Title:        t.Title,
		Description:  t.Description,
		Points:       t.Points,
		RoleID:       t.RoleID,
		Complete:     false,
		SubmittedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Submission{}, ErrAlreadySubmitted
		}
		return models.Submission{}, err
	}
	return sub, nil
}

// ListOpenByRole returns submissions awaiting approval for a role.
func (s *Store) ListOpenByRole(ctx context.Context, roleID primitive.ObjectID) ([]models.Submission, error) {
	cur, err := s.c.Find(ctx, bson.M{"role_id": roleID, "complete": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ListByAssignee returns all submissions (open and approved) for a user.
// The task view uses it to show "waiting for approval" badges.
func (s *Store) ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Submission, error) {
	cur, err := s.c.Find(ctx, bson.M{"assigned_to": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// MarkComplete flags the submission approved. The document is kept as an
// audit trail; only declines delete it.
func (s *Store) MarkComplete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"complete": true}})
	return err
}

// Delete removes a submission (decline path).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"role_id": roleID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteByAssignee(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"assigned_to": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
