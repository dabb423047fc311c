// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"time"

	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Create inserts one task. Batch creation is N independent inserts; the
// caller loops (each assignee gets their own document).
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	t.Complete = false
	t.CreatedOn = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListForAssignee returns the tasks assigned to userID within roleID,
// complete and incomplete alike (the view filters).
func (s *Store) ListForAssignee(ctx context.Context, roleID, userID primitive.ObjectID) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, bson.M{"role_id": roleID, "assigned_to": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkComplete flips the completion flag. Tasks are never flipped back.
func (s *Store) MarkComplete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"complete": true}})
	return err
}

// DeleteByRole removes all tasks belonging to a role (reset / role delete).
func (s *Store) DeleteByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"role_id": roleID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByAssignee removes all tasks assigned to a user (account deletion).
func (s *Store) DeleteByAssignee(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"assigned_to": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
