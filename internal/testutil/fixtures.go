package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/rolehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with zero totals and no role summaries.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		EmailCI:   text.Fold(email),
		Roles:     []models.RoleSummary{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user fixture: %v", err)
	}
	return u
}

// CreateRole inserts a role with the given members.
func (f *Fixtures) CreateRole(ctx context.Context, name string, members ...primitive.ObjectID) models.Role {
	f.t.Helper()

	now := time.Now().UTC()
	if members == nil {
		members = []primitive.ObjectID{}
	}
	r := models.Role{
		ID:              primitive.NewObjectID(),
		Name:            name,
		NameCI:          text.Fold(name),
		Members:         members,
		PendingRequests: []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("roles").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("create role fixture: %v", err)
	}
	return r
}

// AddRoleSummary embeds a scored summary for the role on the user.
func (f *Fixtures) AddRoleSummary(ctx context.Context, userID primitive.ObjectID, role models.Role, points int64) {
	f.t.Helper()

	_, err := f.db.Collection("users").UpdateByID(ctx, userID, map[string]interface{}{
		"$push": map[string]interface{}{
			"roles": models.RoleSummary{RoleID: role.ID, Name: role.Name, Points: points},
		},
		"$inc": map[string]interface{}{"points": points},
	})
	if err != nil {
		f.t.Fatalf("add role summary fixture: %v", err)
	}
}

// CreateTask inserts an open task.
func (f *Fixtures) CreateTask(ctx context.Context, role models.Role, assignee models.User, title string, points int64) models.Task {
	f.t.Helper()

	task := models.Task{
		ID:           primitive.NewObjectID(),
		AssignedTo:   assignee.ID,
		AssignedName: assignee.Name,
		Title:        title,
		Points:       points,
		RoleID:       role.ID,
		CreatedOn:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("create task fixture: %v", err)
	}
	return task
}

// CreateSubmission inserts an open submission for the task.
func (f *Fixtures) CreateSubmission(ctx context.Context, task models.Task) models.Submission {
	f.t.Helper()

	sub := models.Submission{
		ID:           task.ID,
		AssignedTo:   task.AssignedTo,
		AssignedName: task.AssignedName,
		Title:        task.Title,
		Description:  task.Description,
		Points:       task.Points,
		RoleID:       task.RoleID,
		SubmittedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("tasks_submitted").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("create submission fixture: %v", err)
	}
	return sub
}

// MakeAdmin adds the user to the global admin set.
func (f *Fixtures) MakeAdmin(ctx context.Context, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("admins").UpdateByID(ctx, models.AdminSetID,
		map[string]interface{}{"$addToSet": map[string]interface{}{"ids": userID}},
		options.Update().SetUpsert(true))
	if err != nil {
		f.t.Fatalf("make admin fixture: %v", err)
	}
}
