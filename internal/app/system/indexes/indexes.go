// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureRoles(ctx, db); err != nil {
		problems = append(problems, "roles: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := ensureSubmissions(ctx, db); err != nil {
		problems = append(problems, "tasks_submitted: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, models []mongo.IndexModel) error {
	cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err := db.Collection(coll).Indexes().CreateMany(cctx, models)
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email_ci"),
		},
		{
			Keys:    bson.D{{Key: "roles.role_id", Value: 1}},
			Options: options.Index().SetName("role_summaries"),
		},
	})
}

func ensureRoles(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "roles", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("members"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "tasks", []mongo.IndexModel{
		{
			// User task lists filter on role + assignee together.
			Keys:    bson.D{{Key: "role_id", Value: 1}, {Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("role_assignee"),
		},
		{
			Keys:    bson.D{{Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("assignee"),
		},
	})
}

func ensureSubmissions(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "tasks_submitted", []mongo.IndexModel{
		{
			// Admin queue: open submissions per role.
			Keys:    bson.D{{Key: "role_id", Value: 1}, {Key: "complete", Value: 1}},
			Options: options.Index().SetName("role_open"),
		},
		{
			Keys:    bson.D{{Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("assignee"),
		},
	})
}
