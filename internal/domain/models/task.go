// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work assigned to one user within one role.
// AssignedName is a denormalized snapshot of the assignee's display name
// at creation time. Complete flips false→true exactly once, at approval.
type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignedTo   primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	AssignedName string             `bson:"assigned_name" json:"assigned_name"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Points       int64              `bson:"points" json:"points"`
	RoleID       primitive.ObjectID `bson:"role_id" json:"role_id"`
	Complete     bool               `bson:"complete" json:"complete"`
	CreatedOn    time.Time          `bson:"created_on" json:"created_on"`
}
