// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission is a user's claim that a task is complete, pending admin
// approval. It shares its _id with the source task. Decline deletes the
// document; approval sets Complete on both, leaving an audit trail.
type Submission struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	AssignedTo   primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	AssignedName string             `bson:"assigned_name" json:"assigned_name"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Points       int64              `bson:"points" json:"points"`
	RoleID       primitive.ObjectID `bson:"role_id" json:"role_id"`
	Complete     bool               `bson:"complete" json:"complete"`
	SubmittedAt  time.Time          `bson:"submitted_at" json:"submitted_at"`
}
