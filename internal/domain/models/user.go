// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleSummary is the per-role slice of a user's score, embedded on the
// user document. Points and TaskCompleted for a role must equal the sum
// of approved tasks for that user within that role; the approval path
// increments both the summary and the user's global aggregates.
type RoleSummary struct {
	RoleID        primitive.ObjectID `bson:"role_id" json:"role_id"`
	Name          string             `bson:"name" json:"name"`
	Points        int64              `bson:"points" json:"points"`
	TaskCompleted int64              `bson:"task_completed" json:"task_completed"`
}

// User represents a registered participant.
//
// NOTE:
//   - Role membership is embedded (roles summaries + the member sets on
//     the role documents); there is no separate membership collection.
//   - Points/TaskCompleted are global aggregates across all roles.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"email_ci"`
	PhotoURL     string             `bson:"photo_url" json:"photo_url"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	Points        int64         `bson:"points" json:"points"`
	TaskCompleted int64         `bson:"task_completed" json:"task_completed"`
	Roles         []RoleSummary `bson:"roles" json:"roles"`

	// CurrentRole is the role the user last pinned as "theirs"; empty
	// until the user picks one.
	CurrentRole primitive.ObjectID `bson:"current_role,omitempty" json:"current_role,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SummaryFor returns the embedded summary for roleID and whether it exists.
func (u User) SummaryFor(roleID primitive.ObjectID) (RoleSummary, bool) {
	for _, s := range u.Roles {
		if s.RoleID == roleID {
			return s, true
		}
	}
	return RoleSummary{}, false
}
