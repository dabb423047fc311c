// internal/domain/models/role.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a team with a member set and pending join requests.
//
// Members and PendingRequests are id sets (order irrelevant); a user id
// must never appear in both at once — accept/decline pull the id from
// PendingRequests first.
type Role struct {
	ID              primitive.ObjectID   `bson:"_id" json:"id"`
	Name            string               `bson:"name" json:"name"`
	NameCI          string               `bson:"name_ci" json:"name_ci"`
	Members         []primitive.ObjectID `bson:"members" json:"members"`
	PendingRequests []primitive.ObjectID `bson:"pending_requests" json:"pending_requests"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether id is in the member set.
func (r Role) HasMember(id primitive.ObjectID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

// HasPending reports whether id has an open join request.
func (r Role) HasPending(id primitive.ObjectID) bool {
	for _, p := range r.PendingRequests {
		if p == id {
			return true
		}
	}
	return false
}
