// internal/domain/models/adminset.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdminSetID is the fixed document id of the single admin-set document.
const AdminSetID = "all-perms"

// AdminSet is the global set of user ids with elevated privileges across
// all roles. Admins are excluded from leaderboards.
type AdminSet struct {
	ID  string               `bson:"_id" json:"id"`
	IDs []primitive.ObjectID `bson:"ids" json:"ids"`
}

// Contains reports whether id is in the set.
func (a AdminSet) Contains(id primitive.ObjectID) bool {
	for _, v := range a.IDs {
		if v == id {
			return true
		}
	}
	return false
}
