// internal/domain/models/reward.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Placeholder text written by the monthly reset and by role creation.
const (
	RewardUnset       = "not set"
	RewardPlaceholder = "No reward set"
)

// Reward holds the three podium reward strings for a role. The document
// id is the role id.
type Reward struct {
	RoleID    primitive.ObjectID `bson:"_id" json:"role_id"`
	First     string             `bson:"first" json:"first"`
	Second    string             `bson:"second" json:"second"`
	Third     string             `bson:"third" json:"third"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
