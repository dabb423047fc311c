package rolemembers

import (
	"context"

	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Member is a role member joined with their user document and the
// denormalized per-role score pulled from the embedded summary list.
type Member struct {
	User          models.User `bson:"user" json:"user"`
	Points        int64       `bson:"points" json:"points"`
	TaskCompleted int64       `bson:"task_completed" json:"task_completed"`
}

// ListRoleMembers resolves a role's member id set to user documents in a
// single aggregation, projecting each member's score for this role
// (zero when the role is absent from their summary list). Dangling ids
// produce no row.
func ListRoleMembers(ctx context.Context, db *mongo.Database, roleID primitive.ObjectID) ([]Member, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": roleID}}},
		bson.D{{Key: "$unwind", Value: "$members"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "members",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"summary": bson.M{"$first": bson.M{"$filter": bson.M{
				"input": "$user.roles",
				"as":    "s",
				"cond":  bson.M{"$eq": bson.A{"$$s.role_id", roleID}},
			}}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"user":           "$user",
			"points":         bson.M{"$ifNull": bson.A{"$summary.points", 0}},
			"task_completed": bson.M{"$ifNull": bson.A{"$summary.task_completed", 0}},
		}}},
		// Stable order for pagination-free lists: name, then id.
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "user.name_ci", Value: 1},
			{Key: "user._id", Value: 1},
		}}},
	}

	cur, err := db.Collection("roles").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
