// internal/app/ops/membership.go
package ops

import (
	"context"

	"github.com/dalemusser/rolehub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RequestJoin records a join request on the role. Requesting twice, or
// requesting a role the user already belongs to, is a silent no-op.
func (s *Service) RequestJoin(ctx context.Context, roleID, userID primitive.ObjectID) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrRoleNotFound
		}
		return err
	}
	return s.roles.AddPendingRequest(ctx, roleID, userID)
}

// AcceptRequest promotes a pending requester to member: the id moves
// from pending_requests to members and a zeroed summary lands on the
// user. Accepting an id that is no longer pending still adds membership;
// both writes are idempotent.
func (s *Service) AcceptRequest(ctx context.Context, roleID, userID primitive.ObjectID) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrRoleNotFound
		}
		return err
	}

	err = txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if err := s.roles.PullPendingRequest(ctx, roleID, userID); err != nil {
			return err
		}
		if err := s.roles.AddMember(ctx, roleID, userID); err != nil {
			return err
		}
		return s.users.AppendRoleSummary(ctx, userID, roleID, role.Name)
	})
	if err != nil {
		return err
	}
	s.log.Info("join request accepted",
		zap.String("role_id", roleID.Hex()),
		zap.String("user_id", userID.Hex()))
	return nil
}

// DeclineRequest drops a pending request. The requester's documents are
// untouched.
func (s *Service) DeclineRequest(ctx context.Context, roleID, userID primitive.ObjectID) error {
	return s.roles.PullPendingRequest(ctx, roleID, userID)
}

// SetCurrentRole switches which role the user's home page shows. Only
// roles the user belongs to qualify.
func (s *Service) SetCurrentRole(ctx context.Context, userID, roleID primitive.ObjectID) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrRoleNotFound
		}
		return err
	}
	if !role.HasMember(userID) {
		return ErrNotMember
	}
	return s.users.SetCurrentRole(ctx, userID, roleID)
}
