// internal/app/ops/roles.go
package ops

import (
	"context"

	"github.com/dalemusser/rolehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rolehub/internal/app/system/txn"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CreateRole inserts a role with every current admin already a member,
// plus its companion reward document and a summary on each admin.
func (s *Service) CreateRole(ctx context.Context, name string) (models.Role, error) {
	name = htmlsanitize.CleanText(name)
	if name == "" {
		return models.Role{}, ErrEmptyName
	}

	adminSet, err := s.admins.Get(ctx)
	if err != nil {
		return models.Role{}, err
	}

	var role models.Role
	err = txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		var err error
		role, err = s.roles.Create(ctx, models.Role{
			Name:    name,
			Members: append([]primitive.ObjectID(nil), adminSet.IDs...),
		})
		if err != nil {
			return err
		}
		if err := s.reward.Create(ctx, role.ID); err != nil {
			return err
		}
		for _, adminID := range adminSet.IDs {
			if err := s.users.AppendRoleSummary(ctx, adminID, role.ID, role.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Role{}, err
	}
	s.log.Info("role created",
		zap.String("role_id", role.ID.Hex()),
		zap.String("name", role.Name))
	return role, nil
}

// RenameRole updates the role and every embedded summary that carries
// its name.
func (s *Service) RenameRole(ctx context.Context, roleID primitive.ObjectID, name string) error {
	name = htmlsanitize.CleanText(name)
	if name == "" {
		return ErrEmptyName
	}
	return txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if err := s.roles.Rename(ctx, roleID, name); err != nil {
			return err
		}
		_, err := s.users.RenameRoleSummaryAll(ctx, roleID, name)
		return err
	})
}

// SetReward replaces the role's podium text.
func (s *Service) SetReward(ctx context.Context, roleID primitive.ObjectID, first, second, third string) error {
	return s.reward.Set(ctx, roleID,
		htmlsanitize.CleanText(first),
		htmlsanitize.CleanText(second),
		htmlsanitize.CleanText(third))
}

// ResetRole starts a fresh round: all tasks and submissions for the role
// are removed, every member's per-role score drops to zero, and the
// rewards revert to placeholders. Global user totals are kept.
func (s *Service) ResetRole(ctx context.Context, roleID primitive.ObjectID) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrRoleNotFound
		}
		return err
	}

	err := txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.tasks.DeleteByRole(ctx, roleID); err != nil {
			return err
		}
		if _, err := s.subs.DeleteByRole(ctx, roleID); err != nil {
			return err
		}
		if _, err := s.users.ZeroRoleSummaryAll(ctx, roleID); err != nil {
			return err
		}
		return s.reward.Reset(ctx, roleID)
	})
	if err != nil {
		return err
	}
	s.log.Info("role reset", zap.String("role_id", roleID.Hex()))
	return nil
}

// ResetAllRoles resets every role (the scheduled monthly run).
func (s *Service) ResetAllRoles(ctx context.Context) (int, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, r := range roles {
		if err := s.ResetRole(ctx, r.ID); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// DeleteRole removes the role and everything hanging off it: tasks,
// submissions, rewards, and the summary embedded on each member.
func (s *Service) DeleteRole(ctx context.Context, roleID primitive.ObjectID) error {
	err := txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.users.PullRoleSummaryAll(ctx, roleID); err != nil {
			return err
		}
		if _, err := s.tasks.DeleteByRole(ctx, roleID); err != nil {
			return err
		}
		if _, err := s.subs.DeleteByRole(ctx, roleID); err != nil {
			return err
		}
		if _, err := s.reward.Delete(ctx, roleID); err != nil {
			return err
		}
		n, err := s.roles.Delete(ctx, roleID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrRoleNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("role deleted", zap.String("role_id", roleID.Hex()))
	return nil
}
