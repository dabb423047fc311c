// internal/app/ops/account.go
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

// SetGlobalRole tells the service which role every account joins on
// creation. Bootstrap resolves it at startup.
func (s *Service) SetGlobalRole(role models.Role) {
	s.globalRoleID = role.ID
	s.globalRoleName = role.Name
}

// EnsureUser returns the account for an email, creating it on first
// sign-in: default avatar, zero totals, membership in the global role
// with that role current. Reports whether the account was created.
func (s *Service) EnsureUser(ctx context.Context, name, email, photoURL string) (models.User, bool, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, false, err
	}

	name = htmlsanitize.CleanText(name)
	if name == "" {
		return models.User{}, false, ErrEmptyName
	}

	err = txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		var err error
		u, err = s.users.Create(ctx, models.User{
			Name:     name,
			Email:    email,
			PhotoURL: photoURL,
			Roles: []models.RoleSummary{
				{RoleID: s.globalRoleID, Name: s.globalRoleName},
			},
			CurrentRole: s.globalRoleID,
		})
		if err != nil {
			return err
		}
		return s.roles.AddMember(ctx, s.globalRoleID, u.ID)
	})
	if err != nil {
		return models.User{}, false, err
	}
	s.log.Info("account created",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))
	return u, true, nil
}

// UpdateProfile changes display name and photo. Email is fixed.
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, photoURL string) error {
	name = htmlsanitize.CleanText(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.users.UpdateProfile(ctx, userID, name, photoURL)
}

// DeleteAccount removes the user and their footprint: membership and
// pending requests in every role, their tasks, their submissions, the
// admin-set entry, and finally the user document. Points already awarded
// to others are untouched.
func (s *Service) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	err := txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.roles.RemoveUserEverywhere(ctx, userID); err != nil {
			return err
		}
		if _, err := s.tasks.DeleteByAssignee(ctx, userID); err != nil {
			return err
		}
		if _, err := s.subs.DeleteByAssignee(ctx, userID); err != nil {
			return err
		}
		if err := s.admins.Remove(ctx, userID); err != nil {
			return err
		}
		_, err := s.users.Delete(ctx, userID)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("account deleted", zap.String("user_id", userID.Hex()))
	return nil
}
