// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/rolehub/internal/app/ops"
	rolestore "github.com/dalemusser/rolehub/internal/app/store/roles"
	"github.com/dalemusser/rolehub/internal/app/system/tasks"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// globalRole is resolved once at startup and consumed by BuildHandler.
var globalRole models.Role

// Startup seeds the documents a fresh deployment needs (the global
// role, the superadmin) and launches background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	role, err := ensureGlobalRole(ctx, deps.MongoDatabase, appCfg.GlobalRoleName)
	if err != nil {
		return fmt.Errorf("ensure global role: %w", err)
	}
	globalRole = role

	svc := ops.NewService(deps.MongoClient, deps.MongoDatabase, logger)
	svc.SetGlobalRole(role)

	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, svc, appCfg.SuperAdminEmail, logger); err != nil {
			return fmt.Errorf("ensure superadmin: %w", err)
		}
	}

	if appCfg.ResetEnabled {
		tasks.StartAll(ctx, logger, tasks.RoleResetJob(svc, logger))
		logger.Info("monthly reset job started")
	}
	return nil
}

// ensureGlobalRole finds the role every account joins, creating it on
// first boot.
func ensureGlobalRole(ctx context.Context, db *mongo.Database, name string) (models.Role, error) {
	var role models.Role
	err := db.Collection("roles").FindOne(ctx, bson.M{"name_ci": text.Fold(name)}).Decode(&role)
	if err == nil {
		return role, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Role{}, err
	}
	return rolestore.New(db).Create(ctx, models.Role{Name: name})
}

// ensureSuperAdmin puts the configured account into the admin set. An
// unknown email is logged, not fatal: the account appears once the
// person signs in, and the next restart promotes them.
func ensureSuperAdmin(ctx context.Context, svc *ops.Service, email string, logger *zap.Logger) error {
	u, err := svc.Users().GetByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		logger.Warn("superadmin account does not exist yet",
			zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	if err := svc.Admins().Add(ctx, u.ID); err != nil {
		return err
	}
	logger.Info("superadmin ensured", zap.String("user_id", u.ID.Hex()))
	return nil
}
