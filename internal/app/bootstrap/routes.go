// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/rolehub/internal/app/features/health"
	livefeature "github.com/dalemusser/rolehub/internal/app/features/live"
	loginfeature "github.com/dalemusser/rolehub/internal/app/features/login"
	profilefeature "github.com/dalemusser/rolehub/internal/app/features/profile"
	roleadminfeature "github.com/dalemusser/rolehub/internal/app/features/roleadmin"
	rolesfeature "github.com/dalemusser/rolehub/internal/app/features/roles"
	tasksfeature "github.com/dalemusser/rolehub/internal/app/features/tasks"
	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/app/realtime"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler. WAFFLE calls it after
// config, DB connection, schema setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	svc := ops.NewService(deps.MongoClient, deps.MongoDatabase, logger)
	svc.SetGlobalRole(globalRole)

	// Admin checks hit the admin-set document on every request, so a
	// revocation takes effect without waiting for the session to expire.
	sessionMgr.SetAdminChecker(svc.Admins())

	src := realtime.NewMongoSource(deps.MongoDatabase, logger)

	r := chi.NewRouter()
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	healthfeature.MountRoutes(r, healthHandler)

	loginHandler := loginfeature.NewHandler(svc, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	loginfeature.MountRoutes(r, loginHandler)

	profileHandler := profilefeature.NewHandler(svc, sessionMgr, logger)
	r.Route("/api/profile", func(r chi.Router) {
		profilefeature.MountRoutes(r, profileHandler, sessionMgr)
	})

	rolesHandler := rolesfeature.NewHandler(deps.MongoDatabase, svc, logger)
	liveHandler := livefeature.NewHandler(src, logger)
	r.Route("/api/roles", func(r chi.Router) {
		rolesfeature.MountRoutes(r, rolesHandler, sessionMgr)
		livefeature.MountRoutes(r, liveHandler, sessionMgr)
	})

	tasksHandler := tasksfeature.NewHandler(svc, logger)
	r.Route("/api/tasks", func(r chi.Router) {
		tasksfeature.MountRoutes(r, tasksHandler, sessionMgr)
	})

	adminHandler := roleadminfeature.NewHandler(svc, logger)
	r.Route("/api/admin", func(r chi.Router) {
		roleadminfeature.MountRoutes(r, adminHandler, sessionMgr)
	})

	return r, nil
}
