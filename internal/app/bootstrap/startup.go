// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/campusgrid/campusgrid/internal/app/realtime"
	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"github.com/campusgrid/campusgrid/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Process-wide resources created in Startup so Shutdown can tear them down
// even if BuildHandler never ran.
var (
	hub             *realtime.Hub
	locationCleanup *workers.LocationCleanup
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to initialize process-wide resources that depend on config and
// backends: the session store, the realtime hub, and the stale-location
// cleanup worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return err
	}

	hub = realtime.NewHub(logger)

	locationCleanup = workers.NewLocationCleanup(
		profilestore.New(deps.MongoDatabase), logger, 10*time.Minute, 24*time.Hour)
	locationCleanup.Start()

	return nil
}
