package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ajo-backend/internal/config"
	dbpkg "github.com/BruksfildServices01/ajo-backend/internal/db"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	"github.com/BruksfildServices01/ajo-backend/internal/logger"
	"github.com/BruksfildServices01/ajo-backend/internal/routes"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
	"github.com/BruksfildServices01/ajo-backend/internal/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: os.Stdout,
	})

	roles := access.DefaultRoles()

	db, err := dbpkg.NewDB(cfg, roles)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := session.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect redis")
		}
		sessions = session.NewRedisStore(client)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, sessions are kept in memory")
		sessions = session.NewMemoryStore()
	}

	if err := validators.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.NewDeps(db, cfg, roles, sessions, log))

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
