package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/second-brain-labs/secondbrain-back/internal/config"
	"github.com/second-brain-labs/secondbrain-back/internal/db"
	"github.com/second-brain-labs/secondbrain-back/internal/service"
	"github.com/second-brain-labs/secondbrain-back/internal/store"
	"github.com/second-brain-labs/secondbrain-back/internal/transport"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			NewLogger,
			db.NewMongoDatabase,
			store.NewUsers,
			store.NewContents,
			store.NewLinks,
			func(users *store.Users, cfg *config.Config, logger *zap.SugaredLogger) *service.Auth {
				return service.NewAuth(users, []byte(cfg.JWTSecret), logger)
			},
			func(contents *store.Contents) *service.Content {
				return service.NewContent(contents)
			},
			func(links *store.Links, users *store.Users, contents *store.Contents, logger *zap.SugaredLogger) *service.Share {
				return service.NewShare(links, users, contents, logger)
			},
			transport.NewHTTPServer,
		),
		fx.Invoke(func(*transport.HTTPServer) {}),
	)

	app.Run()
}

func NewLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = lvl
	l, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}
