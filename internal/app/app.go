package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/dejanjanjic/report-incident-backend/config"
	httpadapter "github.com/dejanjanjic/report-incident-backend/internal/adapters/http"
	apiv1 "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/api/v1"
	handlers "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/middleware"
	natsadapter "github.com/dejanjanjic/report-incident-backend/internal/adapters/nats"
	"github.com/dejanjanjic/report-incident-backend/internal/adapters/oauth"
	repo "github.com/dejanjanjic/report-incident-backend/internal/adapters/postgres"
	"github.com/dejanjanjic/report-incident-backend/internal/domain"
	"github.com/dejanjanjic/report-incident-backend/internal/routepolicy"
	"github.com/dejanjanjic/report-incident-backend/internal/usecase"
	pkglog "github.com/dejanjanjic/report-incident-backend/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	log := pkglog.New(cfg.AppEnv, cfg.AppName)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Warn().Err(err).Msg("nats connect failed, token verification over nats disabled")
		nc = nil
	}

	signer, err := usecase.NewJWTSigner(cfg.JWT)
	if err != nil {
		return nil, err
	}

	provider, err := oauth.NewGoogle(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	if err != nil {
		return nil, err
	}

	table, err := routepolicy.LoadAuthService(cfg.RouteRulesPath)
	if err != nil {
		return nil, err
	}

	users := usecase.NewUserService(repo.NewUserRepository(db), domain.ParseRole(cfg.DefaultRole), log)
	flow := usecase.NewLoginFlow(users, signer, cfg.AllowedDomain, log)

	handler := handlers.NewAuthHandler(provider, flow, cfg.FrontendURL)
	guard := authmw.NewRouteGuard(table, signer)
	router := httpadapter.NewRouter(cfg, apiv1.NewRouter(handler), guard)

	if nc != nil {
		verifyHandler := natsadapter.NewVerifyHandler(signer)
		if err := verifyHandler.Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
			log.Warn().Err(err).Msg("nats verify subscription failed")
		}
	}

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: log, db: db, natsConn: nc, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func openDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	op := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
			Logger:         loggerForGorm(cfg),
			NamingStrategy: schema.NamingStrategy{SingularTable: true},
			TranslateError: true,
		})
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return db, nil
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Silent
	switch cfg.AppEnv {
	case "local":
		level = logger.Info
	default:
		level = logger.Warn
	}
	return logger.Default.LogMode(level)
}
