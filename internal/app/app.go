package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/gridsweeper/internal/config"
	"github.com/vancomm/gridsweeper/internal/database"
	"github.com/vancomm/gridsweeper/internal/metrics"
	"github.com/vancomm/gridsweeper/internal/middleware"
	"github.com/vancomm/gridsweeper/internal/mines"
	"github.com/vancomm/gridsweeper/internal/sessions"
)

type App struct {
	logger    *slog.Logger
	router    *http.ServeMux
	store     *sessions.Store
	db        *pgxpool.Pool
	redis     *redis.Client
	tokens    *config.SessionTokens
	ws        *config.WebSocket
	rateLimit *config.RateLimit
	game      *mines.GameParams
	maxSize   int
}

func New(logger *slog.Logger) *App {
	mines.Log = logger.With(slog.String("component", "mines"))

	return &App{
		logger: logger,
		router: http.NewServeMux(),
		store:  sessions.NewStore(metrics.Observer{}),
	}
}

// connectDatabase leaves a.db nil when no database is configured.
func (a *App) connectDatabase(ctx context.Context) error {
	db, migrator, err := database.ConnectAndMigrate(ctx)
	if errors.Is(err, config.ErrNoDatabase) {
		a.logger.Warn("no database configured, game results will not be recorded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	migrator.Close()
	a.db = db
	return nil
}

func (a *App) connectRedis(ctx context.Context) error {
	opts, err := config.NewRedis()
	if err != nil {
		return err
	}
	if opts == nil {
		a.logger.Warn("no redis configured, rate limiting is off")
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		a.logger.Warn("redis is unreachable, rate limiting fails open", slog.Any("error", err))
	}
	a.redis = client
	return nil
}

func (a *App) configure(ctx context.Context) (err error) {
	if a.game, err = config.NewGame(); err != nil {
		return err
	}
	if a.maxSize, err = config.MaxGameSize(); err != nil {
		return err
	}
	if a.tokens, err = config.NewSessionTokens(); err != nil {
		return err
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return err
	}
	if a.rateLimit, err = config.NewRateLimit(); err != nil {
		return err
	}
	if err = a.connectDatabase(ctx); err != nil {
		return err
	}
	if err = a.connectRedis(ctx); err != nil {
		return err
	}
	return metrics.RegisterSessions(prometheus.DefaultRegisterer, a.store.Len)
}

func (a *App) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

// Handler is the router behind the middleware chain.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(),
		middleware.RateLimit(a.logger, a.redis, *a.rateLimit),
		middleware.Auth(a.logger, a.tokens),
	)
}

// Start serves until ctx is done, then shuts the server down.
func (a *App) Start(ctx context.Context) error {
	sweepInterval, maxIdle, err := config.SessionSweep()
	if err != nil {
		return err
	}

	if err := a.configure(ctx); err != nil {
		return err
	}
	defer a.close()

	a.loadRoutes()

	port := config.Port()
	server := &http.Server{
		Addr:        port,
		Handler:     a.Handler(),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})
	g.Go(func() error {
		return a.store.Run(gCtx, sweepInterval, maxIdle)
	})

	return g.Wait()
}
