package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"example.com/mastermind/internal/auth"
	"example.com/mastermind/internal/config"
	"example.com/mastermind/internal/game"
	"example.com/mastermind/internal/httpapi"
	"example.com/mastermind/internal/puzzle"
	"example.com/mastermind/internal/solver"
	"example.com/mastermind/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db      *pgxpool.Pool
	rdb     *redis.Client
	solvers *solver.Registry

	srv *http.Server
}

type Options struct {
	Static http.Handler // optional; if nil, no frontend is served
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	if _, ok := puzzle.TierByName(cfg.Game.DefaultDifficulty); !ok {
		return nil, fmt.Errorf("unknown DEFAULT_DIFFICULTY %q", cfg.Game.DefaultDifficulty)
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	// Пингуем с ретраями: в docker-compose postgres и redis
	// могут подниматься дольше сервера.
	if err := pingBackends(ctx, dbpool, rdb, log); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, err
	}

	// --- Auth service ---
	authSvc := auth.NewService([]byte(cfg.Auth.Secret))

	// --- Stores ---
	users := store.NewUserStore(dbpool)
	stats := store.NewStatsStore(dbpool)

	authH := &httpapi.AuthHandler{
		Users:    users,
		Stats:    stats,
		Auth:     authSvc,
		TokenTTL: cfg.Auth.TokenTTL,
	}

	// --- Solvers ---
	solvers, err := solver.NewRegistry(puzzle.Tiers(), cfg.Game.SampleSeed, cfg.Game.HintWorkers)
	if err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("solver registry: %w", err)
	}

	// --- Game ---
	persist := game.NewRedisSessionStore(rdb, cfg.Redis.SessionTTL)
	sessions := game.NewSessionService(persist)
	gameCfg := game.Config{
		DefaultDifficulty: cfg.Game.DefaultDifficulty,
		DailySalt:         cfg.Game.DailySalt,
	}
	gameSrv := game.NewServer(gameCfg, sessions, authSvc, solvers, stats)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	gameSrv.RegisterRoutes(mux)

	// --- auth routes ---
	mux.HandleFunc("/api/auth/register", authH.Register)
	mux.HandleFunc("/api/auth/login", authH.Login)
	mux.Handle("/api/me", httpapi.AuthMiddleware(authSvc)(http.HandlerFunc(authH.Me)))

	if opts.Static != nil {
		mux.Handle("/", opts.Static)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, solvers: solvers, srv: srv}, nil
}

func pingBackends(ctx context.Context, db *pgxpool.Pool, rdb *redis.Client, log *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := retry.Do(pingCtx, retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond)), func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			log.Warn("postgres not ready", "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}

	err = retry.Do(pingCtx, retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond)), func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis not ready", "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis ping (%s): %w", rdb.Options().Addr, err)
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	return multierr.Append(err, a.Close(context.Background()))
}

func (a *App) Close(ctx context.Context) error {
	// best-effort
	if a.solvers != nil {
		a.solvers.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	var err error
	if a.rdb != nil {
		err = multierr.Append(err, a.rdb.Close())
	}
	return err
}
