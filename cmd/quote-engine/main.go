package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jakubmanczak/quote-engine/migrations"
	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
	"github.com/jakubmanczak/quote-engine/pkg/config"
	"github.com/jakubmanczak/quote-engine/pkg/cookie"
	"github.com/jakubmanczak/quote-engine/pkg/httpserver"
	"github.com/jakubmanczak/quote-engine/pkg/logger"
	"github.com/jakubmanczak/quote-engine/pkg/pg"
	"github.com/jakubmanczak/quote-engine/pkg/ratelimiter"
	"github.com/jakubmanczak/quote-engine/pkg/redis"
	"github.com/jakubmanczak/quote-engine/router"
)

type appConfig struct {
	Logger logger.Config
	PG     pg.Config
	Redis  redis.Config
	HTTP   httpserver.Config

	// TokenSecret feeds session token generation. Empty is tolerated but
	// weakens the token stream.
	TokenSecret string `env:"TOKEN_SECRET" envDefault:""`

	LoginAttempts       int           `env:"LOGIN_ATTEMPTS" envDefault:"10"`
	LoginRefillInterval time.Duration `env:"LOGIN_REFILL_INTERVAL" envDefault:"1m"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttr(logger.Component("quote-engine")))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("fatal", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	users := user.NewRepository(pool)
	if err := user.GuaranteeInfradmin(ctx, users, log); err != nil {
		return err
	}

	if cfg.TokenSecret == "" {
		log.Warn("Cryptographic SECRET is not set. This may lead to increased predictability in token generation.")
	}

	authenticator := auth.NewAuthenticator(
		users,
		auth.NewPGSessionStore(pool),
		cookie.New(),
		cfg.TokenSecret,
		auth.WithLogger(log),
	)

	limiter, err := loginLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}

	handler := router.New(router.Deps{
		Auth:         authenticator,
		Users:        users,
		Sessions:     auth.NewPGSessionStore(pool),
		LoginLimiter: limiter,
		Log:          log,
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, handler)
}

// loginLimiter builds the credential-attempt throttle. With redis configured
// the buckets are shared across instances; without it they are per-process.
func loginLimiter(ctx context.Context, cfg appConfig, log *slog.Logger) (*ratelimiter.Bucket, error) {
	limits := ratelimiter.Config{
		Capacity:       cfg.LoginAttempts,
		RefillRate:     cfg.LoginAttempts,
		RefillInterval: cfg.LoginRefillInterval,
	}

	if cfg.Redis.ConnectionURL == "" {
		log.Info("REDIS_URL not set, login throttling is per-process")
		return ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), limits)
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, "quote-engine"), limits)
}
