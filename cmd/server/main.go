package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdo/taskdo/modules/account"
	"github.com/taskdo/taskdo/modules/task"
	"github.com/taskdo/taskdo/pkg/authn"
	"github.com/taskdo/taskdo/pkg/config"
	"github.com/taskdo/taskdo/pkg/httpserver"
	"github.com/taskdo/taskdo/pkg/identity"
	"github.com/taskdo/taskdo/pkg/logger"
	"github.com/taskdo/taskdo/pkg/pg"
	"github.com/taskdo/taskdo/pkg/redis"
	"github.com/taskdo/taskdo/pkg/session"
)

const serviceName = "taskdo"

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithService(serviceName, appCfg.Env))

	if err := run(appCfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(appCfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)

	sessions := session.New(
		session.WithConfig(sessionCfg),
		session.WithStore(session.NewRedisStore(redisClient)),
		session.WithManagerLogger(log.With(logger.Component("session"))),
	)

	var accountCfg account.Config
	config.MustLoad(&accountCfg)

	accountStore := authn.NewPgAccountStore(pool)
	hasher := authn.NewBcryptHasher(appCfg.BcryptCost)

	local := account.NewLocalService(accountCfg,
		authn.NewLocalAuthenticator(accountStore, hasher, authn.WithLocalLogger(log)),
		sessions,
		account.WithLocalServiceLogger(log),
	)

	oauth := account.NewOAuthService(accountCfg,
		loadProviders(log),
		account.NewRedisStateStore(redisClient),
		identity.NewResolver(identity.NewEmailFetcher(), identity.WithLogger(log)),
		authn.NewReconciler(accountStore, hasher, authn.WithReconcilerLogger(log)),
		sessions,
		account.WithOAuthLogger(log),
	)

	tasks := task.NewHandler(
		task.NewService(task.NewPgStore(pool), task.WithServiceLogger(log)),
		task.WithHandlerLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))
	r.Mount("/", account.Router(accountCfg, local, oauth, sessions))
	r.Mount("/tasks", tasks.Router(sessions, accountCfg.LoginURL))

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)

	return httpserver.New(srvCfg, httpserver.WithLogger(log.With(logger.Component("httpserver")))).Run(ctx, r)
}

// loadProviders builds the provider list from the environment, skipping
// providers without a client registration.
func loadProviders(log *slog.Logger) []*account.Provider {
	var providers []*account.Provider

	var google account.GoogleOAuthConfig
	config.MustLoad(&google)
	if google.ClientID != "" {
		providers = append(providers, account.NewGoogleProvider(google))
	}

	var github account.GitHubOAuthConfig
	config.MustLoad(&github)
	if github.ClientID != "" {
		providers = append(providers, account.NewGitHubProvider(github))
	}

	var kakao account.KakaoOAuthConfig
	config.MustLoad(&kakao)
	if kakao.ClientID != "" {
		providers = append(providers, account.NewKakaoProvider(kakao))
	}

	var naver account.NaverOAuthConfig
	config.MustLoad(&naver)
	if naver.ClientID != "" {
		providers = append(providers, account.NewNaverProvider(naver))
	}

	for _, p := range providers {
		log.Info("oauth provider enabled", logger.Provider(p.Name))
	}
	return providers
}
