package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/aposta-facil/internal/analytics"
	"github.com/radieske/aposta-facil/internal/auth"
	"github.com/radieske/aposta-facil/internal/bets"
	bhttp "github.com/radieske/aposta-facil/internal/bets/http"
	"github.com/radieske/aposta-facil/internal/bets/repo"
	"github.com/radieske/aposta-facil/internal/shared/cache"
	"github.com/radieske/aposta-facil/internal/shared/config"
	"github.com/radieske/aposta-facil/internal/shared/db"
	skafka "github.com/radieske/aposta-facil/internal/shared/kafka"
	"github.com/radieske/aposta-facil/internal/shared/logger"
	"github.com/radieske/aposta-facil/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()
	if err := db.EnsureSchema(pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Redis (nonces de OAuth + sessões)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writer (tópico de analytics)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicAnalytics)
	defer writer.Close()

	metrics.MustRegister()

	// deps
	tracker := analytics.NewKafkaTracker(log, writer)
	kv := auth.NewRedisStore(rdb)
	sessions := auth.NewSessions(cfg.SessionSecret, kv)
	provider := auth.NewProvider(cfg.GoogleClientID, cfg.GoogleClientSecret,
		cfg.OAuthAuthURL, cfg.OAuthTokenURL, cfg.OAuthUserInfoURL, cfg.OAuthRedirectURL)

	store := bets.NewStore(log, repo.NewPostgres(pg), tracker)

	// HTTP público
	root := chi.NewRouter()
	root.Use(auth.Middleware(sessions))
	root.Mount("/auth", auth.NewHandler(log, sessions, provider, kv, tracker).Router())
	root.Mount("/", bhttp.NewServer(log, store, tracker).Router())

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: root,
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("aposta-api listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
