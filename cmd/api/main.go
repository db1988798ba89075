package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tripscout/internal/adapters/googleplaces"
	server "tripscout/internal/adapters/http_server"
	"tripscout/internal/adapters/observability"
	openaiad "tripscout/internal/adapters/openai"
	redisad "tripscout/internal/adapters/redis"
	"tripscout/internal/adapters/tripadvisor"
	"tripscout/internal/app"
	"tripscout/internal/shared"
	mysqlrepo "tripscout/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// providers
	google, err := googleplaces.New(cfg.GoogleBase, cfg.GoogleKey, 5, cfg.ReviewLimit, cfg.ProviderTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("google places client init failed")
	}
	advisor, err := tripadvisor.New(cfg.AdvisorBase, cfg.AdvisorKey, 5, cfg.ReviewLimit, cfg.ProviderTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("tripadvisor client init failed")
	}

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	reviews := app.NewReviewService(google, advisor, cache, cfg.CacheTTL, int64(cfg.ToolConcurrency))
	tools := app.NewToolRegistry(reviews)
	agent := openaiad.New(cfg.OpenAIKey, cfg.ChatModel, tools)
	chat := app.NewChatService(repo, agent)

	// http; the chat endpoint sits on top of the agent's tool loop, give
	// requests room to finish
	srv := server.New(60 * time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Chat: chat})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
