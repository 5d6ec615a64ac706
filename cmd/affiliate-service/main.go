package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/client"
	"github.com/bittworld/bg-affiliate-service/internal/config"
	httpdelivery "github.com/bittworld/bg-affiliate-service/internal/delivery/http"
	"github.com/bittworld/bg-affiliate-service/internal/delivery/http/handlers"
	publisher "github.com/bittworld/bg-affiliate-service/internal/infrastructure/kafka"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/metrics"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/migrate"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/repository"
	redisinfra "github.com/bittworld/bg-affiliate-service/internal/infrastructure/redis"
	"github.com/bittworld/bg-affiliate-service/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(&cfg.LogConfig)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init redis downline cache
	redisClient := redisinfra.MustInitRedis(&cfg.RedisService)
	downlineCache := redisinfra.NewDownlineCache(redisClient, time.Duration(cfg.RedisService.TTLSeconds)*time.Second)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)

	// Init repositories
	affiliateRepo := repository.NewDefaultAffiliateRepository(db)
	rewardRepo := repository.NewDefaultCommissionRewardRepository(db)
	logRepo := repository.NewDefaultCommissionLogRepository(db)

	// Init outbound service clients
	walletClient := client.NewHTTPWalletClient(fmt.Sprintf("http://%s:%s", cfg.WalletService.Host, cfg.WalletService.Port))
	tradingClient := client.NewHTTPTradingClient(fmt.Sprintf("http://%s:%s", cfg.TradingService.Host, cfg.TradingService.Port))

	affiliateMetrics := metrics.NewAffiliateMetrics()

	// Init usecases
	treeUc := usecase.NewDefaultTreeUsecase(affiliateRepo, downlineCache, affiliateMetrics)
	authorityUc := usecase.NewDefaultAuthorityUsecase(affiliateRepo, logRepo, walletClient, downlineCache, affiliateMetrics)
	distributionUc := usecase.NewDefaultDistributionUsecase(affiliateRepo, rewardRepo, walletClient, pub, affiliateMetrics)
	queryUc := usecase.NewDefaultQueryUsecase(affiliateRepo, rewardRepo, tradingClient, downlineCache)

	// Init HTTP handlers
	affiliateHandler := handlers.NewAffiliateHandler(treeUc, authorityUc)
	distributionHandler := handlers.NewDistributionHandler(distributionUc)
	queryHandler := handlers.NewQueryHandler(queryUc)

	router := httpdelivery.NewRouter(affiliateHandler, distributionHandler, queryHandler)

	// Prometheus exporter on a separate listener
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf("%s:%s", cfg.MetricsServer.Host, cfg.MetricsServer.Port)
		slog.Info("metrics server started", "addr", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Fatalf("metrics server failed: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("affiliate service started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg *config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
