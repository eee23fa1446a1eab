package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/synaptica-ai/bedside/pkg/common/config"
	"github.com/synaptica-ai/bedside/pkg/common/database"
	"github.com/synaptica-ai/bedside/pkg/common/kafka"
	"github.com/synaptica-ai/bedside/pkg/common/logger"
	"github.com/synaptica-ai/bedside/pkg/dashboard"
	"github.com/synaptica-ai/bedside/pkg/gateway/auth"
	"github.com/synaptica-ai/bedside/pkg/gateway/middleware"
	"github.com/synaptica-ai/bedside/pkg/literature"
	"github.com/synaptica-ai/bedside/pkg/observability/metrics"
	"github.com/synaptica-ai/bedside/pkg/serving"
	"github.com/synaptica-ai/bedside/pkg/serving/predictor"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	catalog, err := terminology.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load terminology catalog")
	}

	opts := dashboard.Options{Catalog: catalog}

	if cfg.PredictorURL != "" {
		client, err := predictor.New(predictor.Config{
			URL:          cfg.PredictorURL,
			Timeout:      cfg.PredictorTimeout,
			Token:        cfg.PredictorToken,
			TokenURL:     cfg.PredictorTokenURL,
			ClientID:     cfg.PredictorClientID,
			ClientSecret: cfg.PredictorClientSecret,
		})
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure risk predictor")
		}
		opts.Predictor = client
	} else {
		logger.Log.Warn("SEPSIS_MODEL_URL not set; risk assessment disabled")
	}

	var searcher literature.Searcher = literature.New(literature.Config{
		BaseURL: cfg.LiteratureBaseURL,
		APIKey:  cfg.LiteratureAPIKey,
		Timeout: cfg.LiteratureTimeout,
	})
	if cfg.LiteratureCacheTTL > 0 {
		searcher = literature.NewCached(searcher, literature.NewRedisCache(database.GetRedis(cfg)), cfg.LiteratureCacheTTL)
		defer database.CloseRedis()
	}
	opts.Literature = searcher

	if cfg.AuditEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		repo := serving.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate prediction log table")
		}
		opts.Audit = repo
		defer database.ClosePostgres()
	}

	if cfg.KafkaEnabled {
		riskProducer := kafka.NewProducer(cfg.KafkaBrokers, cfg.TopicRiskAssessments)
		defer riskProducer.Close()
		vitalsProducer := kafka.NewProducer(cfg.KafkaBrokers, cfg.TopicVitalsSnapshots)
		defer vitalsProducer.Close()
		opts.RiskEvents = riskProducer
		opts.VitalEvents = vitalsProducer
	}

	svc := dashboard.NewService(opts)
	handler := dashboard.NewHTTPHandler(svc, cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	if cfg.JWTSecret != "" {
		verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure API authentication")
		}
		api.Use(middleware.Authenticate(verifier))
	} else {
		logger.Log.Warn("JWT_SECRET not set; API authentication disabled")
	}
	handler.Register(api)

	var h http.Handler = router
	h = middleware.BodyLimit(cfg.MaxRequestBody)(h)
	h = middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)(h)
	h = middleware.CORS(h)
	h = middleware.Recovery(h)
	h = middleware.Logging(h)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Dashboard Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	if cfg.KafkaEnabled {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.TopicRecordBundles, cfg.KafkaGroupID)
		defer consumer.Close()
		go func() {
			logger.Log.WithField("topic", cfg.TopicRecordBundles).Info("Record bundle worker started")
			if err := consumer.Consume(ctx, svc.HandleRecordBundle); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.WithError(err).Error("record bundle worker stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Dashboard Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Dashboard Service stopped")
}
