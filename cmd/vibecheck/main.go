package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/config"
	logpkg "github.com/kailas-cloud/vibecheck/internal/logger"
	"github.com/kailas-cloud/vibecheck/internal/metrics"
	"github.com/kailas-cloud/vibecheck/internal/sentiment"
	spammodel "github.com/kailas-cloud/vibecheck/internal/spam"
	"github.com/kailas-cloud/vibecheck/internal/transport/amazon"
	chiTransport "github.com/kailas-cloud/vibecheck/internal/transport/chi"
	openaiScorer "github.com/kailas-cloud/vibecheck/internal/transport/openai"
	analyzeuc "github.com/kailas-cloud/vibecheck/internal/usecase/analyze"
	healthuc "github.com/kailas-cloud/vibecheck/internal/usecase/health"
	reviewsuc "github.com/kailas-cloud/vibecheck/internal/usecase/reviews"
	spamuc "github.com/kailas-cloud/vibecheck/internal/usecase/spam"
	"github.com/kailas-cloud/vibecheck/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vibecheck API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("scorer", cfg.Scorer.Provider),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	scorer, err := buildScorer(cfg.Scorer, logger)
	if err != nil {
		logger.Fatal("Failed to create sentiment scorer", zap.Error(err))
	}

	// Pass nil interface (not typed nil pointer!) when the model is missing.
	// Go gotcha: (*spammodel.Model)(nil) wrapped in spamuc.Classifier != nil.
	var classifier spamuc.Classifier
	model, err := spammodel.Load(cfg.Spam.VectorizerPath, cfg.Spam.ClassifierPath)
	if err != nil {
		logger.Error("Spam model not loaded, /spam will answer 500",
			zap.String("vectorizer", cfg.Spam.VectorizerPath),
			zap.String("classifier", cfg.Spam.ClassifierPath),
			zap.Error(err),
		)
	} else {
		classifier = model
		logger.Info("Spam model loaded")
	}

	bypass := cfg.Scraper.CloudflareBypass != nil && *cfg.Scraper.CloudflareBypass
	fetcher, err := amazon.NewFetcher(&amazon.Config{
		DomainMarker:     cfg.Scraper.DomainMarker,
		Timeout:          time.Duration(cfg.Scraper.TimeoutSec) * time.Second,
		UserAgent:        cfg.Scraper.UserAgent,
		AcceptLanguage:   cfg.Scraper.AcceptLanguage,
		MinFragmentChars: cfg.Scraper.MinFragmentChars,
		Warmup:           cfg.Scraper.Warmup,
		CloudflareBypass: bypass,
		RateLimit:        cfg.Scraper.RateLimit,
		RateBurst:        cfg.Scraper.RateBurst,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("Failed to create review fetcher", zap.Error(err))
	}

	// Create use case services
	analyzeSvc := analyzeuc.New(scorer).
		WithLimits(cfg.Analysis.MaxTextChars, cfg.Analysis.TopN).
		WithWorkers(cfg.Analysis.Workers)
	reviewsSvc := reviewsuc.New(fetcher, analyzeSvc)
	spamSvc := spamuc.New(classifier)
	healthSvc := healthuc.New(scorer, spamSvc)

	server := chiTransport.NewServer(analyzeSvc, reviewsSvc, spamSvc, healthSvc, logger).
		WithDisplayChars(cfg.Analysis.MaxDisplayChars).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxAgeSec:      cfg.CORS.MaxAgeSec,
	}, logger)

	addr := cfg.HTTP.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildScorer assembles the scorer chain: backend -> Instrumented.
func buildScorer(cfg config.ScorerConfig, logger *zap.Logger) (*analyzeuc.InstrumentedScorer, error) {
	switch cfg.Provider {
	case config.ScorerOpenAI:
		base := openaiScorer.NewScorer(&openaiScorer.Config{
			APIKey:    cfg.OpenAI.APIKey,
			BaseURL:   cfg.OpenAI.BaseURL,
			Model:     cfg.OpenAI.Model,
			MaxTokens: cfg.OpenAI.MaxTokens,
			Logger:    logger,
		})
		logger.Info("Sentiment scorer created",
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.OpenAI.Model),
		)
		return analyzeuc.NewInstrumentedScorer(base, cfg.Provider, logger), nil
	default:
		lex, err := sentiment.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, err //nolint:wrapcheck // LoadLexicon errors carry the path
		}
		logger.Info("Sentiment scorer created",
			zap.String("provider", config.ScorerLexicon),
			zap.Int("lexicon_words", lex.Len()),
		)
		return analyzeuc.NewInstrumentedScorer(sentiment.NewAnalyzer(lex), config.ScorerLexicon, logger), nil
	}
}
