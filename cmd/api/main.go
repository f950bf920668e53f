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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/acne-dermatologist/internal/application"
	appai "github.com/bryanwahyu/acne-dermatologist/internal/application/ai"
	"github.com/bryanwahyu/acne-dermatologist/internal/application/analysis"
	"github.com/bryanwahyu/acne-dermatologist/internal/config"
	domai "github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
	"github.com/bryanwahyu/acne-dermatologist/internal/infra/ai/gemini"
	"github.com/bryanwahyu/acne-dermatologist/internal/infra/ai/openai"
	"github.com/bryanwahyu/acne-dermatologist/internal/infra/ai/prompt"
	"github.com/bryanwahyu/acne-dermatologist/internal/infra/httpserver"
	"github.com/bryanwahyu/acne-dermatologist/internal/infra/imaging"
	infrasession "github.com/bryanwahyu/acne-dermatologist/internal/infra/session"
	minioStore "github.com/bryanwahyu/acne-dermatologist/internal/infra/storage"
	"github.com/bryanwahyu/acne-dermatologist/internal/middleware"
)

const (
	shutdownTimeout  = 10 * time.Second
	limiterPruneIdle = time.Hour
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("config load error")
	}
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		var cerr *config.ConfigError
		if errors.As(err, &cerr) {
			log.Fatal().Msg("🚨 " + cerr.Error())
		}
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, label, err := newAIClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("ai client init error")
	}

	svc := &analysis.Service{
		Normalizer: imaging.NewNormalizer(imaging.Options{
			MaxBytes:     cfg.Image.MaxUploadBytes,
			MaxDimension: cfg.Image.MaxDimension,
			Quality:      cfg.Image.JPEGQuality,
		}),
		AI:     appai.NewService(client, cfg.AI.Provider),
		Prompt: prompt.Build,
		Clock:  application.SystemClock{},
	}

	checks := map[string]middleware.HealthChecker{}
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", cfg.Archive.Endpoint).Msg("minio init error")
		}
		svc.Archive = store
		checks["archive"] = store
		log.Info().Str("bucket", cfg.Archive.BucketName).Msg("report archive enabled")
	}

	sessions := infrasession.NewManager(cfg.Session.TTL, application.SystemClock{})
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis:       svc,
		Sessions:       sessions,
		Limiter:        limiter,
		Checks:         checks,
		CookieName:     cfg.Session.CookieName,
		CookieSecure:   cfg.Session.Secure,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Image.MaxUploadBytes,
		ModelLabel:     label,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Str("provider", cfg.AI.Provider).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sessions.Run(0)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(limiterPruneIdle)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				limiter.Prune(limiterPruneIdle)
			}
		}
	})

	// graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")
		sessions.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("shutdown with error")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Format != "console" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// newAIClient builds the configured model client and the name shown while it works.
func newAIClient(ctx context.Context, cfg *config.Config) (domai.Client, string, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIBase, cfg.AI.Model), "OpenAI", nil
	default:
		c, err := gemini.NewClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			return nil, "", err
		}
		return c, "Gemini", nil
	}
}
