package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenant-hub/config"
	"tenant-hub/internal/adapter/gateway"
	"tenant-hub/internal/adapter/handler"
	"tenant-hub/internal/domain"
	"tenant-hub/internal/infrastructure/cache"
	"tenant-hub/internal/infrastructure/draft"
	"tenant-hub/internal/infrastructure/token"
	"tenant-hub/internal/usecase"
	hubmw "tenant-hub/middleware"
	"tenant-hub/utils/logger"
	"tenant-hub/utils/otel"

	"github.com/joho/godotenv"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	ctx := context.Background()

	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
		}
	}()

	log := logger.Init(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"kratos_url", cfg.KratosURL,
		"session_service_url", cfg.SessionServiceURL,
		"port", cfg.Port,
		"cache_ttl", cfg.CacheTTL,
		"bridge_max_attempts", cfg.BridgeMaxAttempts)

	// Infrastructure
	sessionCache := cache.NewSessionCache(cfg.CacheTTL)
	kratos := gateway.NewKratosGateway(cfg.KratosURL, 5*time.Second)
	sessions := gateway.NewSessionServiceGateway(cfg.SessionServiceURL, 5*time.Second)
	issuer := token.NewBridgeIssuer(token.BridgeConfig{
		Secret:   cfg.BridgeTokenSecret,
		Issuer:   cfg.BridgeTokenIssuer,
		Audience: cfg.BridgeTokenAudience,
		TTL:      cfg.BridgeTokenTTL,
	})
	registry := token.NewUsedTokenRegistry(cfg.BridgeTokenTTL)

	draftStore, err := newDraftStore(cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize draft store", "error", err)
		os.Exit(1)
	}

	// Usecases
	resolveSession := usecase.NewResolveSession(kratos, sessions, sessionCache, log)
	resolveBridge := usecase.NewResolveBridge(sessions, issuer, registry, usecase.BridgeConfig{
		MaxAttempts:       cfg.BridgeMaxAttempts,
		InitialDelay:      cfg.BridgeInitialDelay,
		MaxDelay:          cfg.BridgeMaxDelay,
		CookieSettleDelay: cfg.CookieSettleDelay,
	}, log)
	validateStep := usecase.NewValidateStep(sessions, log)
	drafts := usecase.NewDrafts(draftStore, cfg.DraftMaxBytes, log)
	logout := usecase.NewLogout(sessions, sessionCache, log)

	// Handlers
	sessionHandler := handler.NewSessionHandler(sessions, logout, cfg.SessionCookieName)
	bridgeHandler := handler.NewBridgeHandler(resolveBridge, log)
	onboardingHandler := handler.NewOnboardingHandler(validateStep, drafts)
	internalHandler := handler.NewInternalHandler(issuer, cfg.BridgeTokenTTL, log)
	healthHandler := handler.NewHealthHandler()

	guard := hubmw.NewTenantIsolationGuard(resolveSession, cfg.SessionCookieName, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	e.Use(hubmw.SecurityHeaders())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())

	// The bridge endpoints hit the identity provider on every call, so they
	// get a tighter budget than the rest of the surface.
	generalLimiter := hubmw.NewRateLimiterFromConfig(hubmw.RateLimitConfig{Rate: rate.Limit(50), Burst: 100})
	bridgeLimiter := hubmw.NewRateLimiterFromConfig(hubmw.RateLimitConfig{Rate: rate.Limit(5), Burst: 10})
	e.Use(generalLimiter.Middleware())

	e.GET("/health", healthHandler.Handle)
	e.GET("/session", sessionHandler.Handle)
	e.DELETE("/session", sessionHandler.HandleLogout)

	auth := e.Group("/auth", bridgeLimiter.Middleware())
	auth.GET("/bridge", bridgeHandler.Handle)
	auth.GET("/bridge-session", bridgeHandler.HandleExchange)

	internal := e.Group("/internal", hubmw.InternalAuth(cfg.InternalSharedSecret))
	internal.POST("/bridge-token", internalHandler.HandleBridgeToken)

	tenantGroup := e.Group("/:tenant_id", guard.Enforce())
	tenantGroup.POST("/onboarding/steps/validate", onboardingHandler.HandleValidateStep)
	tenantGroup.GET("/onboarding/steps", onboardingHandler.HandleReachableSteps)
	tenantGroup.GET("/onboarding/drafts/:step", onboardingHandler.HandleGetDraft)
	tenantGroup.PUT("/onboarding/drafts/:step", onboardingHandler.HandleSaveDraft)
	tenantGroup.DELETE("/onboarding/drafts/:step", onboardingHandler.HandleDeleteDraft)

	address := fmt.Sprintf(":%s", cfg.Port)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		slog.InfoContext(ctx, "starting tenant-hub server", "address", address)
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "server terminated", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "server exited properly")
}

// newDraftStore selects Redis when DRAFT_REDIS_URL is configured, otherwise
// the in-process store. Single-instance deployments don't need Redis; the
// in-memory store simply loses drafts on restart, which the versioned
// envelope already treats as an acceptable outcome.
func newDraftStore(cfg *config.Config) (domain.DraftStore, error) {
	if cfg.DraftRedisURL != "" {
		return draft.NewRedisStore(cfg.DraftRedisURL, cfg.DraftTTL)
	}
	return draft.NewMemoryStore(cfg.DraftTTL), nil
}

// runHealthcheck performs a health check against the local server
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8890"
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}

	return nil
}
