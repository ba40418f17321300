package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"handle-analyzer/analysis"
	"handle-analyzer/cmd/api/auth"
	"handle-analyzer/cmd/api/httpclient"
	"handle-analyzer/cmd/api/router"
	"handle-analyzer/cmd/api/services"
	"handle-analyzer/cmd/internal/logger"
	"handle-analyzer/config"
	"handle-analyzer/grok"
)

// @title           Handle Analyzer API
// @version         1.0
// @description     X handle analysis gateway over the Grok chat-completions API
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level, "handle-analyzer-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Errorf("api server exited: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.AppConfig) error {
	handler, err := buildHandler(cfg)
	if err != nil {
		return err
	}

	server := newServer(cfg.Server, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoWithFields("api server listening", logger.Fields{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Log.Info("shutting down api server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newServer 는 요청 바디를 읽는 동안에는 타임아웃을 두지 않는다.
// 업스트림 호출 시간은 provider.timeout 이 제한한다.
func newServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func buildHandler(cfg config.AppConfig) (http.Handler, error) {
	apiKey := cfg.ProviderAPIKey()
	if apiKey == "" {
		logger.WarnWithFields("provider api key is not set, upstream calls will be rejected", logger.Fields{
			"env": cfg.Provider.APIKeyEnv,
		})
	}

	client, err := grok.New(grok.Config{
		BaseURL:  cfg.Provider.BaseURL,
		ChatPath: cfg.Provider.ChatPath,
		APIKey:   apiKey,
	}, httpclient.New(httpclient.Config{Timeout: cfg.Provider.Timeout}))
	if err != nil {
		return nil, fmt.Errorf("grok client: %w", err)
	}

	settings, err := cfg.AnalysisSettings()
	if err != nil {
		return nil, fmt.Errorf("analysis settings: %w", err)
	}
	builder, err := analysis.NewPayloadBuilder(settings)
	if err != nil {
		return nil, fmt.Errorf("payload builder: %w", err)
	}

	var verifier *auth.JWTVerifier
	if secret := cfg.JWTSecret(); secret != "" {
		verifier, err = auth.NewJWTVerifier(secret, cfg.Auth.JWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("jwt verifier: %w", err)
		}
	} else {
		logger.WarnWithFields("jwt secret is not set, only credential presence is checked", logger.Fields{
			"env": cfg.Auth.JWTSecretEnv,
		})
	}

	engine := router.New(router.Deps{
		AnalysisService: services.NewAnalysisService(client, builder),
		Verifier:        verifier,
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	})
	return c.Handler(engine), nil
}
