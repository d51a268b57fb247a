package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"healthtrack/internal/adapter/ads"
	"healthtrack/internal/adapter/gemini"
	adapthttp "healthtrack/internal/adapter/http"
	"healthtrack/internal/app"
	"healthtrack/internal/config"
	"healthtrack/internal/domain"
	"healthtrack/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	m := metrics.NewCollector("healthtrack", nil)
	adCap := ads.New(cfg.Ads, log)

	var gen domain.InsightGenerator
	if cfg.GenAI.Enabled() {
		g, err := gemini.New(ctx, cfg.GenAI, log)
		if err != nil {
			return err
		}
		gen = g
		log.Info("ai insights enabled", zap.String("model", cfg.GenAI.Model))
	}

	oidcCfg, err := setupOIDC(ctx, cfg.OIDC)
	if err != nil {
		return err
	}

	proxies, err := cfg.Forward.Prefixes()
	if err != nil {
		return err
	}
	if !cfg.Forward.Enabled {
		proxies = nil
	} else {
		log.Info("forward auth enabled", zap.Strings("trusted_proxies", cfg.Forward.TrustedProxies))
	}

	authSvc := app.NewAuthService(st.users, st.sessions, cfg.SessionTTL)
	svc := adapthttp.Services{
		Readings:  app.NewReadingService(st.readings, adCap, log.Named("readings"), m),
		Dashboard: app.NewDashboardService(st.readings, log.Named("dashboard"), m, cfg.Insight.SummaryWindow, cfg.Insight.TipWindow),
		Insights:  app.NewInsightService(st.readings, gen, log.Named("ai"), m, cfg.Insight.SummaryWindow),
		Auth:      authSvc,
	}
	h := adapthttp.New(svc, adapthttp.Options{
		WebDir:           cfg.WebDir,
		SessionTTL:       cfg.SessionTTL,
		OIDC:             oidcCfg,
		Ads:              adCap,
		Log:              log.Named("http"),
		Metrics:          m,
		LoginPerMinute:   cfg.RateLimit.LoginPerMinute,
		InsightPerMinute: cfg.RateLimit.InsightPerMinute,

		ForwardAuthProxies: proxies,
	}).Handler()

	go purgeSessions(ctx, authSvc, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupOIDC(ctx context.Context, cfg config.OIDCConfig) (adapthttp.OIDCConfig, error) {
	if !cfg.Enabled() {
		return adapthttp.OIDCConfig{}, nil
	}
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider: %w", err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func purgeSessions(ctx context.Context, auth *app.AuthService, log *zap.Logger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := auth.PurgeExpired(ctx); err != nil {
				log.Warn("purge expired sessions", zap.Error(err))
			}
		}
	}
}
