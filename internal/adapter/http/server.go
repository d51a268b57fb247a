package adapthttp

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"healthtrack/internal/app"
	"healthtrack/internal/domain"
	"healthtrack/internal/metrics"
)

// OIDCConfig holds the SSO provider. Enabled is false when SSO is not configured.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Services are the application services the server drives.
type Services struct {
	Readings  *app.ReadingService
	Dashboard *app.DashboardService
	Insights  *app.InsightService
	Auth      *app.AuthService
}

// Options configure the server's surroundings.
type Options struct {
	WebDir           string
	SessionTTL       time.Duration
	OIDC             OIDCConfig
	Ads              domain.AdCapability
	Log              *zap.Logger
	Metrics          *metrics.Collector
	LoginPerMinute   int
	InsightPerMinute int
	// ForwardAuthProxies are the peers whose Remote-User header is trusted.
	// Empty disables forward auth.
	ForwardAuthProxies []netip.Prefix
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	readings  *app.ReadingService
	dashboard *app.DashboardService
	insights  *app.InsightService
	authSvc   *app.AuthService

	oidcConfig   OIDCConfig
	ads          domain.AdCapability
	log          *zap.Logger
	metrics      *metrics.Collector
	webDir       string
	sessionTTL   time.Duration
	loginLimiter *keyedLimiter
	aiLimiter    *keyedLimiter
	proxies      []netip.Prefix

	disableAuth bool
	testUser    *domain.User
}

// New creates a Server wired to the given application services.
func New(svc Services, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Server{
		readings:     svc.Readings,
		dashboard:    svc.Dashboard,
		insights:     svc.Insights,
		authSvc:      svc.Auth,
		oidcConfig:   opts.OIDC,
		ads:          opts.Ads,
		log:          log,
		metrics:      opts.Metrics,
		webDir:       opts.WebDir,
		sessionTTL:   ttl,
		loginLimiter: newKeyedLimiter(opts.LoginPerMinute),
		aiLimiter:    newKeyedLimiter(opts.InsightPerMinute),
		proxies:      opts.ForwardAuthProxies,
	}
}

// WithoutAuth disables authentication; every request acts as user 1. For tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	s.testUser = &domain.User{ID: 1, Username: "test"}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.Handle("/auth/login", s.rateLimit(s.loginLimiter, clientIP, http.HandlerFunc(s.handleLogin)))
	api.Handle("/auth/signup", s.rateLimit(s.loginLimiter, clientIP, http.HandlerFunc(s.handleSignup)))
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)
	api.Handle("/auth/me", s.authMiddleware(http.HandlerFunc(s.handleMe)))

	api.Handle("/readings", s.authMiddleware(http.HandlerFunc(s.handleReadings)))
	api.Handle("/dashboard", s.authMiddleware(http.HandlerFunc(s.handleDashboard)))
	api.Handle("/insights/summary", s.authMiddleware(http.HandlerFunc(s.handleSummary)))
	api.Handle("/insights/ai", s.authMiddleware(s.rateLimit(s.aiLimiter, userKey, http.HandlerFunc(s.handleAIInsight))))
	api.Handle("/tips", s.authMiddleware(http.HandlerFunc(s.handleTips)))
	api.Handle("/charts", s.authMiddleware(http.HandlerFunc(s.handleCharts)))

	root := http.NewServeMux()
	root.Handle("/api/", s.loggingMiddleware(withNoCache(http.StripPrefix("/api", api))))
	if s.metrics != nil {
		root.Handle("/metrics", s.metrics.Handler())
	}
	root.Handle("/", spaFromDisk(s.webDir))

	return root
}
