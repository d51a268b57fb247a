// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Addr        string        `yaml:"addr"`
	WebDir      string        `yaml:"web_dir"`
	Store       string        `yaml:"store"`
	DatabaseURL string        `yaml:"database_url"`
	SessionTTL  time.Duration `yaml:"session_ttl"`

	Log       LogConfig         `yaml:"log"`
	OIDC      OIDCConfig        `yaml:"oidc"`
	Forward   ForwardAuthConfig `yaml:"forward_auth"`
	GenAI     GenAIConfig       `yaml:"genai"`
	Ads       AdsConfig         `yaml:"ads"`
	Insight   InsightConfig     `yaml:"insight"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
}

// LogConfig selects the logger level, encoding and destination.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"output_path"`
}

// OIDCConfig configures single sign-on through an OpenID Connect provider.
type OIDCConfig struct {
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether single sign-on is configured.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != "" && o.ClientID != ""
}

// GenAIConfig configures the generative-text backend and its circuit breaker.
type GenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	// Failures in a row before the breaker opens.
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// Enabled reports whether AI insights can be generated.
func (g GenAIConfig) Enabled() bool { return g.APIKey != "" }

// AdsConfig configures the interstitial ad placement.
type AdsConfig struct {
	Enabled bool   `yaml:"enabled"`
	UnitID  string `yaml:"unit_id"`
	Testing bool   `yaml:"testing"`
}

// InsightConfig sizes the reading windows behind summaries and tips.
type InsightConfig struct {
	SummaryWindow int `yaml:"summary_window"`
	TipWindow     int `yaml:"tip_window"`
}

// RateLimitConfig caps login attempts per IP and AI requests per user.
type RateLimitConfig struct {
	LoginPerMinute   int `yaml:"login_per_minute"`
	InsightPerMinute int `yaml:"insight_per_minute"`
}

// ForwardAuthConfig lets a reverse proxy authenticate users through the
// Remote-User header. The header is only honoured from TrustedProxies.
type ForwardAuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// IP addresses or CIDR prefixes.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Prefixes parses TrustedProxies. A bare address becomes a single-host prefix.
func (f ForwardAuthConfig) Prefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(f.TrustedProxies))
	for _, p := range f.TrustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		WebDir:     "web",
		Store:      "postgres",
		SessionTTL: 24 * time.Hour,
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		GenAI: GenAIConfig{
			Model:       "gemini-2.5-flash",
			MaxFailures: 3,
			OpenTimeout: 30 * time.Second,
		},
		Insight: InsightConfig{
			SummaryWindow: 10,
			TipWindow:     5,
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute:   10,
			InsightPerMinute: 6,
		},
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = env("ADDR", c.Addr)
	c.WebDir = env("WEB_DIR", c.WebDir)
	c.Store = env("STORE", c.Store)
	c.DatabaseURL = env("DATABASE_URL", c.DatabaseURL)
	c.SessionTTL = envDuration("SESSION_TTL", c.SessionTTL)

	c.Log.Level = env("LOG_LEVEL", c.Log.Level)
	c.Log.Format = env("LOG_FORMAT", c.Log.Format)
	c.Log.OutputPath = env("LOG_OUTPUT", c.Log.OutputPath)

	c.OIDC.Issuer = env("OIDC_ISSUER", c.OIDC.Issuer)
	c.OIDC.ClientID = env("OIDC_CLIENT_ID", c.OIDC.ClientID)
	c.OIDC.ClientSecret = env("OIDC_CLIENT_SECRET", c.OIDC.ClientSecret)
	c.OIDC.RedirectURL = env("OIDC_REDIRECT_URL", c.OIDC.RedirectURL)

	c.Forward.Enabled = envBool("FORWARD_AUTH_ENABLED", c.Forward.Enabled)
	if v := os.Getenv("FORWARD_AUTH_TRUSTED_PROXIES"); v != "" {
		c.Forward.TrustedProxies = strings.Split(v, ",")
	}

	c.GenAI.APIKey = env("GENAI_API_KEY", c.GenAI.APIKey)
	c.GenAI.Model = env("GENAI_MODEL", c.GenAI.Model)

	c.Ads.Enabled = envBool("ADS_ENABLED", c.Ads.Enabled)
	c.Ads.UnitID = env("ADS_UNIT_ID", c.Ads.UnitID)
	c.Ads.Testing = envBool("ADS_TESTING", c.Ads.Testing)

	c.Insight.SummaryWindow = envInt("INSIGHT_SUMMARY_WINDOW", c.Insight.SummaryWindow)
	c.Insight.TipWindow = envInt("INSIGHT_TIP_WINDOW", c.Insight.TipWindow)

	c.RateLimit.LoginPerMinute = envInt("RATE_LIMIT_LOGIN_PER_MINUTE", c.RateLimit.LoginPerMinute)
	c.RateLimit.InsightPerMinute = envInt("RATE_LIMIT_INSIGHT_PER_MINUTE", c.RateLimit.InsightPerMinute)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store {
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("store must be \"postgres\" or \"memory\", got %q", c.Store))
	}
	if c.Insight.SummaryWindow < 1 || c.Insight.SummaryWindow > 20 {
		errs = append(errs, fmt.Errorf("insight.summary_window must be within [1, 20], got %d", c.Insight.SummaryWindow))
	}
	if c.Insight.TipWindow < 1 || c.Insight.TipWindow > c.Insight.SummaryWindow {
		errs = append(errs, fmt.Errorf("insight.tip_window must be within [1, summary_window], got %d", c.Insight.TipWindow))
	}
	if c.Ads.Enabled && !c.Ads.Testing && c.Ads.UnitID == "" {
		errs = append(errs, errors.New("ADS_UNIT_ID is required when ads are enabled outside testing"))
	}
	if c.OIDC.Enabled() && c.OIDC.RedirectURL == "" {
		errs = append(errs, errors.New("OIDC_REDIRECT_URL is required when OIDC is configured"))
	}
	if c.Forward.Enabled {
		prefixes, err := c.Forward.Prefixes()
		switch {
		case err != nil:
			errs = append(errs, err)
		case len(prefixes) == 0:
			errs = append(errs, errors.New("FORWARD_AUTH_TRUSTED_PROXIES is required when forward auth is enabled"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
