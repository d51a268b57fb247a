// Command healthtrack serves the health-tracking API and offers offline tools
// over the same insight engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthtrack/internal/adapter/memory"
	"healthtrack/internal/adapter/postgres"
	"healthtrack/internal/config"
	"healthtrack/internal/domain"
	"healthtrack/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "healthtrack",
	Short: "Personal health tracking: readings, insights and tips",
	Long: `healthtrack records vital-sign readings and turns the most recent ones into
aggregated statistics, a time-series chart and rule-based health tips.

Configuration is read from an optional YAML file and overridden by the
environment (ADDR, DATABASE_URL, STORE, LOG_LEVEL, GENAI_API_KEY, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("HEALTHTRACK_CONFIG"), "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd, summarizeCmd, createUserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger every command shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

type store struct {
	readings domain.ReadingRepository
	users    domain.UserRepository
	sessions domain.SessionRepository
	close    func() error
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store, error) {
	if cfg.Store == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		db := memory.New()
		return &store{readings: db, users: db, sessions: db.NewSessionRepo(), close: func() error { return nil }}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return &store{readings: db, users: db, sessions: postgres.NewSessionRepo(db), close: db.Close}, nil
}
