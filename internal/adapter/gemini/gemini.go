// Package gemini adapts the Google Gen AI SDK to domain.InsightGenerator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"healthtrack/internal/config"
	"healthtrack/internal/domain"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned no text")

type generateFunc func(ctx context.Context, prompt string) (string, error)

// Generator calls a Gemini model through a circuit breaker, so a failing
// service is not hammered by every dashboard refresh.
type Generator struct {
	call    generateFunc
	breaker *gobreaker.CircuitBreaker[string]
	log     *zap.Logger
}

var _ domain.InsightGenerator = (*Generator)(nil)

// New creates a Generator for cfg. It fails when no API key is configured.
func New(ctx context.Context, cfg config.GenAIConfig, log *zap.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	call := func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return newGenerator(call, cfg, log), nil
}

func newGenerator(call generateFunc, cfg config.GenAIConfig, log *zap.Logger) *Generator {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	settings := gobreaker.Settings{
		Name:        "genai",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A canceled request says nothing about the service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &Generator{
		call:    call,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		log:     log,
	}
}

// Generate sends prompt to the model and returns its text answer.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := g.breaker.Execute(func() (string, error) {
		text, err := g.call(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return text, nil
}

// State reports the breaker state, for health output.
func (g *Generator) State() string {
	return g.breaker.State().String()
}
