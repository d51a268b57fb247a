package domain

import "context"

// InsightGenerator turns a prompt into free text. Implementations call a
// remote generative-text service.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AdCapability is an optional interstitial ad placement. When ads are not
// available a no-op implementation is used instead.
type AdCapability interface {
	Enabled() bool
	UnitID() string
	Prepare(ctx context.Context) error
	Show(ctx context.Context) error
}
