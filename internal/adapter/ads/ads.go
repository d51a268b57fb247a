// Package ads provides the interstitial ad capability used around reading
// submission. The server tracks the prepare/show cycle and hands the unit id
// to the client, which renders the ad with the mobile SDK.
package ads

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"healthtrack/internal/config"
	"healthtrack/internal/domain"
)

// TestUnitID is the public AdMob interstitial test unit.
const TestUnitID = "ca-app-pub-3940256099942544/1033173712"

// ErrNotPrepared is returned by Show when no ad was preloaded.
var ErrNotPrepared = errors.New("interstitial not prepared")

// New selects the capability for cfg once at startup.
func New(cfg config.AdsConfig, log *zap.Logger) domain.AdCapability {
	if !cfg.Enabled {
		return Noop{}
	}
	unit := cfg.UnitID
	if cfg.Testing || unit == "" {
		unit = TestUnitID
	}
	log.Info("interstitial ads enabled", zap.String("unit", unit), zap.Bool("testing", cfg.Testing))
	return NewInterstitial(unit)
}

// Noop is the capability on platforms without ads.
type Noop struct{}

func (Noop) Enabled() bool                 { return false }
func (Noop) UnitID() string                { return "" }
func (Noop) Prepare(context.Context) error { return nil }
func (Noop) Show(context.Context) error    { return nil }

// Interstitial is a single-slot interstitial: Prepare loads one ad, Show
// consumes it.
type Interstitial struct {
	unitID string

	mu       sync.Mutex
	prepared bool
}

// NewInterstitial returns an Interstitial for unitID with its first ad
// already requested.
func NewInterstitial(unitID string) *Interstitial {
	return &Interstitial{unitID: unitID, prepared: true}
}

func (a *Interstitial) Enabled() bool  { return true }
func (a *Interstitial) UnitID() string { return a.unitID }

// Prepare preloads the next ad.
func (a *Interstitial) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	a.prepared = true
	a.mu.Unlock()
	return nil
}

// Show consumes the prepared ad.
func (a *Interstitial) Show(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.prepared {
		return ErrNotPrepared
	}
	a.prepared = false
	return nil
}
