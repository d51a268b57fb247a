package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
	"healthtrack/internal/metrics"
)

// ReadingService encapsulates the reading submission use cases.
type ReadingService struct {
	repo    domain.ReadingRepository
	ads     domain.AdCapability
	log     *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewReadingService creates a ReadingService. ads must not be nil; use the
// no-op capability when ads are unavailable.
func NewReadingService(repo domain.ReadingRepository, ads domain.AdCapability, log *zap.Logger, m *metrics.Collector) *ReadingService {
	return &ReadingService{repo: repo, ads: ads, log: log, metrics: m, now: time.Now}
}

// Record validates raw and stores it for its owner.
func (s *ReadingService) Record(ctx context.Context, raw insight.RawReading) (domain.Reading, error) {
	r, err := insight.Validate(raw, s.now())
	if err != nil {
		field, reason := validationReason(err)
		s.metrics.ValidationFailed(field, reason)
		s.log.Debug("reading rejected", zap.Int64("owner", raw.OwnerID), zap.Error(err))
		return domain.Reading{}, err
	}

	s.showInterstitial(ctx)

	id, err := s.repo.CreateReading(ctx, r)
	if err != nil {
		s.metrics.StoreFailed("create", storeKind(err))
		s.log.Error("store reading", zap.Int64("owner", r.OwnerID), zap.Error(err))
		return domain.Reading{}, fmt.Errorf("record reading: %w", err)
	}
	r.ID = id
	s.metrics.ReadingRecorded()
	s.log.Info("reading recorded", zap.Int64("owner", r.OwnerID), zap.Int64("id", id))
	return r, nil
}

// ListRecent returns up to limit readings of ownerID, newest first.
func (s *ReadingService) ListRecent(ctx context.Context, ownerID int64, limit int) ([]domain.Reading, error) {
	items, err := s.repo.ListRecentReadings(ctx, ownerID, limit)
	if err != nil {
		s.metrics.StoreFailed("list", storeKind(err))
		return nil, err
	}
	return items, nil
}

// showInterstitial shows a prepared ad and preloads the next one. Ad
// failures never block a submission.
func (s *ReadingService) showInterstitial(ctx context.Context) {
	if !s.ads.Enabled() {
		return
	}
	if err := s.ads.Show(ctx); err != nil {
		s.metrics.AdShown("failed")
		s.log.Warn("interstitial ad failed to show, continuing", zap.Error(err))
	} else {
		s.metrics.AdShown("shown")
	}
	if err := s.ads.Prepare(ctx); err != nil {
		s.log.Warn("interstitial preload failed", zap.Error(err))
	}
}
