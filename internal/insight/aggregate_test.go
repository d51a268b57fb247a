package insight_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
)

func sampleWindow() []domain.Reading {
	return []domain.Reading{
		reading(1, at(0), hr(70), bp("120/80"), oxygen(97), weight(80)),
		reading(2, at(1), hr(95), oxygen(94)),
		reading(3, at(2), hr(58), bp("118/76"), weight(83)),
		reading(4, at(3), oxygen(99), temp(36.9)),
	}
}

func TestSummarize_EmptyWindow(t *testing.T) {
	s := insight.Summarize(nil)

	assert.True(t, s.NoData)
	assert.Equal(t, 0, s.RecordCount)
	assert.Nil(t, s.LatestBloodPressure)
	assert.Nil(t, s.LatestAt)
	for _, m := range insight.SummaryMetrics {
		ms := s.Metric(m)
		assert.Equal(t, 0, ms.SampleCount, m)
		assert.Nil(t, ms.Average, m)
		assert.Nil(t, ms.Min, m)
		assert.Nil(t, ms.Max, m)
	}
}

func TestSummarize_ExcludesAbsentValues(t *testing.T) {
	s := insight.Summarize(sampleWindow())
	require.False(t, s.NoData)
	assert.Equal(t, 4, s.RecordCount)

	heart := s.Metric(domain.MetricHeartRate)
	assert.Equal(t, 3, heart.SampleCount)
	assert.InDelta(t, (70.0+95+58)/3, *heart.Average, 1e-9)
	assert.Equal(t, 58.0, *heart.Min)
	assert.Equal(t, 95.0, *heart.Max)

	w := s.Metric(domain.MetricWeight)
	assert.Equal(t, 2, w.SampleCount)
	assert.InDelta(t, 81.5, *w.Average, 1e-9, "absent weights must not count as zero")
	assert.Equal(t, 80.0, *w.Min)

	sugar := s.Metric(domain.MetricBloodSugar)
	assert.Equal(t, 0, sugar.SampleCount)
	assert.Nil(t, sugar.Average)
}

func TestSummarize_LatestBloodPressureUsesTimestamp(t *testing.T) {
	window := sampleWindow()
	slices.Reverse(window)

	s := insight.Summarize(window)
	require.NotNil(t, s.LatestBloodPressure)
	assert.Equal(t, "118/76", *s.LatestBloodPressure)
	require.NotNil(t, s.LatestAt)
	assert.Equal(t, at(3), *s.LatestAt)
}

func TestSummarize_LatestBloodPressureKeptVerbatim(t *testing.T) {
	s := insight.Summarize([]domain.Reading{reading(1, at(0), bp("garbled"))})
	require.NotNil(t, s.LatestBloodPressure)
	assert.Equal(t, "garbled", *s.LatestBloodPressure)
}

func TestSummarize_AverageWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		n := 1 + rng.IntN(20)
		window := make([]domain.Reading, n)
		for j := range window {
			r := reading(int64(j), at(j))
			if rng.IntN(3) > 0 {
				r.Weight = floatp(40 + rng.Float64()*80)
			}
			if rng.IntN(3) > 0 {
				r.HeartRate = intp(20 + rng.IntN(230))
			}
			window[j] = r
		}

		s := insight.Summarize(window)
		for _, m := range insight.SummaryMetrics {
			ms := s.Metric(m)
			if !ms.Available() {
				continue
			}
			assert.GreaterOrEqual(t, *ms.Average, *ms.Min, "metric %s", m)
			assert.LessOrEqual(t, *ms.Average, *ms.Max, "metric %s", m)
		}
	}
}

func TestSummarize_IdenticalValuesStayInBounds(t *testing.T) {
	window := make([]domain.Reading, 0, 20)
	for i := 0; i < 20; i++ {
		window = append(window, reading(int64(i), at(i), weight(0.1)))
	}
	w := insight.Summarize(window).Metric(domain.MetricWeight)
	assert.Equal(t, 0.1, *w.Average)
}

func TestSummarize_OrderIndependentAndIdempotent(t *testing.T) {
	window := sampleWindow()
	// Two readings sharing a timestamp must still resolve deterministically.
	window = append(window, reading(9, at(3), bp("150/95"), weight(0.3)), reading(8, at(3), weight(0.7), bp("100/70")))

	want := insight.Summarize(window)
	if diff := cmp.Diff(want, insight.Summarize(window)); diff != "" {
		t.Fatalf("second call differs (-first +second):\n%s", diff)
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 50; i++ {
		shuffled := slices.Clone(window)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(want, insight.Summarize(shuffled)); diff != "" {
			t.Fatalf("shuffle %d changed the summary (-want +got):\n%s", i, diff)
		}
	}
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	window := sampleWindow()
	before := slices.Clone(window)
	insight.Summarize(window)
	insight.ProjectAll(window)
	if diff := cmp.Diff(before, window); diff != "" {
		t.Fatalf("input window was modified:\n%s", diff)
	}
}
