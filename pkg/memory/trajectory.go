package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

// Trajectory statuses.
const (
	StatusNoData           = "no_data"
	StatusInsufficientData = "insufficient_data"
	StatusAnalyzed         = "analyzed"
)

// Risk trends.
const (
	TrendStable        = "stable"
	TrendImproving     = "improving"
	TrendDeteriorating = "deteriorating"
)

// Alert levels from deterioration detection.
const (
	AlertHighPriority = "high_priority"
	AlertMonitor      = "monitor"
	AlertNone         = "none"
)

// trendShift is the mean risk change that separates a trend from noise.
const trendShift = 0.15

// Trajectory summarizes a user's risk movement over a window.
type Trajectory struct {
	Status      string  `json:"status"`
	Trend       string  `json:"risk_trend"`
	OlderAvg    float64 `json:"older_avg_risk"`
	RecentAvg   float64 `json:"recent_avg_risk"`
	SignalCount int     `json:"signal_count"`
}

// Alert is the outcome of deterioration detection.
type Alert struct {
	Level      string      `json:"alert"`
	Message    string      `json:"message"`
	Trajectory *Trajectory `json:"trajectory"`
}

// Trajectory analyzes the user's risk scores over the past windowDays.
// windowDays of zero or less falls back to the configured window.
func (m *Manager) Trajectory(ctx context.Context, userID string, windowDays int) (*Trajectory, error) {
	if windowDays <= 0 {
		windowDays = m.cfg.TrajectoryWindowDays
	}

	cutoff := float64(m.now().AddDate(0, 0, -windowDays).Unix())

	filter := &vector.Filter{Must: []vector.Condition{
		vector.Match(signal.FieldUserID, userID),
		vector.GTE(signal.FieldUnixTS, cutoff),
	}}

	points, err := m.store.Scroll(ctx, vector.CollectionUserMemory, filter, scrollLimit)
	if err != nil {
		return nil, fmt.Errorf("scanning memories for trajectory: %w", err)
	}

	signals := make([]signal.HealthSignal, 0, len(points))
	for _, p := range points {
		signals = append(signals, signal.FromPayload(p.ID, p.Payload))
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Timestamp.Before(signals[j].Timestamp)
	})

	scores := make([]float64, 0, len(signals))
	for _, s := range signals {
		scores = append(scores, s.RiskScore)
	}

	return analyzeScores(scores), nil
}

// analyzeScores splits the chronological scores at the midpoint and
// compares the two halves' means.
func analyzeScores(scores []float64) *Trajectory {
	if len(scores) == 0 {
		return &Trajectory{Status: StatusNoData, Trend: TrendStable}
	}

	if len(scores) < 2 {
		return &Trajectory{Status: StatusInsufficientData, Trend: TrendStable, SignalCount: len(scores)}
	}

	mid := len(scores) / 2
	olderAvg := mean(scores[:mid])
	recentAvg := mean(scores[mid:])

	trend := TrendStable
	switch {
	case recentAvg > olderAvg+trendShift:
		trend = TrendDeteriorating
	case recentAvg < olderAvg-trendShift:
		trend = TrendImproving
	}

	return &Trajectory{
		Status:      StatusAnalyzed,
		Trend:       trend,
		OlderAvg:    olderAvg,
		RecentAvg:   recentAvg,
		SignalCount: len(scores),
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

// DetectDeterioration checks the user's trajectory over timeWindow days
// and escalates when the trend is deteriorating. A deteriorating trend
// with a recent average above the high threshold is a high priority alert.
func (m *Manager) DetectDeterioration(ctx context.Context, userID string, windowDays int) (*Alert, error) {
	traj, err := m.Trajectory(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	if traj.Trend == TrendDeteriorating {
		if traj.RecentAvg > m.cfg.HighThreshold {
			return &Alert{
				Level:      AlertHighPriority,
				Message:    "Silent deterioration detected - high risk",
				Trajectory: traj,
			}, nil
		}

		return &Alert{
			Level:      AlertMonitor,
			Message:    "Mild deterioration - continue monitoring",
			Trajectory: traj,
		}, nil
	}

	return &Alert{
		Level:      AlertNone,
		Message:    "Health stable or improving",
		Trajectory: traj,
	}, nil
}
