// Package memory manages the long-term evolution of user health memories:
// storage with reinforcement of recurring signals, decay of stale low-risk
// records, trajectory analysis, and population insights.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gramhealthco/asha/pkg/embeddings"
	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

const (
	// reinforceSimilarity is the strict lower bound for treating a past
	// signal as a recurrence of the current one.
	reinforceSimilarity = 0.85

	// reinforceSearchLimit bounds the recurrence search.
	reinforceSearchLimit = 5

	// scrollLimit bounds maintenance scans over a user's memories.
	scrollLimit = 100

	maxRiskScore = 1.0
)

// Config tunes memory evolution.
type Config struct {
	// DecayFactor multiplies the risk score of stale low-risk memories.
	DecayFactor float64

	// DecayAgeDays is the minimum age before a memory is decay-eligible.
	DecayAgeDays int

	// ReinforcementBoost multiplies the risk score of a reinforced memory.
	ReinforcementBoost float64

	// TrajectoryWindowDays is the default analysis window.
	TrajectoryWindowDays int

	// HighThreshold and MediumThreshold are the risk category boundaries.
	HighThreshold   float64
	MediumThreshold float64
}

// Manager owns writes to the user memory and insight collections.
type Manager struct {
	store    vector.Store
	embedder embeddings.Embedder
	cfg      Config
	logger   *slog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewManager builds a memory manager.
func NewManager(store vector.Store, embedder embeddings.Embedder, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// StoreHealthSignal validates, embeds, and stores a signal, then
// reinforces any closely similar past signals from the same user.
// It returns the new point ID.
func (m *Manager) StoreHealthSignal(ctx context.Context, s signal.HealthSignal) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("invalid health signal: %w", err)
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	if s.Timestamp.IsZero() {
		s.Timestamp = m.now()
	}

	enriched := embeddings.EnrichQuery(s.Text, s.User.Age, string(s.User.PregnancyStage))
	vec, err := m.embedder.Embed(ctx, enriched)
	if err != nil {
		return "", fmt.Errorf("embedding signal: %w", err)
	}

	err = m.store.Upsert(ctx, vector.CollectionUserMemory, vector.Point{
		ID:      s.ID,
		Vector:  vec,
		Payload: s.Payload(),
	})
	if err != nil {
		return "", fmt.Errorf("storing signal: %w", err)
	}

	if err := m.reinforce(ctx, vec, s.User.UserID, s.ID); err != nil {
		// The signal itself is stored; reinforcement is best effort.
		m.logger.Warn("reinforcement pass failed", "user_id", s.User.UserID, "error", err)
	}

	m.logger.Info("stored health signal", "id", s.ID, "user_id", s.User.UserID, "risk_score", s.RiskScore)

	return s.ID, nil
}

// reinforce boosts the risk of past signals that closely match the new
// one. The boost applies once per new signal; reinforced memories do not
// cascade into further boosts.
func (m *Manager) reinforce(ctx context.Context, vec []float32, userID, currentID string) error {
	filter := &vector.Filter{Must: []vector.Condition{vector.Match(signal.FieldUserID, userID)}}

	similar, err := m.store.Search(ctx, vector.CollectionUserMemory, vec, filter, reinforceSearchLimit)
	if err != nil {
		return err
	}

	for _, mem := range similar {
		if mem.ID == currentID {
			continue
		}

		// Compared as float32: widening the score first would nudge a
		// boundary score just past the constant and wrongly trigger.
		if mem.Score <= reinforceSimilarity {
			continue
		}

		past := signal.FromPayload(mem.ID, mem.Payload)
		boosted := min(maxRiskScore, past.RiskScore*m.cfg.ReinforcementBoost)

		err := m.store.SetPayload(ctx, vector.CollectionUserMemory, []string{mem.ID}, map[string]any{
			signal.FieldRiskScore:          boosted,
			signal.FieldReinforcementCount: past.ReinforcementCount + 1,
		})
		if err != nil {
			return err
		}

		m.logger.Info("reinforced memory",
			"id", mem.ID,
			"user_id", userID,
			"risk_before", past.RiskScore,
			"risk_after", boosted,
		)
	}

	return nil
}

// ApplyDecay multiplies the risk score of a user's stale, below-medium
// memories by the decay factor. It returns the number of memories decayed.
func (m *Manager) ApplyDecay(ctx context.Context, userID string) (int, error) {
	cutoff := float64(m.now().AddDate(0, 0, -m.cfg.DecayAgeDays).Unix())

	filter := &vector.Filter{Must: []vector.Condition{
		vector.Match(signal.FieldUserID, userID),
		vector.LT(signal.FieldUnixTS, cutoff),
		vector.LT(signal.FieldRiskScore, m.cfg.MediumThreshold),
	}}

	points, err := m.store.Scroll(ctx, vector.CollectionUserMemory, filter, scrollLimit)
	if err != nil {
		return 0, fmt.Errorf("scanning memories for decay: %w", err)
	}

	for _, p := range points {
		current := signal.FromPayload(p.ID, p.Payload).RiskScore

		err := m.store.SetPayload(ctx, vector.CollectionUserMemory, []string{p.ID}, map[string]any{
			signal.FieldRiskScore: current * m.cfg.DecayFactor,
		})
		if err != nil {
			return 0, fmt.Errorf("decaying memory %s: %w", p.ID, err)
		}
	}

	m.logger.Info("applied memory decay", "user_id", userID, "decayed", len(points))

	return len(points), nil
}

// EraseUser deletes every memory belonging to the user.
func (m *Manager) EraseUser(ctx context.Context, userID string) error {
	filter := &vector.Filter{Must: []vector.Condition{vector.Match(signal.FieldUserID, userID)}}

	if err := m.store.Delete(ctx, vector.CollectionUserMemory, filter); err != nil {
		return fmt.Errorf("erasing user %s: %w", userID, err)
	}

	m.logger.Info("erased user memories", "user_id", userID)

	return nil
}

// Insight types for the population collection.
const (
	InsightTypeTrend   = "trend"
	InsightTypeAlert   = "alert"
	InsightTypePattern = "pattern"
)

// CreatePopulationInsight stores a district-level insight for supervisor
// dashboards. The text is embedded as-is; insights carry no user context.
func (m *Manager) CreatePopulationInsight(ctx context.Context, district, text, insightType string) (string, error) {
	if district == "" || text == "" {
		return "", fmt.Errorf("insight requires a district and text")
	}

	switch insightType {
	case InsightTypeTrend, InsightTypeAlert, InsightTypePattern:
	case "":
		insightType = InsightTypeTrend
	default:
		return "", fmt.Errorf("unknown insight type %q", insightType)
	}

	if err := signal.CheckSanitized(text); err != nil {
		return "", fmt.Errorf("insight text: %w", err)
	}

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embedding insight: %w", err)
	}

	id := uuid.NewString()
	now := m.now()

	err = m.store.Upsert(ctx, vector.CollectionInsights, vector.Point{
		ID:     id,
		Vector: vec,
		Payload: map[string]any{
			signal.FieldDistrict:  district,
			"insight_type":        insightType,
			"content":             text,
			signal.FieldTimestamp: now.UTC().Format(time.RFC3339),
			signal.FieldUnixTS:    float64(now.Unix()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("storing insight: %w", err)
	}

	m.logger.Info("created population insight", "district", district, "type", insightType)

	return id, nil
}

// HighRiskUser is a roster entry for supervisor follow-up.
type HighRiskUser struct {
	UserID      string    `json:"user_id"`
	MaxRisk     float64   `json:"max_risk"`
	SignalCount int       `json:"signal_count"`
	LastSignal  time.Time `json:"last_signal"`
}

// HighRiskUsers aggregates users with at least one memory at or above the
// high threshold, ordered by their worst score.
func (m *Manager) HighRiskUsers(ctx context.Context) ([]HighRiskUser, error) {
	filter := &vector.Filter{Must: []vector.Condition{
		vector.GTE(signal.FieldRiskScore, m.cfg.HighThreshold),
	}}

	points, err := m.store.Scroll(ctx, vector.CollectionUserMemory, filter, scrollLimit)
	if err != nil {
		return nil, fmt.Errorf("scanning high risk memories: %w", err)
	}

	byUser := make(map[string]*HighRiskUser)
	for _, p := range points {
		s := signal.FromPayload(p.ID, p.Payload)
		if s.User.UserID == "" {
			continue
		}

		entry, ok := byUser[s.User.UserID]
		if !ok {
			entry = &HighRiskUser{UserID: s.User.UserID}
			byUser[s.User.UserID] = entry
		}

		entry.SignalCount++
		if s.RiskScore > entry.MaxRisk {
			entry.MaxRisk = s.RiskScore
		}
		if s.Timestamp.After(entry.LastSignal) {
			entry.LastSignal = s.Timestamp
		}
	}

	roster := make([]HighRiskUser, 0, len(byUser))
	for _, entry := range byUser {
		roster = append(roster, *entry)
	}

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].MaxRisk != roster[j].MaxRisk {
			return roster[i].MaxRisk > roster[j].MaxRisk
		}
		return roster[i].UserID < roster[j].UserID
	})

	return roster, nil
}
