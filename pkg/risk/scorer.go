// Package risk scores health signals. Scores combine a bilingual symptom
// severity table with pregnancy stage, age, and the user's retrieved
// history, and always land in [0.1, 1.0].
package risk

import (
	"log/slog"
	"strings"

	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

// Category buckets a numeric score for triage display.
type Category string

const (
	CategoryHigh   Category = "high"
	CategoryMedium Category = "medium"
	CategoryLow    Category = "low"
)

// Score bounds and adjustment constants.
const (
	// defaultSeverity applies when no symptom term matches. Unrecognized
	// complaints are low-moderate, never zero.
	defaultSeverity = 0.3

	floorScore = 0.1
	ceilScore  = 1.0

	// ageRiskMultiplier applies to mothers under 18 or over 35.
	ageRiskMultiplier = 1.15
	youngMotherAge    = 18
	olderMotherAge    = 35

	// History boost: each of the top memories that was both high risk
	// and closely similar adds boostPerMemory, capped at maxMemoryBoost.
	boostPerMemory      = 0.1
	maxMemoryBoost      = 0.3
	boostMemoryWindow   = 3
	boostRiskThreshold  = 0.7
	boostScoreThreshold = 0.8
)

// symptomSeverity maps lowercase symptom terms (English and Hindi) to a
// base severity. Matching is by substring, so multi-word entries must
// appear verbatim in the signal text.
var symptomSeverity = map[string]float64{
	// High risk
	"bleeding":       0.9,
	"खून":            0.9,
	"severe pain":    0.8,
	"बहुत दर्द":      0.8,
	"unconscious":    1.0,
	"बेहोश":          1.0,
	"convulsion":     0.95,
	"दौरा":           0.95,
	"blurred vision": 0.75,
	"धुंधला दिखना":   0.75,
	"swelling":       0.6,
	"सूजन":           0.6,

	// Medium risk
	"headache":  0.5,
	"सिरदर्द":   0.5,
	"fever":     0.6,
	"बुखार":     0.6,
	"vomiting":  0.55,
	"उल्टी":     0.55,
	"dizziness": 0.5,
	"चक्कर":     0.5,
	"weakness":  0.4,
	"कमजोरी":    0.4,

	// Low risk
	"nausea":    0.3,
	"मतली":      0.3,
	"tired":     0.25,
	"थकान":      0.25,
	"back pain": 0.3,
	"पीठ दर्द":  0.3,
}

// stageMultipliers scale risk by pregnancy stage. The third trimester and
// postpartum weeks carry the most danger.
var stageMultipliers = map[signal.PregnancyStage]float64{
	signal.StageFirstTrimester:  1.1,
	signal.StageSecondTrimester: 1.0,
	signal.StageThirdTrimester:  1.2,
	signal.StagePostpartum:      1.15,
	signal.StageNone:            1.0,
}

// Scorer computes risk scores. Thresholds come from config so deployments
// can tune triage sensitivity without a rebuild.
type Scorer struct {
	highThreshold   float64
	mediumThreshold float64
	logger          *slog.Logger
}

// NewScorer builds a Scorer with the given category thresholds.
func NewScorer(highThreshold, mediumThreshold float64, logger *slog.Logger) *Scorer {
	return &Scorer{
		highThreshold:   highThreshold,
		mediumThreshold: mediumThreshold,
		logger:          logger,
	}
}

// Score computes the composite risk score for a signal text given the
// user's context and (optionally) their retrieved memory history.
func (s *Scorer) Score(text string, user signal.UserContext, memories []vector.ScoredPoint) float64 {
	base := matchSymptomSeverity(text)

	multiplier, ok := stageMultipliers[user.PregnancyStage]
	if !ok {
		multiplier = 1.0
	}

	adjusted := base * multiplier

	adjusted = min(ceilScore, adjusted+memoryBoost(memories))

	if user.Age > 0 && (user.Age < youngMotherAge || user.Age > olderMotherAge) {
		adjusted = min(ceilScore, adjusted*ageRiskMultiplier)
	}

	final := min(ceilScore, max(floorScore, adjusted))

	s.logger.Debug("risk scored",
		"score", final,
		"base", base,
		"stage", user.PregnancyStage,
	)

	return final
}

// Categorize buckets a score using the configured thresholds.
func (s *Scorer) Categorize(score float64) Category {
	switch {
	case score >= s.highThreshold:
		return CategoryHigh
	case score >= s.mediumThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// HighThreshold exposes the configured high-risk boundary for callers that
// need to filter on it.
func (s *Scorer) HighThreshold() float64 { return s.highThreshold }

// MediumThreshold exposes the configured medium-risk boundary.
func (s *Scorer) MediumThreshold() float64 { return s.mediumThreshold }

// matchSymptomSeverity returns the highest severity of any symptom term
// present in the text, or defaultSeverity when none match.
func matchSymptomSeverity(text string) float64 {
	lower := strings.ToLower(text)

	severity := 0.0
	matched := false
	for term, s := range symptomSeverity {
		if strings.Contains(lower, term) {
			matched = true
			if s > severity {
				severity = s
			}
		}
	}

	if !matched {
		return defaultSeverity
	}

	return severity
}

// memoryBoost adds risk when the user's closest past signals were
// themselves high risk. Only the top few memories count, and each must be
// both high risk and strongly similar.
func memoryBoost(memories []vector.ScoredPoint) float64 {
	boost := 0.0
	for i, m := range memories {
		if i >= boostMemoryWindow {
			break
		}

		pastRisk, ok := m.Payload[signal.FieldRiskScore].(float64)
		if !ok {
			continue
		}

		if pastRisk > boostRiskThreshold && float64(m.Score) > boostScoreThreshold {
			boost += boostPerMemory
		}
	}

	return min(maxMemoryBoost, boost)
}
