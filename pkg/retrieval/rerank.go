package retrieval

import (
	"sort"
	"time"

	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

// Rerank weights. Similarity and risk dominate; recency breaks near-ties.
const (
	similarityWeight = 0.4
	riskWeight       = 0.4
	recencyWeight    = 0.2

	// defaultRecency applies when a memory has no parseable timestamp.
	defaultRecency = 0.5

	recencyFloor    = 0.1
	recencyHorizon  = 365.0
	hoursPerDay     = 24.0
)

// RankedMemory is a retrieved memory with its composite rerank score.
type RankedMemory struct {
	vector.ScoredPoint

	RerankScore float64
}

// Rerank orders memories by a composite of vector similarity, stored risk
// score, and recency. The sort is stable, so memories with equal composite
// scores keep their similarity order.
func Rerank(memories []vector.ScoredPoint, now time.Time) []RankedMemory {
	ranked := make([]RankedMemory, 0, len(memories))
	for _, m := range memories {
		ranked = append(ranked, RankedMemory{
			ScoredPoint: m,
			RerankScore: compositeScore(m, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RerankScore > ranked[j].RerankScore
	})

	return ranked
}

func compositeScore(m vector.ScoredPoint, now time.Time) float64 {
	riskScore := 0.0
	if v, ok := m.Payload[signal.FieldRiskScore].(float64); ok {
		riskScore = v
	}

	return similarityWeight*float64(m.Score) +
		riskWeight*riskScore +
		recencyWeight*recencyScore(m, now)
}

// recencyScore decays linearly from 1.0 to the floor over a year.
func recencyScore(m vector.ScoredPoint, now time.Time) float64 {
	raw, ok := m.Payload[signal.FieldTimestamp].(string)
	if !ok {
		return defaultRecency
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return defaultRecency
	}

	days := now.Sub(ts).Hours() / hoursPerDay

	return max(recencyFloor, 1.0-days/recencyHorizon)
}
