package retrieval_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gramhealthco/asha/pkg/retrieval"
	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

func TestRetrieval(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Retrieval Suite")
}

func memoryPoint(id string, sim float32, riskScore float64, age time.Duration, now time.Time) vector.ScoredPoint {
	return vector.ScoredPoint{
		Point: vector.Point{
			ID: id,
			Payload: map[string]any{
				signal.FieldRiskScore: riskScore,
				signal.FieldTimestamp: now.Add(-age).UTC().Format(time.RFC3339),
			},
		},
		Score: sim,
	}
}

var _ = Describe("Rerank", func() {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	It("prefers high-risk memories over marginally more similar low-risk ones", func() {
		lowRisk := memoryPoint("low", 0.85, 0.1, 24*time.Hour, now)
		highRisk := memoryPoint("high", 0.80, 0.9, 24*time.Hour, now)

		ranked := retrieval.Rerank([]vector.ScoredPoint{lowRisk, highRisk}, now)
		Expect(ranked[0].ID).To(Equal("high"))
	})

	It("prefers recent memories when similarity and risk are equal", func() {
		recent := memoryPoint("recent", 0.8, 0.5, 24*time.Hour, now)
		old := memoryPoint("old", 0.8, 0.5, 300*24*time.Hour, now)

		ranked := retrieval.Rerank([]vector.ScoredPoint{old, recent}, now)
		Expect(ranked[0].ID).To(Equal("recent"))
	})

	It("computes the weighted composite", func() {
		m := memoryPoint("m", 0.5, 0.6, 0, now)

		ranked := retrieval.Rerank([]vector.ScoredPoint{m}, now)
		// 0.4*0.5 + 0.4*0.6 + 0.2*1.0
		Expect(ranked[0].RerankScore).To(BeNumerically("~", 0.64, 1e-6))
	})

	It("uses the default recency for missing timestamps", func() {
		m := vector.ScoredPoint{
			Point: vector.Point{ID: "m", Payload: map[string]any{signal.FieldRiskScore: 0.5}},
			Score: 0.5,
		}

		ranked := retrieval.Rerank([]vector.ScoredPoint{m}, now)
		// 0.4*0.5 + 0.4*0.5 + 0.2*0.5
		Expect(ranked[0].RerankScore).To(BeNumerically("~", 0.5, 1e-6))
	})

	It("floors recency for very old memories", func() {
		ancient := memoryPoint("ancient", 0.5, 0.5, 5*365*24*time.Hour, now)

		ranked := retrieval.Rerank([]vector.ScoredPoint{ancient}, now)
		// 0.4*0.5 + 0.4*0.5 + 0.2*0.1
		Expect(ranked[0].RerankScore).To(BeNumerically("~", 0.42, 1e-6))
	})

	It("keeps similarity order on equal composites", func() {
		a := memoryPoint("a", 0.8, 0.5, 24*time.Hour, now)
		b := memoryPoint("b", 0.8, 0.5, 24*time.Hour, now)

		ranked := retrieval.Rerank([]vector.ScoredPoint{a, b}, now)
		Expect(ranked[0].ID).To(Equal("a"))
		Expect(ranked[1].ID).To(Equal("b"))
	})

	It("handles an empty input", func() {
		Expect(retrieval.Rerank(nil, now)).To(BeEmpty())
	})
})
