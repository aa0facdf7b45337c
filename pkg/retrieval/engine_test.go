package retrieval_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gramhealthco/asha/pkg/logger"
	"github.com/gramhealthco/asha/pkg/retrieval"
	"github.com/gramhealthco/asha/pkg/signal"
	testutils "github.com/gramhealthco/asha/pkg/utils/test"
	"github.com/gramhealthco/asha/pkg/vector"
	"github.com/gramhealthco/asha/pkg/vector/memstore"
)

var _ = Describe("Engine", func() {
	var (
		ctx      context.Context
		store    *memstore.Store
		embedder *testutils.MockEmbedder
		engine   *retrieval.Engine
		user     signal.UserContext
	)

	cfg := retrieval.Config{
		MemoryTopK:    10,
		KnowledgeTopK: 5,
		NutritionTopK: 3,
		RerankTopK:    5,
	}

	seedMemory := func(id, userID string, stage signal.PregnancyStage, vec []float32, riskScore float64) {
		err := store.Upsert(ctx, vector.CollectionUserMemory, vector.Point{
			ID:     id,
			Vector: vec,
			Payload: map[string]any{
				signal.FieldUserID:         userID,
				signal.FieldPregnancyStage: string(stage),
				signal.FieldRiskScore:      riskScore,
				signal.FieldTimestamp:      time.Now().UTC().Format(time.RFC3339),
				signal.FieldText:           "seeded memory",
			},
		})
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = memstore.New()
		for _, c := range []string{vector.CollectionUserMemory, vector.CollectionKnowledge, vector.CollectionNutrition} {
			Expect(store.EnsureCollection(ctx, c, 3)).To(Succeed())
		}

		embedder = testutils.NewMockEmbedder([]float32{1, 0, 0})
		engine = retrieval.NewEngine(store, embedder, cfg, logger.Nop())
		user = signal.UserContext{
			UserID:         "u1",
			Age:            26,
			PregnancyStage: signal.StageThirdTrimester,
		}
	})

	It("returns only the querying user's memories for their stage", func() {
		seedMemory("11111111-0000-4000-8000-000000000001", "u1", signal.StageThirdTrimester, []float32{1, 0, 0}, 0.8)
		seedMemory("11111111-0000-4000-8000-000000000002", "u1", signal.StageFirstTrimester, []float32{1, 0, 0}, 0.8)
		seedMemory("11111111-0000-4000-8000-000000000003", "u2", signal.StageThirdTrimester, []float32{1, 0, 0}, 0.8)

		bundle, err := engine.RetrieveForQuery(ctx, "severe headache", user)
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.UserMemories).To(HaveLen(1))
		Expect(bundle.UserMemories[0].ID).To(Equal("11111111-0000-4000-8000-000000000001"))
	})

	It("skips the stage filter when the stage is none", func() {
		seedMemory("11111111-0000-4000-8000-000000000001", "u1", signal.StageThirdTrimester, []float32{1, 0, 0}, 0.8)
		seedMemory("11111111-0000-4000-8000-000000000002", "u1", signal.StageFirstTrimester, []float32{1, 0, 0}, 0.8)

		user.PregnancyStage = signal.StageNone
		bundle, err := engine.RetrieveForQuery(ctx, "severe headache", user)
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.UserMemories).To(HaveLen(2))
	})

	It("enriches the query before embedding", func() {
		_, err := engine.RetrieveForQuery(ctx, "fever", user)
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder.Calls).To(ContainElement("Age 26 Pregnancy third_trimester: fever"))
	})

	It("truncates reranked memories but counts all evidence", func() {
		for i := range 8 {
			seedMemory(fmt.Sprintf("11111111-0000-4000-8000-00000000000%d", i), "u1", signal.StageThirdTrimester, []float32{1, 0, 0}, 0.5)
		}

		bundle, err := engine.RetrieveForQuery(ctx, "fever", user)
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.UserMemories).To(HaveLen(5))
		Expect(bundle.TotalEvidence).To(Equal(8))
	})

	It("returns an empty bundle when no collection has evidence", func() {
		// Nutrition keyword, so all three searches actually run.
		bundle, err := engine.RetrieveForQuery(ctx, "what food has iron", user)
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.UserMemories).To(BeEmpty())
		Expect(bundle.MedicalKnowledge).To(BeEmpty())
		Expect(bundle.NutritionPatterns).To(BeEmpty())
		Expect(bundle.TotalEvidence).To(Equal(0))
	})

	It("retrieves medical knowledge without filters", func() {
		Expect(store.Upsert(ctx, vector.CollectionKnowledge, vector.Point{
			ID:      "22222222-0000-4000-8000-000000000001",
			Vector:  []float32{1, 0, 0},
			Payload: map[string]any{signal.FieldText: "iron supplementation guidance"},
		})).To(Succeed())

		bundle, err := engine.RetrieveForQuery(ctx, "fever", user)
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.MedicalKnowledge).To(HaveLen(1))
	})

	Describe("nutrition gating", func() {
		BeforeEach(func() {
			Expect(store.Upsert(ctx, vector.CollectionNutrition, vector.Point{
				ID:      "33333333-0000-4000-8000-000000000001",
				Vector:  []float32{1, 0, 0},
				Payload: map[string]any{"food_item": "spinach", "iron_content": 2.7},
			})).To(Succeed())
		})

		It("skips the nutrition collection for unrelated queries", func() {
			bundle, err := engine.RetrieveForQuery(ctx, "severe headache", user)
			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.NutritionPatterns).To(BeEmpty())
		})

		It("searches nutrition for keyword queries", func() {
			bundle, err := engine.RetrieveForQuery(ctx, "what food has iron", user)
			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.NutritionPatterns).To(HaveLen(1))
		})

		It("matches Hindi nutrition keywords", func() {
			bundle, err := engine.RetrieveForQuery(ctx, "कौन सा खाना अच्छा है", user)
			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.NutritionPatterns).To(HaveLen(1))
		})

		It("matches IFA regardless of case", func() {
			bundle, err := engine.RetrieveForQuery(ctx, "missed my IFA tablet", user)
			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.NutritionPatterns).To(HaveLen(1))
		})

		It("degrades to empty when the nutrition search fails", func() {
			flaky := testutils.NewFlakyStore(store)
			flaky.FailSearchOn[vector.CollectionNutrition] = true
			engine = retrieval.NewEngine(flaky, embedder, cfg, logger.Nop())

			bundle, err := engine.RetrieveForQuery(ctx, "what food has iron", user)
			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.NutritionPatterns).To(BeEmpty())
		})
	})

	It("fails the whole call when the memory search fails", func() {
		flaky := testutils.NewFlakyStore(store)
		flaky.FailSearchOn[vector.CollectionUserMemory] = true
		engine = retrieval.NewEngine(flaky, embedder, cfg, logger.Nop())

		_, err := engine.RetrieveForQuery(ctx, "fever", user)
		Expect(err).To(HaveOccurred())
	})

	It("fails the whole call when embedding fails", func() {
		embedder.FailOn = "fever"

		_, err := engine.RetrieveForQuery(ctx, "fever", user)
		Expect(err).To(HaveOccurred())
	})

	Describe("Sufficient", func() {
		It("accepts one piece of knowledge", func() {
			b := &retrieval.Bundle{MedicalKnowledge: []vector.ScoredPoint{{}}}
			Expect(b.Sufficient()).To(BeTrue())
		})

		It("accepts two user memories", func() {
			b := &retrieval.Bundle{UserMemories: []retrieval.RankedMemory{{}, {}}}
			Expect(b.Sufficient()).To(BeTrue())
		})

		It("rejects a single memory with no knowledge", func() {
			b := &retrieval.Bundle{UserMemories: []retrieval.RankedMemory{{}}}
			Expect(b.Sufficient()).To(BeFalse())
		})

		It("rejects an empty bundle", func() {
			b := &retrieval.Bundle{}
			Expect(b.Sufficient()).To(BeFalse())
		})
	})
})
