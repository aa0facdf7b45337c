package memory_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gramhealthco/asha/pkg/logger"
	"github.com/gramhealthco/asha/pkg/memory"
	"github.com/gramhealthco/asha/pkg/signal"
	testutils "github.com/gramhealthco/asha/pkg/utils/test"
	"github.com/gramhealthco/asha/pkg/vector"
	"github.com/gramhealthco/asha/pkg/vector/memstore"
)

var _ = Describe("Trajectory", func() {
	var (
		ctx      context.Context
		store    *memstore.Store
		embedder *testutils.MockEmbedder
		mgr      *memory.Manager
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memstore.New()
		Expect(store.EnsureCollection(ctx, vector.CollectionUserMemory, 4)).To(Succeed())

		embedder = testutils.NewMockEmbedder([]float32{1, 0, 0, 0})
		mgr = memory.NewManager(store, embedder, defaultCfg, logger.Nop())
	})

	// storeHistory writes one signal per risk score, oldest first, one day
	// apart ending yesterday. Orthogonal embeddings keep reinforcement out
	// of the picture.
	storeHistory := func(userID string, riskScores []float64) {
		basis := [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
		for i, rs := range riskScores {
			text := fmt.Sprintf("signal %s %d", userID, i)
			embedder.Embeddings[text] = basis[i%len(basis)]

			_, err := mgr.StoreHealthSignal(ctx, signal.HealthSignal{
				Text:      text,
				User:      signal.UserContext{UserID: userID, PregnancyStage: signal.StageNone},
				RiskScore: rs,
				Timestamp: time.Now().AddDate(0, 0, -(len(riskScores) - i)),
			})
			Expect(err).NotTo(HaveOccurred())
		}
	}

	It("reports no_data for an unknown user", func() {
		traj, err := mgr.Trajectory(ctx, "ghost", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Status).To(Equal(memory.StatusNoData))
		Expect(traj.Trend).To(Equal(memory.TrendStable))
	})

	It("reports insufficient_data for a single signal", func() {
		storeHistory("u1", []float64{0.5})

		traj, err := mgr.Trajectory(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Status).To(Equal(memory.StatusInsufficientData))
		Expect(traj.SignalCount).To(Equal(1))
	})

	It("detects a deteriorating trend", func() {
		storeHistory("u1", []float64{0.2, 0.3, 0.6, 0.7})

		traj, err := mgr.Trajectory(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Status).To(Equal(memory.StatusAnalyzed))
		Expect(traj.Trend).To(Equal(memory.TrendDeteriorating))
		Expect(traj.OlderAvg).To(BeNumerically("~", 0.25, 1e-9))
		Expect(traj.RecentAvg).To(BeNumerically("~", 0.65, 1e-9))
		Expect(traj.SignalCount).To(Equal(4))
	})

	It("detects an improving trend", func() {
		storeHistory("u1", []float64{0.8, 0.9, 0.3, 0.2})

		traj, err := mgr.Trajectory(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Trend).To(Equal(memory.TrendImproving))
	})

	It("treats small shifts as stable", func() {
		storeHistory("u1", []float64{0.5, 0.5, 0.6, 0.6})

		traj, err := mgr.Trajectory(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Trend).To(Equal(memory.TrendStable))
	})

	It("puts the middle signal in the recent half of odd histories", func() {
		storeHistory("u1", []float64{0.2, 0.2, 0.6, 0.6, 0.6})

		traj, err := mgr.Trajectory(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.OlderAvg).To(BeNumerically("~", 0.2, 1e-9))
		Expect(traj.RecentAvg).To(BeNumerically("~", 0.6, 1e-9))
	})

	It("ignores signals outside the window", func() {
		storeHistory("u1", []float64{0.2, 0.7})

		// An ancient high-risk signal that must not skew the analysis.
		embedder.Embeddings["old signal"] = []float32{0, 0, 1, 0}
		_, err := mgr.StoreHealthSignal(ctx, signal.HealthSignal{
			Text:      "old signal",
			User:      signal.UserContext{UserID: "u1", PregnancyStage: signal.StageNone},
			RiskScore: 1.0,
			Timestamp: time.Now().AddDate(0, 0, -200),
		})
		Expect(err).NotTo(HaveOccurred())

		traj, err := mgr.Trajectory(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.SignalCount).To(Equal(2))
	})
})

var _ = Describe("DetectDeterioration", func() {
	var (
		ctx      context.Context
		store    *memstore.Store
		embedder *testutils.MockEmbedder
		mgr      *memory.Manager
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memstore.New()
		Expect(store.EnsureCollection(ctx, vector.CollectionUserMemory, 4)).To(Succeed())

		embedder = testutils.NewMockEmbedder([]float32{1, 0, 0, 0})
		mgr = memory.NewManager(store, embedder, defaultCfg, logger.Nop())
	})

	storeHistory := func(userID string, riskScores []float64) {
		basis := [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
		for i, rs := range riskScores {
			text := fmt.Sprintf("signal %s %d", userID, i)
			embedder.Embeddings[text] = basis[i%len(basis)]

			_, err := mgr.StoreHealthSignal(ctx, signal.HealthSignal{
				Text:      text,
				User:      signal.UserContext{UserID: userID, PregnancyStage: signal.StageNone},
				RiskScore: rs,
				Timestamp: time.Now().AddDate(0, 0, -(len(riskScores) - i)),
			})
			Expect(err).NotTo(HaveOccurred())
		}
	}

	It("raises a monitor alert for mild deterioration", func() {
		storeHistory("u1", []float64{0.2, 0.3, 0.6, 0.7})

		alert, err := mgr.DetectDeterioration(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(alert.Level).To(Equal(memory.AlertMonitor))
		Expect(alert.Trajectory.Trend).To(Equal(memory.TrendDeteriorating))
	})

	It("raises a high priority alert when the recent average is high", func() {
		storeHistory("u1", []float64{0.2, 0.3, 0.8, 0.9})

		alert, err := mgr.DetectDeterioration(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(alert.Level).To(Equal(memory.AlertHighPriority))
	})

	It("reports none for stable users", func() {
		storeHistory("u1", []float64{0.5, 0.5, 0.5, 0.5})

		alert, err := mgr.DetectDeterioration(ctx, "u1", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(alert.Level).To(Equal(memory.AlertNone))
	})

	It("reports none for users with no history", func() {
		alert, err := mgr.DetectDeterioration(ctx, "ghost", 30)
		Expect(err).NotTo(HaveOccurred())
		Expect(alert.Level).To(Equal(memory.AlertNone))
		Expect(alert.Trajectory.Status).To(Equal(memory.StatusNoData))
	})
})
