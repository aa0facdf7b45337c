package memstore_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gramhealthco/asha/pkg/vector"
	"github.com/gramhealthco/asha/pkg/vector/memstore"
)

func TestMemstore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Memstore Suite")
}

var _ = Describe("Store", func() {
	var (
		ctx   context.Context
		store *memstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memstore.New()
		Expect(store.EnsureCollection(ctx, "test", 3)).To(Succeed())
	})

	Describe("EnsureCollection", func() {
		It("is idempotent", func() {
			Expect(store.EnsureCollection(ctx, "test", 3)).To(Succeed())
			Expect(store.EnsureCollection(ctx, "test", 3)).To(Succeed())
		})
	})

	Describe("Upsert", func() {
		It("rejects vectors with the wrong dimension", func() {
			err := store.Upsert(ctx, "test", vector.Point{
				ID:     "a",
				Vector: []float32{1, 0},
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dimension"))
		})

		It("rejects unknown collections", func() {
			err := store.Upsert(ctx, "nope", vector.Point{ID: "a", Vector: []float32{1, 0, 0}})
			Expect(err).To(HaveOccurred())
		})

		It("replaces points with the same ID", func() {
			p := vector.Point{ID: "a", Vector: []float32{1, 0, 0}, Payload: map[string]any{"v": "one"}}
			Expect(store.Upsert(ctx, "test", p)).To(Succeed())

			p.Payload = map[string]any{"v": "two"}
			Expect(store.Upsert(ctx, "test", p)).To(Succeed())
			Expect(store.Count("test")).To(Equal(1))

			points, err := store.Scroll(ctx, "test", nil, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(points[0].Payload["v"]).To(Equal("two"))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			Expect(store.Upsert(ctx, "test", vector.Point{
				ID:      "x",
				Vector:  []float32{1, 0, 0},
				Payload: map[string]any{"user_id": "u1", "risk_score": 0.9},
			})).To(Succeed())
			Expect(store.Upsert(ctx, "test", vector.Point{
				ID:      "y",
				Vector:  []float32{0, 1, 0},
				Payload: map[string]any{"user_id": "u2", "risk_score": 0.2},
			})).To(Succeed())
			Expect(store.Upsert(ctx, "test", vector.Point{
				ID:      "z",
				Vector:  []float32{0.9, 0.1, 0},
				Payload: map[string]any{"user_id": "u1", "risk_score": 0.5},
			})).To(Succeed())
		})

		It("ranks by cosine similarity", func() {
			results, err := store.Search(ctx, "test", []float32{1, 0, 0}, nil, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("x"))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(results[1].ID).To(Equal("z"))
			Expect(results[2].ID).To(Equal("y"))
		})

		It("truncates to the limit", func() {
			results, err := store.Search(ctx, "test", []float32{1, 0, 0}, nil, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("applies equality filters", func() {
			filter := &vector.Filter{Must: []vector.Condition{vector.Match("user_id", "u1")}}

			results, err := store.Search(ctx, "test", []float32{1, 0, 0}, filter, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			for _, r := range results {
				Expect(r.Payload["user_id"]).To(Equal("u1"))
			}
		})

		It("applies numeric range filters", func() {
			filter := &vector.Filter{Must: []vector.Condition{vector.GTE("risk_score", 0.4)}}

			results, err := store.Search(ctx, "test", []float32{1, 0, 0}, filter, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("treats LT as exclusive", func() {
			filter := &vector.Filter{Must: []vector.Condition{vector.LT("risk_score", 0.5)}}

			results, err := store.Search(ctx, "test", []float32{1, 0, 0}, filter, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("y"))
		})
	})

	Describe("SetPayload", func() {
		It("merges fields without clobbering others", func() {
			Expect(store.Upsert(ctx, "test", vector.Point{
				ID:      "a",
				Vector:  []float32{1, 0, 0},
				Payload: map[string]any{"user_id": "u1", "risk_score": 0.3},
			})).To(Succeed())

			Expect(store.SetPayload(ctx, "test", []string{"a"}, map[string]any{"risk_score": 0.6})).To(Succeed())

			points, err := store.Scroll(ctx, "test", nil, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(points[0].Payload["risk_score"]).To(Equal(0.6))
			Expect(points[0].Payload["user_id"]).To(Equal("u1"))
		})

		It("errors on missing points", func() {
			err := store.SetPayload(ctx, "test", []string{"ghost"}, map[string]any{"x": 1})
			Expect(err).To(MatchError(vector.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes only points matching the filter", func() {
			Expect(store.Upsert(ctx, "test", vector.Point{
				ID: "a", Vector: []float32{1, 0, 0}, Payload: map[string]any{"user_id": "u1"},
			})).To(Succeed())
			Expect(store.Upsert(ctx, "test", vector.Point{
				ID: "b", Vector: []float32{0, 1, 0}, Payload: map[string]any{"user_id": "u2"},
			})).To(Succeed())

			filter := &vector.Filter{Must: []vector.Condition{vector.Match("user_id", "u1")}}
			Expect(store.Delete(ctx, "test", filter)).To(Succeed())
			Expect(store.Count("test")).To(Equal(1))
		})
	})
})
