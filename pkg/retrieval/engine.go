// Package retrieval orchestrates evidence gathering across the vector
// collections. Every answer the downstream assistant gives must be built
// from a Bundle produced here; there is no unretrieved path.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gramhealthco/asha/pkg/embeddings"
	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/utils"
	"github.com/gramhealthco/asha/pkg/vector"
)

// nutritionKeywords gate the nutrition collection search. Queries without
// one of these terms skip the collection entirely.
var nutritionKeywords = []string{"nutrition", "food", "diet", "iron", "खाना", "आहार", "ifa"}

// Config tunes the per-collection retrieval depths.
type Config struct {
	MemoryTopK    int
	KnowledgeTopK int
	NutritionTopK int
	RerankTopK    int
}

// Engine runs the retrieval pipeline over a vector store and an embedder.
type Engine struct {
	store    vector.Store
	embedder embeddings.Embedder
	cfg      Config
	logger   *slog.Logger

	// now is swappable for deterministic rerank tests.
	now func() time.Time
}

// Bundle is the aggregated evidence for one query.
type Bundle struct {
	Query             string
	UserMemories      []RankedMemory
	MedicalKnowledge  []vector.ScoredPoint
	NutritionPatterns []vector.ScoredPoint

	// TotalEvidence counts everything retrieved, before the memory list
	// is truncated for presentation.
	TotalEvidence int

	Timestamp time.Time
}

// Sufficient reports whether the bundle can ground a response: at least
// one piece of verified knowledge, or at least two user memories.
func (b *Bundle) Sufficient() bool {
	return len(b.MedicalKnowledge) >= 1 || len(b.UserMemories) >= 2
}

// NewEngine builds a retrieval engine.
func NewEngine(store vector.Store, embedder embeddings.Embedder, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// RetrieveForQuery embeds the enriched query and searches the user memory,
// medical knowledge, and (when relevant) nutrition collections in
// parallel. Memory and knowledge search failures fail the whole call; a
// nutrition failure degrades to an empty list.
func (e *Engine) RetrieveForQuery(ctx context.Context, query string, user signal.UserContext) (*Bundle, error) {
	enriched := embeddings.EnrichQuery(query, user.Age, string(user.PregnancyStage))

	queryVec, err := e.embedder.Embed(ctx, enriched)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var (
		wg sync.WaitGroup

		memories     []vector.ScoredPoint
		memoriesErr  error
		knowledge    []vector.ScoredPoint
		knowledgeErr error
		nutrition    []vector.ScoredPoint
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		memories, memoriesErr = e.searchUserMemories(ctx, queryVec, user)
	}()

	go func() {
		defer wg.Done()
		knowledge, knowledgeErr = e.store.Search(ctx, vector.CollectionKnowledge, queryVec, nil, e.cfg.KnowledgeTopK)
	}()

	if nutritionRelevant(query) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nutrition = e.searchNutrition(ctx, queryVec)
		}()
	}

	wg.Wait()

	if memoriesErr != nil {
		return nil, fmt.Errorf("retrieving user memories: %w", memoriesErr)
	}
	if knowledgeErr != nil {
		return nil, fmt.Errorf("retrieving medical knowledge: %w", knowledgeErr)
	}

	ranked := Rerank(memories, e.now())
	if len(ranked) > e.cfg.RerankTopK {
		ranked = ranked[:e.cfg.RerankTopK]
	}

	bundle := &Bundle{
		Query:             query,
		UserMemories:      ranked,
		MedicalKnowledge:  knowledge,
		NutritionPatterns: nutrition,
		TotalEvidence:     len(memories) + len(knowledge) + len(nutrition),
		Timestamp:         e.now(),
	}

	e.logger.Info("retrieval complete",
		"user_id", user.UserID,
		"query", utils.Truncate(query, 80),
		"memories", len(memories),
		"knowledge", len(knowledge),
		"nutrition", len(nutrition),
		"total_evidence", bundle.TotalEvidence,
	)

	return bundle, nil
}

// searchUserMemories restricts the memory search to the user's own points,
// and to their pregnancy stage when one is set.
func (e *Engine) searchUserMemories(ctx context.Context, queryVec []float32, user signal.UserContext) ([]vector.ScoredPoint, error) {
	filter := &vector.Filter{
		Must: []vector.Condition{
			vector.Match(signal.FieldUserID, user.UserID),
		},
	}

	if user.PregnancyStage != "" && user.PregnancyStage != signal.StageNone {
		filter.Must = append(filter.Must, vector.Match(signal.FieldPregnancyStage, string(user.PregnancyStage)))
	}

	return e.store.Search(ctx, vector.CollectionUserMemory, queryVec, filter, e.cfg.MemoryTopK)
}

// searchNutrition degrades to empty on failure; nutrition context is
// useful but never load-bearing.
func (e *Engine) searchNutrition(ctx context.Context, queryVec []float32) []vector.ScoredPoint {
	results, err := e.store.Search(ctx, vector.CollectionNutrition, queryVec, nil, e.cfg.NutritionTopK)
	if err != nil {
		e.logger.Warn("nutrition retrieval failed", "error", err)
		return nil
	}

	return results
}

// nutritionRelevant reports whether the query mentions food or nutrition.
func nutritionRelevant(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range nutritionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
