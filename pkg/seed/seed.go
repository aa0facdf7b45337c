// Package seed populates the knowledge and nutrition collections with the
// verified corpus. Point IDs are derived from content, so reseeding
// overwrites in place instead of duplicating.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gramhealthco/asha/pkg/embeddings"
	"github.com/gramhealthco/asha/pkg/vector"
)

// Seeder writes the verified corpus into a vector store.
type Seeder struct {
	store      vector.Store
	embedder   embeddings.Embedder
	dimensions uint64
	logger     *slog.Logger
}

// NewSeeder builds a Seeder.
func NewSeeder(store vector.Store, embedder embeddings.Embedder, dimensions uint64, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:      store,
		embedder:   embedder,
		dimensions: dimensions,
		logger:     logger,
	}
}

// Seed ensures all collections exist and loads the verified corpus.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.EnsureCollections(ctx); err != nil {
		return err
	}

	if err := s.seedKnowledge(ctx); err != nil {
		return err
	}

	if err := s.seedNutrition(ctx); err != nil {
		return err
	}

	return nil
}

// EnsureCollections creates the four collections if missing.
func (s *Seeder) EnsureCollections(ctx context.Context) error {
	collections := []string{
		vector.CollectionUserMemory,
		vector.CollectionKnowledge,
		vector.CollectionNutrition,
		vector.CollectionInsights,
	}

	for _, name := range collections {
		if err := s.store.EnsureCollection(ctx, name, s.dimensions); err != nil {
			return fmt.Errorf("ensuring collection %s: %w", name, err)
		}
	}

	return nil
}

func (s *Seeder) seedKnowledge(ctx context.Context) error {
	for _, item := range MedicalKnowledge {
		// Bilingual embedding so Hindi and English queries both match.
		combined := item.Content + " " + item.ContentHi

		vec, err := s.embedder.Embed(ctx, combined)
		if err != nil {
			return fmt.Errorf("embedding knowledge item %q: %w", item.Topic, err)
		}

		err = s.store.Upsert(ctx, vector.CollectionKnowledge, vector.Point{
			ID:     contentID("knowledge", item.Content),
			Vector: vec,
			Payload: map[string]any{
				"content":    item.Content,
				"content_hi": item.ContentHi,
				"topic":      item.Topic,
				"source":     item.Source,
				"confidence": item.Confidence,
			},
		})
		if err != nil {
			return fmt.Errorf("seeding knowledge item %q: %w", item.Topic, err)
		}
	}

	s.logger.Info("seeded medical knowledge", "items", len(MedicalKnowledge))

	return nil
}

func (s *Seeder) seedNutrition(ctx context.Context) error {
	for _, item := range NutritionPatterns {
		searchable := fmt.Sprintf("%s %s %s %s", item.FoodItem, item.LocalName, item.Content, item.Description)

		vec, err := s.embedder.Embed(ctx, searchable)
		if err != nil {
			return fmt.Errorf("embedding nutrition item %q: %w", item.FoodItem, err)
		}

		err = s.store.Upsert(ctx, vector.CollectionNutrition, vector.Point{
			ID:     contentID("nutrition", item.FoodItem),
			Vector: vec,
			Payload: map[string]any{
				"food_item":    item.FoodItem,
				"local_name":   item.LocalName,
				"content":      item.Content,
				"description":  item.Description,
				"iron_content": item.IronContent,
			},
		})
		if err != nil {
			return fmt.Errorf("seeding nutrition item %q: %w", item.FoodItem, err)
		}
	}

	s.logger.Info("seeded nutrition patterns", "items", len(NutritionPatterns))

	return nil
}

// contentID derives a stable UUID from the item's content.
func contentID(kind, content string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+content)).String()
}
