// Package qdrant implements vector.Store against a Qdrant instance over
// gRPC using the official go client.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/gramhealthco/asha/pkg/vector"
)

const defaultGRPCPort = 6334

// Store is a Qdrant-backed vector.Store.
type Store struct {
	client *qdrant.Client
	logger *slog.Logger
}

var _ vector.Store = (*Store)(nil)

// New connects to a Qdrant instance at target ("host" or "host:port",
// gRPC port). An empty apiKey disables authentication.
func New(target, apiKey string, logger *slog.Logger) (*Store, error) {
	host, port, err := splitTarget(target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: apiKey != "",
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s: %w", target, err)
	}

	return &Store{client: client, logger: logger}, nil
}

// splitTarget parses "host" or "host:port" into its parts.
func splitTarget(target string) (string, int, error) {
	if target == "" {
		return "", 0, fmt.Errorf("empty qdrant target")
	}

	host, portStr, ok := strings.Cut(target, ":")
	if !ok {
		return target, defaultGRPCPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}

	return host, port, nil
}

// EnsureCollection creates the collection with cosine distance if it does
// not already exist.
func (s *Store) EnsureCollection(ctx context.Context, name string, dimension uint64) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", name, err)
	}

	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", name, err)
	}

	s.logger.Info("created collection", "collection", name, "dimension", dimension)

	return nil
}

// Upsert writes a point with wait=true so readers observe the write
// immediately.
func (s *Store) Upsert(ctx context.Context, collection string, point vector.Point) error {
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(point.ID),
				Vectors: qdrant.NewVectors(point.Vector...),
				Payload: qdrant.NewValueMap(point.Payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upserting into %s: %w", collection, err)
	}

	return nil
}

// Search runs a similarity query restricted by the optional filter.
func (s *Store) Search(ctx context.Context, collection string, query []float32, filter *vector.Filter, limit int) ([]vector.ScoredPoint, error) {
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         toQdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}

	results := make([]vector.ScoredPoint, 0, len(scored))
	for _, sp := range scored {
		results = append(results, vector.ScoredPoint{
			Point: vector.Point{
				ID:      sp.GetId().GetUuid(),
				Payload: fromQdrantPayload(sp.GetPayload()),
			},
			Score: sp.GetScore(),
		})
	}

	return results, nil
}

// Scroll lists points matching the filter without vector ranking.
func (s *Store) Scroll(ctx context.Context, collection string, filter *vector.Filter, limit int) ([]vector.Point, error) {
	retrieved, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collection,
		Filter:         toQdrantFilter(filter),
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling %s: %w", collection, err)
	}

	points := make([]vector.Point, 0, len(retrieved))
	for _, rp := range retrieved {
		points = append(points, vector.Point{
			ID:      rp.GetId().GetUuid(),
			Payload: fromQdrantPayload(rp.GetPayload()),
		})
	}

	return points, nil
}

// SetPayload merges fields into the payloads of the identified points.
func (s *Store) SetPayload(ctx context.Context, collection string, ids []string, fields map[string]any) error {
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewID(id))
	}

	_, err := s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Payload:        qdrant.NewValueMap(fields),
		PointsSelector: qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("setting payload in %s: %w", collection, err)
	}

	return nil
}

// Delete removes every point matching the filter.
func (s *Store) Delete(ctx context.Context, collection string, filter *vector.Filter) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelectorFilter(toQdrantFilter(filter)),
	})
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", collection, err)
	}

	return nil
}

// Healthy checks connectivity with a health probe.
func (s *Store) Healthy(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", vector.ErrUnavailable, err)
	}

	return nil
}

// Close shuts down the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// toQdrantFilter translates a vector.Filter into the qdrant wire filter.
func toQdrantFilter(filter *vector.Filter) *qdrant.Filter {
	if filter == nil || len(filter.Must) == 0 {
		return nil
	}

	must := make([]*qdrant.Condition, 0, len(filter.Must))
	for _, c := range filter.Must {
		switch {
		case c.Equals != "":
			must = append(must, qdrant.NewMatch(c.Field, c.Equals))
		case c.GTE != nil || c.LT != nil:
			must = append(must, qdrant.NewRange(c.Field, &qdrant.Range{
				Gte: c.GTE,
				Lt:  c.LT,
			}))
		}
	}

	return &qdrant.Filter{Must: must}
}

// fromQdrantPayload converts the qdrant value map into plain Go values.
func fromQdrantPayload(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for key, val := range payload {
		switch v := val.GetKind().(type) {
		case *qdrant.Value_StringValue:
			out[key] = v.StringValue
		case *qdrant.Value_DoubleValue:
			out[key] = v.DoubleValue
		case *qdrant.Value_IntegerValue:
			out[key] = v.IntegerValue
		case *qdrant.Value_BoolValue:
			out[key] = v.BoolValue
		}
	}

	return out
}
