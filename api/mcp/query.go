package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gramhealthco/asha/pkg/risk"
	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

var (
	healthQueryToolName    = "health_query"
	healthQueryDescription = "Retrieve evidence for a maternal health query and score its risk. Returns the user's relevant history, verified medical guidance, and nutrition patterns. Responses must be grounded in the returned evidence only."
)

// HealthQueryInput represents the input arguments for the health_query tool.
type HealthQueryInput struct {
	UserID         string `json:"user_id" jsonschema:"the pseudonymous user identifier"`
	Query          string `json:"query" jsonschema:"the health query or symptom description"`
	Age            int    `json:"age,omitempty" jsonschema:"the user's age in years"`
	PregnancyStage string `json:"pregnancy_stage,omitempty" jsonschema:"one of first_trimester, second_trimester, third_trimester, postpartum, none"`
}

// MemoryResult is one reranked user memory.
type MemoryResult struct {
	ID          string  `json:"id"`
	Similarity  float32 `json:"similarity"`
	RerankScore float64 `json:"rerank_score"`
	Text        string  `json:"text"`
	RiskScore   float64 `json:"risk_score"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// KnowledgeResult is one verified guidance hit.
type KnowledgeResult struct {
	ID         string  `json:"id"`
	Similarity float32 `json:"similarity"`
	Content    string  `json:"content"`
	ContentHi  string  `json:"content_hi,omitempty"`
	Source     string  `json:"source,omitempty"`
	Topic      string  `json:"topic,omitempty"`
}

// NutritionResult is one nutrition pattern hit.
type NutritionResult struct {
	ID         string  `json:"id"`
	Similarity float32 `json:"similarity"`
	FoodItem   string  `json:"food_item"`
	LocalName  string  `json:"local_name,omitempty"`
	Content    string  `json:"content,omitempty"`
}

// HealthQueryOutput represents the output of the health_query tool.
type HealthQueryOutput struct {
	Query              string            `json:"query"`
	RiskScore          float64           `json:"risk_score"`
	RiskCategory       risk.Category     `json:"risk_category"`
	SufficientEvidence bool              `json:"sufficient_evidence"`
	UserMemories       []MemoryResult    `json:"user_memories"`
	MedicalKnowledge   []KnowledgeResult `json:"medical_knowledge"`
	NutritionPatterns  []NutritionResult `json:"nutrition_patterns"`
}

// handleHealthQuery retrieves evidence and scores risk. The tool is
// read-only; signals are only stored through the ingestion API.
func (s *Server) handleHealthQuery(ctx context.Context, _ *mcp.CallToolRequest, input HealthQueryInput) (*mcp.CallToolResult, HealthQueryOutput, error) {
	logger := s.config.Logger

	if input.UserID == "" || input.Query == "" {
		return toolError("user_id and query are required"), HealthQueryOutput{}, nil
	}

	stage, err := signal.ParseStage(input.PregnancyStage)
	if err != nil {
		return toolError(err.Error()), HealthQueryOutput{}, nil
	}

	user := signal.UserContext{
		UserID:         input.UserID,
		Age:            input.Age,
		PregnancyStage: stage,
	}

	logger.Debug("MCP health query", "user_id", input.UserID)

	bundle, err := s.config.Engine.RetrieveForQuery(ctx, input.Query, user)
	if err != nil {
		logger.Error("MCP retrieval failed", "error", err)
		return toolError(fmt.Sprintf("retrieval failed: %v", err)), HealthQueryOutput{}, nil
	}

	memories := make([]vector.ScoredPoint, 0, len(bundle.UserMemories))
	for _, m := range bundle.UserMemories {
		memories = append(memories, m.ScoredPoint)
	}

	score := s.config.Scorer.Score(input.Query, user, memories)

	out := HealthQueryOutput{
		Query:              input.Query,
		RiskScore:          score,
		RiskCategory:       s.config.Scorer.Categorize(score),
		SufficientEvidence: bundle.Sufficient(),
		UserMemories:       make([]MemoryResult, 0, len(bundle.UserMemories)),
		MedicalKnowledge:   make([]KnowledgeResult, 0, len(bundle.MedicalKnowledge)),
		NutritionPatterns:  make([]NutritionResult, 0, len(bundle.NutritionPatterns)),
	}

	for _, m := range bundle.UserMemories {
		past := signal.FromPayload(m.ID, m.Payload)
		mr := MemoryResult{
			ID:          m.ID,
			Similarity:  m.Score,
			RerankScore: m.RerankScore,
			Text:        past.Text,
			RiskScore:   past.RiskScore,
		}
		if !past.Timestamp.IsZero() {
			mr.Timestamp = past.Timestamp.UTC().Format("2006-01-02")
		}
		out.UserMemories = append(out.UserMemories, mr)
	}

	for _, k := range bundle.MedicalKnowledge {
		out.MedicalKnowledge = append(out.MedicalKnowledge, KnowledgeResult{
			ID:         k.ID,
			Similarity: k.Score,
			Content:    payloadString(k.Payload, "content"),
			ContentHi:  payloadString(k.Payload, "content_hi"),
			Source:     payloadString(k.Payload, "source"),
			Topic:      payloadString(k.Payload, "topic"),
		})
	}

	for _, n := range bundle.NutritionPatterns {
		out.NutritionPatterns = append(out.NutritionPatterns, NutritionResult{
			ID:         n.ID,
			Similarity: n.Score,
			FoodItem:   payloadString(n.Payload, "food_item"),
			LocalName:  payloadString(n.Payload, "local_name"),
			Content:    payloadString(n.Payload, "content"),
		})
	}

	return nil, out, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
