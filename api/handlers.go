package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gramhealthco/asha/pkg/retrieval"
	"github.com/gramhealthco/asha/pkg/risk"
	"github.com/gramhealthco/asha/pkg/signal"
	"github.com/gramhealthco/asha/pkg/vector"
)

// QueryRequest is one sanitized health query.
type QueryRequest struct {
	UserID         string `json:"user_id"`
	Text           string `json:"text"`
	Age            int    `json:"age"`
	PregnancyStage string `json:"pregnancy_stage"`
	Language       string `json:"language"`
	SignalType     string `json:"signal_type"`
	District       string `json:"district"`
	Cluster        string `json:"cluster"`
}

// EvidenceMemory is one reranked user memory in a query response.
type EvidenceMemory struct {
	ID          string         `json:"id"`
	Score       float32        `json:"score"`
	RerankScore float64        `json:"rerank_score"`
	Payload     map[string]any `json:"payload"`
}

// EvidenceItem is one knowledge or nutrition hit in a query response.
type EvidenceItem struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// QueryResponse is the outcome of a health query: the risk assessment plus
// the evidence it rests on.
type QueryResponse struct {
	PointID            string           `json:"point_id"`
	RiskScore          float64          `json:"risk_score"`
	RiskCategory       risk.Category    `json:"risk_category"`
	Alert              string           `json:"alert,omitempty"`
	AlertMessage       string           `json:"alert_message,omitempty"`
	SufficientEvidence bool             `json:"sufficient_evidence"`
	TotalEvidence      int              `json:"total_evidence"`
	UserMemories       []EvidenceMemory `json:"user_memories"`
	MedicalKnowledge   []EvidenceItem   `json:"medical_knowledge"`
	NutritionPatterns  []EvidenceItem   `json:"nutrition_patterns"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleHealth reports vector store reachability.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.store.Healthy(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// handleQuery runs the full pipeline for one signal: retrieve evidence,
// score risk, then store the signal as a new memory.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	stage, err := signal.ParseStage(req.PregnancyStage)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	user := signal.UserContext{
		UserID:         req.UserID,
		Age:            req.Age,
		PregnancyStage: stage,
		Language:       req.Language,
		District:       req.District,
		Cluster:        req.Cluster,
	}

	sig := signal.HealthSignal{
		Text:       req.Text,
		User:       user,
		SignalType: req.SignalType,
	}
	if sig.SignalType == "" {
		sig.SignalType = "symptom_report"
	}

	if err := sig.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	bundle, err := s.engine.RetrieveForQuery(c.Context(), req.Text, user)
	if err != nil {
		s.logger.Error("retrieval failed", "user_id", req.UserID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "retrieval failed"})
	}

	memories := make([]vector.ScoredPoint, 0, len(bundle.UserMemories))
	for _, m := range bundle.UserMemories {
		memories = append(memories, m.ScoredPoint)
	}

	score := s.scorer.Score(req.Text, user, memories)
	sig.RiskScore = score

	pointID, err := s.manager.StoreHealthSignal(c.Context(), sig)
	if err != nil {
		s.logger.Error("storing signal failed", "user_id", req.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to store signal"})
	}

	resp := buildQueryResponse(pointID, score, s.scorer.Categorize(score), bundle)

	// Deterioration check is best effort, the stored signal stands either way.
	alert, err := s.manager.DetectDeterioration(c.Context(), req.UserID, 0)
	if err != nil {
		s.logger.Warn("deterioration check failed", "user_id", req.UserID, "error", err)
	} else {
		resp.Alert = alert.Level
		resp.AlertMessage = alert.Message
	}

	return c.JSON(resp)
}

func buildQueryResponse(pointID string, score float64, category risk.Category, bundle *retrieval.Bundle) QueryResponse {
	resp := QueryResponse{
		PointID:            pointID,
		RiskScore:          score,
		RiskCategory:       category,
		SufficientEvidence: bundle.Sufficient(),
		TotalEvidence:      bundle.TotalEvidence,
		UserMemories:       make([]EvidenceMemory, 0, len(bundle.UserMemories)),
		MedicalKnowledge:   make([]EvidenceItem, 0, len(bundle.MedicalKnowledge)),
		NutritionPatterns:  make([]EvidenceItem, 0, len(bundle.NutritionPatterns)),
	}

	for _, m := range bundle.UserMemories {
		resp.UserMemories = append(resp.UserMemories, EvidenceMemory{
			ID:          m.ID,
			Score:       m.Score,
			RerankScore: m.RerankScore,
			Payload:     m.Payload,
		})
	}

	for _, k := range bundle.MedicalKnowledge {
		resp.MedicalKnowledge = append(resp.MedicalKnowledge, EvidenceItem{ID: k.ID, Score: k.Score, Payload: k.Payload})
	}

	for _, n := range bundle.NutritionPatterns {
		resp.NutritionPatterns = append(resp.NutritionPatterns, EvidenceItem{ID: n.ID, Score: n.Score, Payload: n.Payload})
	}

	return resp
}

// handleTrajectory returns the deterioration analysis for a user.
func (s *Server) handleTrajectory(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "userID parameter required"})
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "days must be a positive integer"})
		}
		days = parsed
	}

	alert, err := s.manager.DetectDeterioration(c.Context(), userID, days)
	if err != nil {
		s.logger.Error("trajectory analysis failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "trajectory analysis failed"})
	}

	return c.JSON(alert)
}

// DecayRequest asks for a decay pass over one user's memories.
type DecayRequest struct {
	UserID string `json:"user_id"`
}

// handleDecay applies memory decay for a user.
func (s *Server) handleDecay(c *fiber.Ctx) error {
	var req DecayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user_id required"})
	}

	decayed, err := s.manager.ApplyDecay(c.Context(), req.UserID)
	if err != nil {
		s.logger.Error("decay failed", "user_id", req.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "decay failed"})
	}

	return c.JSON(fiber.Map{"user_id": req.UserID, "decayed": decayed})
}

// InsightRequest creates a population insight.
type InsightRequest struct {
	District string `json:"district"`
	Text     string `json:"text"`
	Type     string `json:"type"`
}

// handleInsight stores a district-level insight.
func (s *Server) handleInsight(c *fiber.Ctx) error {
	var req InsightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	id, err := s.manager.CreatePopulationInsight(c.Context(), req.District, req.Text, req.Type)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// handleHighRiskUsers returns the supervisor follow-up roster.
func (s *Server) handleHighRiskUsers(c *fiber.Ctx) error {
	roster, err := s.manager.HighRiskUsers(c.Context())
	if err != nil {
		s.logger.Error("high risk roster failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to build roster"})
	}

	return c.JSON(fiber.Map{"count": len(roster), "users": roster})
}

// handleEraseUser deletes every memory for a user.
func (s *Server) handleEraseUser(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "userID parameter required"})
	}

	if err := s.manager.EraseUser(c.Context(), userID); err != nil {
		s.logger.Error("erase failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "erase failed"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
