package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/agent"
	"github.com/supersafe-ai/guard-agent/internal/api/middleware"
	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
)

type Handler struct {
	pipeline *pipeline.Pipeline
	agent    *agent.Agent
	logger   *zerolog.Logger
}

func NewHandler(p *pipeline.Pipeline, a *agent.Agent, logger *zerolog.Logger) *Handler {
	return &Handler{
		pipeline: p,
		agent:    a,
		logger:   logger,
	}
}

// POST /api/v1/guard/input
// Body: models.GuardRequest
// Returns: models.GuardResult
func (h *Handler) GuardInput(req *restful.Request, resp *restful.Response) {
	var guardRequest models.GuardRequest
	if err := req.ReadEntity(&guardRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("event_id", guardRequest.EventID).
		Str("agent_name", guardRequest.Agent.Name).
		Msg("Start input guard")

	ctx := req.Request.Context()
	result := h.pipeline.ValidateInput(ctx, guardRequest.Content.Text)

	guardResult := toGuardResult(guardRequest.EventID, models.EventTypeUserInput, result)

	h.logger.Info().
		Str("event_id", guardResult.ID).
		Bool("blocked", guardResult.Blocked).
		Int("stages_run", len(guardResult.StageTrace)).
		Msg("Input guard complete")

	resp.WriteHeaderAndEntity(http.StatusOK, guardResult)
}

// POST /api/v1/guard/output
// Body: models.GuardRequest (content.context and content.query gate the
// LLM-backed checks)
// Returns: models.GuardResult
func (h *Handler) GuardOutput(req *restful.Request, resp *restful.Response) {
	var guardRequest models.GuardRequest
	if err := req.ReadEntity(&guardRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("event_id", guardRequest.EventID).
		Str("agent_name", guardRequest.Agent.Name).
		Msg("Start output guard")

	ctx := req.Request.Context()
	result := h.pipeline.ValidateOutput(ctx,
		guardRequest.Content.Text,
		guardRequest.Content.Context,
		guardRequest.Content.Query)

	guardResult := toGuardResult(guardRequest.EventID, models.EventTypeModelOutput, result)

	h.logger.Info().
		Str("event_id", guardResult.ID).
		Bool("blocked", guardResult.Blocked).
		Int("stages_run", len(guardResult.StageTrace)).
		Msg("Output guard complete")

	resp.WriteHeaderAndEntity(http.StatusOK, guardResult)
}

// POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest
	if err := req.ReadEntity(&chatRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if chatRequest.Message == "" {
		middleware.HandleError(resp, fmt.Errorf("message is required"), http.StatusBadRequest)
		return
	}

	clientID := chatRequest.ClientID
	if clientID == "" {
		clientID = req.Request.RemoteAddr
	}

	reply, err := h.agent.Chat(req.Request.Context(), clientID, chatRequest.Message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Chat failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, ChatResponse{Reply: reply})
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func toGuardResult(eventID string, direction models.EventType, result models.PipelineResult) models.GuardResult {
	return models.GuardResult{
		ID:         eventID,
		Direction:  direction,
		Text:       result.Text,
		Blocked:    result.Blocked,
		Reason:     result.Reason,
		StageTrace: result.StageTrace,
		CreatedAt:  time.Now(),
	}
}
