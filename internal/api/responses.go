package api

import "github.com/supersafe-ai/guard-agent/internal/agent"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ChatRequest struct {
	ClientID string `json:"client_id,omitempty"`
	Message  string `json:"message"`
}

type ChatResponse struct {
	Reply agent.Reply `json:"reply"`
}
