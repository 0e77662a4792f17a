package mcpadapter

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
)

// GuardInputArgs is the MCP tool input schema for input guarding (matches
// HTTP API field names).
type GuardInputArgs struct {
	EventID string `json:"event_id" jsonschema:"unique event identifier"`
	Text    string `json:"text" jsonschema:"user-supplied text to validate"`
}

// GuardOutputArgs is the MCP tool input schema for output guarding.
type GuardOutputArgs struct {
	EventID string `json:"event_id" jsonschema:"unique event identifier"`
	Text    string `json:"text" jsonschema:"generated text to validate"`
	Context string `json:"context,omitempty" jsonschema:"optional grounding context for the hallucination check"`
	Query   string `json:"query,omitempty" jsonschema:"optional originating query for the relevance check"`
}

// NewGuardInputHandler returns a tool handler that runs the input chain.
// Pass the returned function to mcp.AddTool.
func NewGuardInputHandler(p *pipeline.Pipeline) func(context.Context, *mcp.CallToolRequest, GuardInputArgs) (*mcp.CallToolResult, models.GuardResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GuardInputArgs) (*mcp.CallToolResult, models.GuardResult, error) {
		result := p.ValidateInput(ctx, input.Text)
		return nil, toGuardResult(input.EventID, models.EventTypeUserInput, result), nil
	}
}

// NewGuardOutputHandler returns a tool handler that runs the output chain.
// Pass the returned function to mcp.AddTool.
func NewGuardOutputHandler(p *pipeline.Pipeline) func(context.Context, *mcp.CallToolRequest, GuardOutputArgs) (*mcp.CallToolResult, models.GuardResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GuardOutputArgs) (*mcp.CallToolResult, models.GuardResult, error) {
		result := p.ValidateOutput(ctx, input.Text, input.Context, input.Query)
		return nil, toGuardResult(input.EventID, models.EventTypeModelOutput, result), nil
	}
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
