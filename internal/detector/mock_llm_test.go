package detector

import (
	"context"

	"github.com/supersafe-ai/guard-agent/internal/llm"
)

// MockLLMClient implements llm.Client for tests without making real API
// calls.
type MockLLMClient struct {
	// What the mock should return when invoked
	ResponseToReturn *llm.Response
	ErrorToReturn    error

	// Track invocations for verification
	WasCalled   bool
	LastRequest *llm.Request
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	m.WasCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.Request) (*llm.Response, error) {
	m.WasCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}
