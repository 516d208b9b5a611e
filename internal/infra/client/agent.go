// Package client holds the HTTP and SDK clients for the external
// extraction backends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// AgentClient calls the extraction agent service (Python/LangGraph).
type AgentClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewAgentClient creates a new AgentClient.
func NewAgentClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AgentClient {
	return &AgentClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// Source labels extraction metrics and responses.
func (c *AgentClient) Source() string { return "agent" }

// ExtractLines sends raw statement text to the agent and returns the
// rows it transcribed.
func (c *AgentClient) ExtractLines(ctx context.Context, text string) ([]domain.ExtractedLine, *domain.ExtractionUsage, error) {
	ctx, span := tracer.Start(ctx, "AgentClient.ExtractLines")
	defer span.End()
	span.SetAttributes(attribute.Int("text.length", len(text)))

	var agentResp domain.AgentExtractResponse

	result, err := c.cb.Execute(func() (any, error) {
		var innerErr error
		innerErr = resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(domain.AgentExtractRequest{Text: text})
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/v1/extract/invoke", c.baseURL)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("agent API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&agentResp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &agentResp, nil
	})

	if err != nil {
		return nil, nil, &domain.ErrExternalService{Service: "agent", Err: err}
	}

	out := result.(*domain.AgentExtractResponse)
	return out.Lines, out.Usage, nil
}
