package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	humane "github.com/sierrasoftworks/humane-errors-go"

	"github.com/easelgate/easelgate/pkg/agent"
	"github.com/easelgate/easelgate/pkg/models"
)

// httpClient is a shared HTTP client for agent status requests so
// connections are reused across calls.
var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// doAgentRequest fetches a JSON resource from the local enforcement agent.
func doAgentRequest[T any](ctx context.Context, uri string) (*T, humane.Error) {
	url := fmt.Sprintf("%s%s%s", agentURL(), agent.ApiRouteV1Alpha1, uri)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, humane.Wrap(err, "failed to create request", "this indicates a bug in the CLI; please report it")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, humane.Wrap(err, "failed to reach the enforcement agent", "ensure easelgate-agent is running", "check the agent.url setting")
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, humane.Wrap(err, "failed to read agent response", "the agent may have closed the connection unexpectedly")
	}

	if resp.StatusCode != http.StatusOK {
		var errBody models.ErrorResponse
		if err := json.Unmarshal(respBytes, &errBody); err == nil {
			return nil, humane.Wrap(errBody.AsHumaneError(), fmt.Sprintf("HTTP %d", resp.StatusCode), "check the error details for more information")
		}
		return nil, humane.New(string(respBytes), "the agent returned an unexpected error format")
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, humane.Wrap(err, "failed to decode agent response", "the agent returned an unexpected response format")
	}

	return &result, nil
}
