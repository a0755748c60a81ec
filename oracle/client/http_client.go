package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wargame/oracle"
)

// Client talks to a remote agent service that fronts the LLMs. It
// implements both oracle contracts over plain JSON POST endpoints.
type Client struct {
	serverURL string
	http      *http.Client
}

// New initializes and returns a new oracle client. The timeout bounds the
// whole HTTP exchange and is separate from the engine's per-call context
// timeout; whichever fires first cancels the request.
func New(serverURL string, timeout time.Duration) *Client {
	return &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) ProposeMoves(ctx context.Context, req oracle.MoveRequest) (oracle.MoveProposal, error) {
	var proposal oracle.MoveProposal
	if err := c.post(ctx, "/oracle/proposeMoves", req, &proposal); err != nil {
		return oracle.MoveProposal{}, err
	}
	return proposal, nil
}

func (c *Client) ScoreScenarios(ctx context.Context, req oracle.ScoreRequest) (oracle.ScoreSheet, error) {
	var sheet oracle.ScoreSheet
	if err := c.post(ctx, "/oracle/scoreScenarios", req, &sheet); err != nil {
		return oracle.ScoreSheet{}, err
	}
	return sheet, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("oracle call %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle call %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("malformed %s response: %w", path, err)
	}
	return nil
}
