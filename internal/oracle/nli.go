package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CogNetSys/dndscore/internal/util"
)

// NLIServer implements the Entailment oracle against a local NLI model
// server (e.g. an MNLI classifier behind an HTTP endpoint)
type NLIServer struct {
	baseURL    string
	httpClient *http.Client
}

type nliRequest struct {
	Premise    string `json:"premise"`
	Hypothesis string `json:"hypothesis"`
}

type nliResponse struct {
	// Entailment is the probability mass on the entailment label
	Entailment float64 `json:"entailment"`
	Error      string  `json:"error,omitempty"`
}

// NewNLIServer creates an entailment oracle backed by an NLI HTTP server
func NewNLIServer(baseURL string, timeout time.Duration, httpProxy, httpsProxy, noProxy string) *NLIServer {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &NLIServer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
		},
	}
}

// Entails queries the NLI server for the entailment probability
func (n *NLIServer) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	body, err := json.Marshal(nliRequest{Premise: premise, Hypothesis: hypothesis})
	if err != nil {
		return 0, fmt.Errorf("marshal NLI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/entail", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create NLI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("NLI server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read NLI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("NLI server status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed nliResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("decode NLI response: %w", err)
	}
	if parsed.Error != "" {
		return 0, fmt.Errorf("NLI server error: %s", parsed.Error)
	}
	if parsed.Entailment < 0 || parsed.Entailment > 1 {
		return 0, fmt.Errorf("NLI server returned probability out of range: %v", parsed.Entailment)
	}
	return parsed.Entailment, nil
}
