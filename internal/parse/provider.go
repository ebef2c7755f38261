package parse

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

// Provider produces a dependency parse for one sentence. Implementations are
// external collaborators; the analysis core treats them as oracles.
type Provider interface {
	// Parse returns the dependency tree for a single sentence
	Parse(ctx context.Context, sentence string) (*Tree, error)

	// IsAvailable checks if the provider is reachable
	IsAvailable(ctx context.Context) bool
}

// HTTPProvider talks to a spaCy-style parse server over HTTP
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Tokens []Token `json:"tokens"`
	Error  string  `json:"error,omitempty"`
}

// NewHTTPProvider creates a parse provider backed by an HTTP server
func NewHTTPProvider(baseURL string, timeout time.Duration, httpProxy, httpsProxy, noProxy string) *HTTPProvider {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
		},
	}
}

// Parse requests a dependency parse for the sentence
func (p *HTTPProvider) Parse(ctx context.Context, sentence string) (*Tree, error) {
	body, err := json.Marshal(parseRequest{Text: sentence})
	if err != nil {
		return nil, fmt.Errorf("marshal parse request: %w", err)
	}

	url := p.baseURL + "/parse"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parse server status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed parseResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("parse server error: %s", parsed.Error)
	}
	if len(parsed.Tokens) == 0 {
		return nil, fmt.Errorf("parse server returned no tokens for %q", sentence)
	}

	return NewTree(parsed.Tokens)
}

// IsAvailable checks the server health endpoint
func (p *HTTPProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}
