package coref

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

// Resolver normalizes coreferences in raw text before parsing
type Resolver interface {
	Resolve(ctx context.Context, text string) (string, error)
}

// NoopResolver passes text through unchanged. Used when no coreference
// backend is configured; sentences without pronouns are unaffected either way.
type NoopResolver struct{}

func (NoopResolver) Resolve(_ context.Context, text string) (string, error) {
	return text, nil
}

// HTTPResolver asks a coreference server for the document's tokens and
// chains, then applies the replacement locally
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

type corefRequest struct {
	Text string `json:"text"`
}

type corefResponse struct {
	Tokens []Token `json:"tokens"`
	Chains []Chain `json:"chains"`
	Error  string  `json:"error,omitempty"`
}

// NewHTTPResolver creates a resolver backed by an HTTP coreference server
func NewHTTPResolver(baseURL string, timeout time.Duration, httpProxy, httpsProxy, noProxy string) *HTTPResolver {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
		},
	}
}

// Resolve fetches coreference chains and rewrites pronoun mentions
func (r *HTTPResolver) Resolve(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(corefRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal coref request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/coref", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create coref request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("coref server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read coref response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("coref server status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed corefResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode coref response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("coref server error: %s", parsed.Error)
	}
	if len(parsed.Chains) == 0 {
		// nothing to resolve
		return text, nil
	}

	return Apply(parsed.Tokens, parsed.Chains), nil
}
