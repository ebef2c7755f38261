package oracle

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/CogNetSys/dndscore/internal/model"
)

const entailmentSystemPrompt = `You are a natural language inference judge.
Given a premise and a hypothesis, output ONLY the probability (a number
between 0 and 1) that the premise entails the hypothesis. No explanation.`

var probabilityPattern = regexp.MustCompile(`[01](?:\.\d+)?`)

// OpenAIOracle implements the Entailment oracle via chat completions and the
// Similarity/Embedder oracles via the embeddings API
type OpenAIOracle struct {
	client          *openai.Client
	entailmentModel string
	embeddingModel  string
}

// NewOpenAIOracle creates an OpenAI-backed oracle pair
func NewOpenAIOracle(cfg model.OracleConfig) (*OpenAIOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	entailmentModel := cfg.EntailmentModel
	if entailmentModel == "" {
		entailmentModel = openai.GPT4oMini
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	return &OpenAIOracle{
		client:          openai.NewClientWithConfig(clientConfig),
		entailmentModel: entailmentModel,
		embeddingModel:  embeddingModel,
	}, nil
}

// Entails asks the chat model for an entailment probability
func (o *OpenAIOracle) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.entailmentModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: entailmentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Premise: %s\nHypothesis: %s", premise, hypothesis)},
		},
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil {
		return 0, fmt.Errorf("OpenAI entailment: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("no response from OpenAI")
	}

	return parseProbability(resp.Choices[0].Message.Content)
}

// Embed returns the embedding vector for a claim
func (o *OpenAIOracle) Embed(ctx context.Context, claim string) ([]float64, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{claim},
		Model: openai.EmbeddingModel(o.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float64(v)
	}
	return vec, nil
}

// Similarity is cosine similarity over the embedding vectors
func (o *OpenAIOracle) Similarity(ctx context.Context, a, b string) (float64, error) {
	sim := &EmbeddingSimilarity{Embedder: o}
	return sim.Similarity(ctx, a, b)
}

// parseProbability extracts the first probability-looking number from the
// model output and clamps it to [0,1]
func parseProbability(content string) (float64, error) {
	match := probabilityPattern.FindString(strings.TrimSpace(content))
	if match == "" {
		return 0, fmt.Errorf("no probability in model output: %q", content)
	}
	p, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("parse probability %q: %w", match, err)
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p, nil
}
