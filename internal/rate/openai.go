package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ad-freiburg/question-generation/internal/filter"
	"github.com/ad-freiburg/question-generation/internal/model"
)

// OpenAIRater rates questions through OpenAI's Chat Completions API.
type OpenAIRater struct {
	client *openai.Client
	cfg    model.RaterConfig
}

func NewOpenAIRater(cfg model.RaterConfig) (*OpenAIRater, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIRater{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

func (p *OpenAIRater) Name() string {
	return "openai"
}

// IsAvailable checks that the API is reachable with the configured key.
func (p *OpenAIRater) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Rate asks the model to judge one question on every criterion and parses
// the returned JSON object.
func (p *OpenAIRater) Rate(ctx context.Context, rec filter.Record) (*Rating, error) {
	modelName := p.cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 256
	}
	timeout := time.Duration(p.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You evaluate automatically generated questions. Answer strictly with a JSON object mapping each criterion name to \"yes\", \"borderline\" or \"no\".",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(rec),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	results, err := parseResults(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return &Rating{
		SentenceID: rec.SentenceID,
		Question:   rec.Question,
		Answer:     rec.Answer,
		RuleID:     rec.RuleID,
		Results:    results,
		Model:      modelName,
	}, nil
}

func buildPrompt(rec filter.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\nAnswer: %s\n\n", rec.Question, rec.Answer)
	b.WriteString("Entity annotations have the form [name|category|original text].\n")
	b.WriteString("Rate the question on each criterion:\n")
	for _, c := range Criteria {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Prompt)
	}
	b.WriteString("\nRespond with only the JSON object.")
	return b.String()
}

// parseResults decodes the model's JSON answer, tolerating code fences.
func parseResults(content string) (map[string]Value, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("decode rating response: %w", err)
	}

	results := make(map[string]Value, len(Criteria))
	for _, c := range Criteria {
		answer, ok := raw[c.Name]
		if !ok {
			return nil, fmt.Errorf("rating response missing criterion %q", c.Name)
		}
		val, err := ParseValue(answer)
		if err != nil {
			return nil, fmt.Errorf("criterion %q: %w", c.Name, err)
		}
		results[c.Name] = val
	}
	return results, nil
}
