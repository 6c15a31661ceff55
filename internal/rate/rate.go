// Package rate annotates generated questions with quality ratings from an
// LLM provider. Ratings are post-hoc annotations: they never reorder or
// suppress questions.
package rate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ad-freiburg/question-generation/internal/filter"
	"github.com/ad-freiburg/question-generation/internal/model"
)

// Criterion is one evaluation dimension with its rating prompt.
type Criterion struct {
	Name   string
	Prompt string
}

// Criteria are the evaluation dimensions, rated yes, borderline or no.
var Criteria = []Criterion{
	{"grammar", "Grammatically correct?"},
	{"naturalness", "Does the question sound natural?"},
	{"context", "Is it clear what the question refers to - is necessary context given?"},
	{"answerability", "Is the question specific enough to be theoretically answerable?"},
	{"question_word", "Is the question word correct?"},
	{"nerd_question", "If entities in the question are replaced by their canonical names, is the meaning preserved (or clarified)?"},
	{"nerd_answer", "If entities in the answer are replaced by their canonical names, is the meaning preserved (or clarified)?"},
}

// Value is a single rating outcome.
type Value string

const (
	Yes        Value = "yes"
	Borderline Value = "borderline"
	No         Value = "no"
)

// ParseValue normalizes a provider's answer to a rating value.
func ParseValue(s string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return Yes, nil
	case "borderline", "b":
		return Borderline, nil
	case "no", "n":
		return No, nil
	}
	return "", fmt.Errorf("unknown rating value %q", s)
}

// Rating is the full evaluation of one question record.
type Rating struct {
	SentenceID string           `json:"sentence_id,omitempty"`
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	RuleID     string           `json:"rule_id,omitempty"`
	Results    map[string]Value `json:"results"`
	Model      string           `json:"model,omitempty"`
}

// Provider rates question records.
type Provider interface {
	Name() string
	Rate(ctx context.Context, rec filter.Record) (*Rating, error)
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates the configured rating provider. An empty provider
// name disables rating and returns nil without error.
func NewProvider(cfg model.RaterConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIRater(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown rating provider: %s (supported: openai)", cfg.Provider)
	}
}
