// Package filter partitions generated questions into accepted and excluded
// sets. Each exclusion carries a reason; the criteria favor precision of
// the surviving set over recall.
package filter

import (
	"context"
	"fmt"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ad-freiburg/question-generation/internal/model"
	"github.com/ad-freiburg/question-generation/internal/parse"
)

// Reason identifies why a question was excluded.
type Reason string

const (
	ReasonMalformed      Reason = "malformed_record"
	ReasonAnswerIt       Reason = "answer_it"
	ReasonEntityIt       Reason = "entity_it"
	ReasonComma          Reason = "comma"
	ReasonContainsAnswer Reason = "contains_answer"
	ReasonMissingContext Reason = "missing_context"
	ReasonMaxTokens      Reason = "max_tokens"
	ReasonDuplicate      Reason = "duplicate"
	ReasonNoConnection   Reason = "no_connection"
)

// contextWords reference a discourse context the standalone question does
// not have ("When did they arrive there?").
var contextWords = map[string]bool{
	"this": true, "there": true, "then": true, "these": true,
	"they": true, "he": true, "she": true,
}

var pronouns = map[string]bool{
	"she": true, "he": true, "it": true, "they": true,
	"her": true, "his": true, "its": true, "their": true,
	"him": true, "them": true,
}

// ConnectionChecker reports whether the entities of a question and its
// answer are connected in a knowledge base. Optional; nil disables the
// check.
type ConnectionChecker interface {
	Connected(ctx context.Context, question, answer []model.EntityMention) (bool, error)
}

// Filter applies the exclusion criteria to question records. Not safe for
// concurrent use: the duplicate check mutates the exclusion set.
type Filter struct {
	maxTokens int
	linked    bool
	seen      *gocache.Cache
	kb        ConnectionChecker
}

// Option configures a Filter.
type Option func(*Filter)

// WithConnectionCheck enables the knowledge-base connection criterion.
func WithConnectionCheck(kb ConnectionChecker) Option {
	return func(f *Filter) { f.kb = kb }
}

// WithSeen seeds the duplicate check with previously accepted questions.
func WithSeen(questions []string) Option {
	return func(f *Filter) {
		for _, q := range questions {
			f.seen.Set(q, true, gocache.NoExpiration)
		}
	}
}

// WithLinkedEntities switches annotation parsing to the linked-entity
// format.
func WithLinkedEntities() Option {
	return func(f *Filter) { f.linked = true }
}

func New(maxTokens int, opts ...Option) *Filter {
	f := &Filter{
		maxTokens: maxTokens,
		seen:      gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply checks one record against all criteria in order and returns the
// first matching exclusion reason, or ok. Accepted questions enter the
// duplicate set. An error is returned only when the connection check fails
// to reach the knowledge base.
func (f *Filter) Apply(ctx context.Context, rec Record) (Reason, bool, error) {
	qEnts := parse.Annotations(rec.Question, f.linked)
	aEnts := parse.Annotations(rec.Answer, f.linked)

	if entityIt(aEnts) {
		return ReasonAnswerIt, false, nil
	}
	if entityIt(qEnts) {
		return ReasonEntityIt, false, nil
	}
	if hasComma(rec.Question) {
		return ReasonComma, false, nil
	}
	if containsAnswer(qEnts, aEnts) {
		return ReasonContainsAnswer, false, nil
	}
	if missingContext(rec.Question) {
		return ReasonMissingContext, false, nil
	}
	if tooLong(rec.Question, f.maxTokens) {
		return ReasonMaxTokens, false, nil
	}
	if _, dup := f.seen.Get(rec.Question); dup {
		return ReasonDuplicate, false, nil
	}
	if f.kb != nil {
		connected, err := f.kb.Connected(ctx, qEnts, aEnts)
		if err != nil {
			return "", false, fmt.Errorf("connection check: %w", err)
		}
		if !connected {
			return ReasonNoConnection, false, nil
		}
	}
	f.seen.Set(rec.Question, true, gocache.NoExpiration)
	return "", true, nil
}

// Seen returns the questions accepted or seeded so far, for persisting the
// exclusion list after a run.
func (f *Filter) Seen() []string {
	items := f.seen.Items()
	out := make([]string, 0, len(items))
	for q := range items {
		out = append(out, q)
	}
	return out
}

// entityIt rejects mentions whose surface form was a bare "it". Those
// parses regularly put the placeholder in positions that wreck the
// rewritten clause.
func entityIt(mentions []model.EntityMention) bool {
	for _, m := range mentions {
		if strings.EqualFold(m.Original, "it") {
			return true
		}
	}
	return false
}

// containsAnswer rejects questions that still carry their own answer
// entity, unless the surface form was a pronoun and thus unrecognizable to
// a reader.
func containsAnswer(qEnts, aEnts []model.EntityMention) bool {
	for _, q := range qEnts {
		for _, a := range aEnts {
			if q.Name == a.Name && !pronouns[strings.ToLower(q.Original)] {
				return true
			}
		}
	}
	return false
}

// hasComma rejects questions with a comma outside an annotation. A comma
// left after rewriting usually drags along a detached clause fragment.
func hasComma(question string) bool {
	return strings.Contains(parse.Mask(question, "[x]"), ",")
}

func missingContext(question string) bool {
	for _, tok := range strings.Fields(parse.Mask(question, "[x]")) {
		if contextWords[strings.ToLower(tok)] {
			return true
		}
	}
	return false
}

func tooLong(question string, maxTokens int) bool {
	return len(strings.Fields(parse.Mask(question, "[x]"))) > maxTokens
}
