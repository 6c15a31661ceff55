// Package generate turns entity-annotated dependency parses into
// wh-question candidates. Generation is rule-driven: each (entity
// category, grammatical role) pair selects rewriting rules that front a
// question word and restructure the clause around it.
package generate

import (
	"regexp"
	"strings"

	"github.com/ad-freiburg/question-generation/internal/model"
	"github.com/ad-freiburg/question-generation/internal/rules"
)

// chroniclePattern matches list-style date lines ("1871 - Treaty signed")
// that parse as sentences but are not prose.
var chroniclePattern = regexp.MustCompile(`^[0-9.,/]+\s*[–—-]\s`)

// Generator produces question candidates from parsed sentences. It is
// stateless apart from its rule set and safe for concurrent use.
type Generator struct {
	rules *rules.Set
}

func New(set *rules.Set) *Generator {
	return &Generator{rules: set}
}

// Generate produces all question candidates for one sentence, in mention
// order, together with per-sentence statistics. Sentences that fail a
// precondition yield no candidates and a recorded skip reason; an error is
// returned only when the sentence violates its structural contract.
func (g *Generator) Generate(s *model.ParsedSentence) ([]model.QuestionCandidate, model.SentenceStats, error) {
	stats := model.SentenceStats{SentenceID: s.ID}
	if err := s.Validate(); err != nil {
		return nil, stats, err
	}

	if len(s.Mentions) == 0 {
		// Nothing to ask about; not a skip worth recording.
		return nil, stats, nil
	}
	if reason, ok := g.precheck(s); !ok {
		stats.Skips = append(stats.Skips, reason)
		return nil, stats, nil
	}
	s = removeSubclauses(s)
	if s == nil {
		stats.Skips = append(stats.Skips, model.SkipNoMainClause)
		return nil, stats, nil
	}
	if len(s.Mentions) == 0 {
		// All mentions sat in removed subclauses.
		return nil, stats, nil
	}
	if reason, ok := g.precondition(s); !ok {
		stats.Skips = append(stats.Skips, reason)
		return nil, stats, nil
	}

	var out []model.QuestionCandidate
	for i, m := range s.Mentions {
		if merr := s.CheckMention(i); merr != nil {
			stats.Skips = append(stats.Skips, model.SkipBadMention)
			continue
		}
		res := resolveRole(s, m, g.rules.Roles)
		if res.LowConfidence {
			stats.Skips = append(stats.Skips, model.SkipUnresolvedRole)
			continue
		}
		for _, rule := range g.rules.Match(m.Category, res.Role) {
			if !applies(s, res, rule) {
				// A restricted rule that does not match is not a loss
				// worth counting.
				continue
			}
			q, ok := rewrite(s, m, res, rule)
			if !ok {
				stats.Skips = append(stats.Skips, model.SkipNoFiniteVerb)
				continue
			}
			out = append(out, model.QuestionCandidate{
				SentenceID: s.ID,
				Question:   q,
				Answer:     m.CleanName(),
				RuleID:     rule.ID,
			})
		}
	}
	stats.Candidates = len(out)
	return out, stats, nil
}

// precheck runs the gates that apply to the raw sentence, before
// subclause removal.
func (g *Generator) precheck(s *model.ParsedSentence) (model.SkipReason, bool) {
	for _, t := range s.Tokens {
		if t.Text == ":" {
			return model.SkipColon, false
		}
	}
	if !hasSubject(s, g.rules.Roles) {
		return model.SkipNoSubject, false
	}
	return "", true
}

// precondition checks the sentence-level gates that make a sentence
// unusable for question generation regardless of its mentions. Runs on
// the reduced sentence.
func (g *Generator) precondition(s *model.ParsedSentence) (model.SkipReason, bool) {
	if chroniclePattern.MatchString(s.Text()) {
		return model.SkipChronicle, false
	}
	root, ok := s.Root()
	if !ok {
		return model.SkipNonVerbRoot, false
	}
	if !strings.HasPrefix(s.Tokens[root].Tag, "V") {
		return model.SkipNonVerbRoot, false
	}
	for _, m := range s.Mentions {
		if root >= m.Start && root < m.End {
			return model.SkipEntityRoot, false
		}
	}
	return "", true
}

func hasSubject(s *model.ParsedSentence, labels rules.RoleLabels) bool {
	for _, t := range s.Tokens {
		for _, rel := range labels.Subject {
			if t.Rel == rel {
				return true
			}
		}
	}
	return false
}
