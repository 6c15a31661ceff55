package model

// QuestionCandidate is one generated question paired with its expected
// answer. Created by the generator, immutable, emitted once.
type QuestionCandidate struct {
	SentenceID string `json:"sentence_id"` // provenance of the source sentence
	Question   string `json:"question"`
	Answer     string `json:"answer"` // the mention's canonical text, verbatim
	RuleID     string `json:"rule_id"`
}

// SkipReason records why a sentence or mention yielded no candidates.
// These are quality degradations, never errors.
type SkipReason string

const (
	SkipColon          SkipReason = "contains_colon"
	SkipNoSubject      SkipReason = "no_subject"
	SkipNonVerbRoot    SkipReason = "root_not_verb"
	SkipEntityRoot     SkipReason = "root_inside_mention"
	SkipChronicle      SkipReason = "chronicle_sentence"
	SkipNoMainClause   SkipReason = "no_main_clause"
	SkipBadMention     SkipReason = "malformed_mention"
	SkipUnresolvedRole SkipReason = "unresolved_role"
	SkipNoFiniteVerb   SkipReason = "no_finite_verb"
)

// SentenceStats summarizes one sentence's pass through the generator,
// reported to the CLI for verbose output.
type SentenceStats struct {
	SentenceID string       `json:"sentence_id"`
	Candidates int          `json:"candidates"`
	Skips      []SkipReason `json:"skips,omitempty"`
}
