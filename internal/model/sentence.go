package model

import (
	"fmt"
	"strings"
)

// Category classifies an entity mention's semantic type
type Category string

const (
	CategoryPerson       Category = "PERSON"
	CategoryLocation     Category = "LOCATION"
	CategoryOrganization Category = "ORGANIZATION"
	CategoryDate         Category = "DATE"
	CategoryNumber       Category = "NUMBER"
	CategoryMisc         Category = "MISC"
)

// NormalizeCategory maps free-form category labels from upstream annotators
// onto the fixed category set. Unknown labels map to MISC.
func NormalizeCategory(label string) Category {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PERSON", "PER", "FICTIONAL CHARACTER", "MUSICAL ARTIST", "MUSICAL GROUP":
		return CategoryPerson
	case "LOCATION", "LOC", "GPE", "PLACE":
		return CategoryLocation
	case "ORGANIZATION", "ORGANISATION", "ORG", "SPORTS TEAM":
		return CategoryOrganization
	case "DATE", "TIME", "YEAR", "MONTH":
		return CategoryDate
	case "NUMBER", "QUANTITY", "CARDINAL":
		return CategoryNumber
	default:
		return CategoryMisc
	}
}

// GrammaticalRole is the grammatical function of a mention within its
// sentence. Resolved transiently during generation, never persisted.
type GrammaticalRole string

const (
	RoleSubject      GrammaticalRole = "subject"
	RoleDirectObject GrammaticalRole = "direct_object"
	RolePrepObject   GrammaticalRole = "prep_object"
	RoleAppositive   GrammaticalRole = "appositive"
	RoleOther        GrammaticalRole = "other"
)

// Token is a single parsed token with its dependency attachment.
// Head is the index of the head token; the root token points to itself.
type Token struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Lemma string `json:"lemma,omitempty"`
	Tag   string `json:"tag"`  // PTB part-of-speech tag (NN, VBD, IN, ...)
	Rel   string `json:"rel"`  // dependency relation to the head
	Head  int    `json:"head"` // index of the head token
}

// EntityMention is a contiguous token span [Start, End) annotated with a
// category and canonical text. In linked-entity mode ExternalID carries the
// knowledge-base identifier and Name its human-readable label.
type EntityMention struct {
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Category   Category `json:"category"`
	Name       string   `json:"name"`     // canonical text (resolved label)
	Original   string   `json:"original"` // raw mention text from the source
	ExternalID string   `json:"external_id,omitempty"`
}

// CleanName returns the canonical text with annotation underscores resolved,
// e.g. "Albert_Einstein" -> "Albert Einstein".
func (m EntityMention) CleanName() string {
	name := strings.ReplaceAll(m.Name, "__", ": ")
	return strings.ReplaceAll(name, "_", " ")
}

// Annotated returns the mention in the [<name>|<category>|<original>] wire
// format, or [<id>:<name>|...] in linked-entity mode.
func (m EntityMention) Annotated() string {
	name := m.Name
	if m.ExternalID != "" {
		name = m.ExternalID + ":" + m.Name
	}
	return "[" + name + "|" + string(m.Category) + "|" + m.Original + "]"
}

// ParsedSentence is the immutable structural representation consumed by
// generation: tokens with a dependency tree, plus entity mentions.
type ParsedSentence struct {
	ID       string          `json:"id"` // source provenance (line number)
	Tokens   []Token         `json:"tokens"`
	Mentions []EntityMention `json:"mentions"`
}

// Root returns the index of the sentence's root token.
func (s *ParsedSentence) Root() (int, bool) {
	for _, t := range s.Tokens {
		if t.Head == t.Index {
			return t.Index, true
		}
	}
	return 0, false
}

// Text renders the raw token sequence, mentions left unannotated.
func (s *ParsedSentence) Text() string {
	words := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}

// Validate checks the structural invariants the upstream parser guarantees:
// indices are dense, every head index is in range, and exactly one token is
// the root. A violation means the sentence must be rejected as a unit.
func (s *ParsedSentence) Validate() error {
	if len(s.Tokens) == 0 {
		return fmt.Errorf("sentence %s: no tokens", s.ID)
	}
	roots := 0
	for i, t := range s.Tokens {
		if t.Index != i {
			return fmt.Errorf("sentence %s: token index %d at position %d", s.ID, t.Index, i)
		}
		if t.Head < 0 || t.Head >= len(s.Tokens) {
			return fmt.Errorf("sentence %s: dangling head index %d for token %d", s.ID, t.Head, i)
		}
		if t.Head == t.Index {
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("sentence %s: %d root tokens", s.ID, roots)
	}
	return nil
}

// MentionError reports why a single mention is unusable. The mention is
// skipped; the rest of the sentence is still processed.
type MentionError struct {
	Mention EntityMention
	Reason  string
}

func (e *MentionError) Error() string {
	return fmt.Sprintf("mention %q: %s", e.Mention.Original, e.Reason)
}

// CheckMention validates one mention span against the sentence: non-empty,
// in range, and not overlapping any other mention.
func (s *ParsedSentence) CheckMention(idx int) error {
	m := s.Mentions[idx]
	if m.Start < 0 || m.End > len(s.Tokens) || m.Start >= m.End {
		return &MentionError{Mention: m, Reason: "empty or out-of-range span"}
	}
	for j, other := range s.Mentions {
		if j == idx {
			continue
		}
		if m.Start < other.End && other.Start < m.End {
			return &MentionError{Mention: m, Reason: fmt.Sprintf("span overlaps mention %q", other.Original)}
		}
	}
	return nil
}
