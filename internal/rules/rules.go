// Package rules holds the transformation rule table: a declarative mapping
// from (entity category, grammatical role) to ordered wh-rewriting rules.
// Rules are data, not code; new categories and roles are configuration.
package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// Strategy names the surface-rewriting strategy a rule applies.
type Strategy string

const (
	// StrategyFrontNoInvert substitutes the wh-phrase into the subject
	// position; word order is otherwise unchanged.
	StrategyFrontNoInvert Strategy = "front-no-invert"
	// StrategyFrontInvertAux fronts the wh-phrase and inverts the first
	// auxiliary ahead of the subject, with do-support when none exists.
	StrategyFrontInvertAux Strategy = "front-and-invert-aux"
	// StrategyReplaceInPlace substitutes the wh-phrase in situ (echo
	// question). Used by the OTHER-role fallback rules.
	StrategyReplaceInPlace Strategy = "replace-in-place"
)

// Rule is one transformation rule. Matching rules all fire, each producing
// its own candidate; Priority breaks ties for output ordering only.
type Rule struct {
	ID       string                `yaml:"id"`
	Category model.Category        `yaml:"category"`
	Role     model.GrammaticalRole `yaml:"role"`
	Wh       string                `yaml:"wh"`
	Strategy Strategy              `yaml:"strategy"`
	Priority int                   `yaml:"priority"`

	// DropPreposition removes the governing preposition of a
	// prepositional-object mention from the rewritten question, except when
	// it is "to".
	DropPreposition bool `yaml:"drop_preposition,omitempty"`
	// Prepositions restricts a prepositional-object rule to mentions
	// governed by one of the listed prepositions. Empty means any.
	Prepositions []string `yaml:"prepositions,omitempty"`
}

// RoleLabels maps dependency relation labels and tags onto grammatical
// roles. Kept as data so label inventories of other parsers are additive
// configuration.
type RoleLabels struct {
	Subject        []string `yaml:"subject"`
	DirectObject   []string `yaml:"direct_object"`
	PrepObject     []string `yaml:"prep_object"`
	Appositive     []string `yaml:"appositive"`
	AdpositionTags []string `yaml:"adposition_tags"`
}

// DefaultRoleLabels returns the label inventory of the upstream parser
// (Penn Treebank tags, spaCy-style relations).
func DefaultRoleLabels() RoleLabels {
	return RoleLabels{
		Subject:        []string{"nsubj", "nsubjpass", "csubj", "csubjpass"},
		DirectObject:   []string{"dobj", "obj"},
		PrepObject:     []string{"pobj"},
		Appositive:     []string{"appos"},
		AdpositionTags: []string{"IN", "RP", "ADP"},
	}
}

// Set is an indexed rule table.
type Set struct {
	Roles RoleLabels
	rules []Rule
	index map[setKey][]Rule
}

type setKey struct {
	category model.Category
	role     model.GrammaticalRole
}

// New builds a Set from rules, validating that the global default
// (MISC, other) entry is present so every mention has at least one rule
// attempted.
func New(roles RoleLabels, ruleList []Rule) (*Set, error) {
	s := &Set{
		Roles: roles,
		rules: ruleList,
		index: make(map[setKey][]Rule),
	}
	seen := make(map[string]bool)
	hasDefault := false
	for _, r := range ruleList {
		if r.ID == "" {
			return nil, fmt.Errorf("rule without id (category=%s role=%s)", r.Category, r.Role)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		switch r.Strategy {
		case StrategyFrontNoInvert, StrategyFrontInvertAux, StrategyReplaceInPlace:
		default:
			return nil, fmt.Errorf("rule %q: unknown strategy %q", r.ID, r.Strategy)
		}
		if r.Category == model.CategoryMisc && r.Role == model.RoleOther {
			hasDefault = true
		}
		key := setKey{r.Category, r.Role}
		s.index[key] = append(s.index[key], r)
	}
	if !hasDefault {
		return nil, fmt.Errorf("rule table has no (MISC, other) default entry")
	}
	for key := range s.index {
		matched := s.index[key]
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Priority > matched[j].Priority
		})
	}
	return s, nil
}

// Match returns the rules applicable to (category, role), highest priority
// first. When no exact entry exists, the (category, OTHER) fallback applies,
// then the global (MISC, OTHER) default.
func (s *Set) Match(category model.Category, role model.GrammaticalRole) []Rule {
	if matched := s.index[setKey{category, role}]; len(matched) > 0 {
		return matched
	}
	if role != model.RoleOther {
		if matched := s.index[setKey{category, model.RoleOther}]; len(matched) > 0 {
			return matched
		}
	}
	if category != model.CategoryMisc {
		if matched := s.index[setKey{model.CategoryMisc, model.RoleOther}]; len(matched) > 0 {
			return matched
		}
	}
	return s.index[setKey{model.CategoryMisc, model.RoleOther}]
}

// Len reports the number of rules in the table.
func (s *Set) Len() int { return len(s.rules) }

// ruleFile is the YAML layout of an external rule table.
type ruleFile struct {
	Roles *RoleLabels `yaml:"roles"`
	Rules []Rule      `yaml:"rules"`
}

// Load reads a rule table from a YAML file. A missing roles section keeps
// the default label inventory.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}
	roles := DefaultRoleLabels()
	if file.Roles != nil {
		roles = *file.Roles
	}
	set, err := New(roles, file.Rules)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return set, nil
}
