package generate

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/ad-freiburg/question-generation/internal/model"
	"github.com/ad-freiburg/question-generation/internal/rules"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	return New(rules.Default())
}

// tok builds a token; head is the 0-based head index, with the root
// pointing to itself.
func tok(i int, text, tag, rel string, head int) model.Token {
	return model.Token{Index: i, Text: text, Tag: tag, Rel: rel, Head: head}
}

func mention(start, end int, cat model.Category, name string) model.EntityMention {
	return model.EntityMention{Start: start, End: end, Category: cat, Name: name, Original: name}
}

func questions(cands []model.QuestionCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Question
	}
	return out
}

func TestGenerate_SubjectQuestion(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "1",
		Tokens: []model.Token{
			tok(0, "Alice", "NNP", "nsubj", 1),
			tok(1, "sleeps", "VBZ", "root", 1),
			tok(2, ".", ".", "punct", 1),
		},
		Mentions: []model.EntityMention{mention(0, 1, model.CategoryPerson, "Alice")},
	}

	cands, stats, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %v", len(cands), questions(cands))
	}
	c := cands[0]
	if c.Question != "Who sleeps?" {
		t.Errorf("question = %q, want %q", c.Question, "Who sleeps?")
	}
	if c.Answer != "Alice" {
		t.Errorf("answer = %q, want Alice", c.Answer)
	}
	if c.RuleID != "person-subj-who" {
		t.Errorf("rule = %q", c.RuleID)
	}
	if stats.Candidates != 1 {
		t.Errorf("stats.Candidates = %d", stats.Candidates)
	}
}

func visitSentence() *model.ParsedSentence {
	return &model.ParsedSentence{
		ID: "2",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 1),
			tok(1, "visited", "VBD", "root", 1),
			tok(2, "Paris", "NNP", "dobj", 1),
			tok(3, ".", ".", "punct", 1),
		},
		Mentions: []model.EntityMention{mention(2, 3, model.CategoryLocation, "Paris")},
	}
}

func TestGenerate_ObjectQuestionDoSupport(t *testing.T) {
	cands, _, err := newGenerator(t).Generate(visitSentence())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := questions(cands)
	if !slices.Contains(got, "Where did John visit?") {
		t.Errorf("missing do-support question, got %v", got)
	}
	for _, c := range cands {
		if c.Answer != "Paris" {
			t.Errorf("answer = %q, want Paris", c.Answer)
		}
	}
}

func TestGenerate_DoSupportTense(t *testing.T) {
	tests := []struct {
		verb string
		tag  string
		want string
	}{
		{"visits", "VBZ", "Where does John visit?"},
		{"visit", "VBP", "Where do John visit?"},
		{"visited", "VBD", "Where did John visit?"},
	}
	for _, tt := range tests {
		s := visitSentence()
		s.Tokens[1] = tok(1, tt.verb, tt.tag, "root", 1)
		cands, _, err := newGenerator(t).Generate(s)
		if err != nil {
			t.Fatalf("Generate(%s): %v", tt.verb, err)
		}
		if got := questions(cands); !slices.Contains(got, tt.want) {
			t.Errorf("%s: got %v, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestGenerate_AuxiliaryInversion(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "3",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 2),
			tok(1, "has", "VBZ", "aux", 2),
			tok(2, "visited", "VBN", "root", 2),
			tok(3, "Paris", "NNP", "dobj", 2),
			tok(4, ".", ".", "punct", 2),
		},
		Mentions: []model.EntityMention{mention(3, 4, model.CategoryLocation, "Paris")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := questions(cands); !slices.Contains(got, "Where has John visited?") {
		t.Errorf("got %v, want auxiliary inversion", got)
	}
}

func TestGenerate_CopulaFrontsItself(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "4",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 1),
			tok(1, "was", "VBD", "root", 1),
			tok(2, "in", "IN", "prep", 1),
			tok(3, "Paris", "NNP", "pobj", 2),
			tok(4, ".", ".", "punct", 1),
		},
		Mentions: []model.EntityMention{mention(3, 4, model.CategoryLocation, "Paris")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// location-pobj-where drops the governing preposition.
	if got := questions(cands); !slices.Contains(got, "Where was John?") {
		t.Errorf("got %v, want %q", got, "Where was John?")
	}
}

func TestGenerate_WhenPrepositionRestriction(t *testing.T) {
	build := func(prep string) *model.ParsedSentence {
		return &model.ParsedSentence{
			ID: "5",
			Tokens: []model.Token{
				tok(0, "John", "NNP", "nsubj", 1),
				tok(1, "reigned", "VBD", "root", 1),
				tok(2, prep, "IN", "prep", 1),
				tok(3, "1867", "CD", "pobj", 2),
				tok(4, ".", ".", "punct", 1),
			},
			Mentions: []model.EntityMention{mention(3, 4, model.CategoryDate, "1867")},
		}
	}

	cands, _, err := newGenerator(t).Generate(build("in"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := questions(cands); !slices.Contains(got, "When did John reign?") {
		t.Errorf("allowed preposition: got %v", got)
	}

	// "during" is not an allowed When-governor; the rule does not fire,
	// and a rule that simply does not apply is not a skip.
	cands, stats, err := newGenerator(t).Generate(build("during"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("disallowed preposition still produced %v", questions(cands))
	}
	if len(stats.Skips) != 0 {
		t.Errorf("skips = %v, want none", stats.Skips)
	}
}

func TestGenerate_TwoMentionsIndependent(t *testing.T) {
	s := visitSentence()
	s.Mentions = []model.EntityMention{
		mention(0, 1, model.CategoryPerson, "John"),
		mention(2, 3, model.CategoryLocation, "Paris"),
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := questions(cands)
	if !slices.Contains(got, "Who visited Paris?") {
		t.Errorf("missing subject question, got %v", got)
	}
	if !slices.Contains(got, "Where did John visit?") {
		t.Errorf("missing object question, got %v", got)
	}
	// Candidates arrive in mention order.
	if len(cands) > 1 && cands[0].Answer != "John" {
		t.Errorf("first candidate answers %q, want John", cands[0].Answer)
	}
}

func TestGenerate_ReplaceInPlace(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "6",
		Tokens: []model.Token{
			tok(0, "The", "DT", "det", 2),
			tok(1, "Einstein", "NNP", "compound", 2),
			tok(2, "Prize", "NNP", "nsubj", 3),
			tok(3, "honors", "VBZ", "root", 3),
			tok(4, "physicists", "NNS", "dobj", 3),
			tok(5, ".", ".", "punct", 3),
		},
		Mentions: []model.EntityMention{mention(1, 2, model.CategoryMisc, "Einstein")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := questions(cands); !slices.Contains(got, "The what Prize honors physicists?") {
		t.Errorf("got %v, want in-situ substitution", got)
	}
}

func TestGenerate_AppositionRemoved(t *testing.T) {
	// The apposition sits in its own comma segment and is removed before
	// any rule could turn it into a fragment question.
	s := &model.ParsedSentence{
		ID: "7",
		Tokens: []model.Token{
			tok(0, "Einstein", "NNP", "nsubj", 5),
			tok(1, ",", ",", "punct", 0),
			tok(2, "a", "DT", "det", 3),
			tok(3, "physicist", "NN", "appos", 0),
			tok(4, ",", ",", "punct", 0),
			tok(5, "slept", "VBD", "root", 5),
		},
		Mentions: []model.EntityMention{mention(3, 4, model.CategoryMisc, "physicist")},
	}

	cands, stats, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("apposition survived as %v", questions(cands))
	}
	if len(stats.Skips) != 0 {
		t.Errorf("skips = %v, want none", stats.Skips)
	}
}

func TestGenerate_RelativeClauseDropped(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "8",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 1),
			tok(1, "visited", "VBD", "root", 1),
			tok(2, "Paris", "NNP", "dobj", 1),
			tok(3, ",", ",", "punct", 1),
			tok(4, "which", "WDT", "dobj", 6),
			tok(5, "he", "PRP", "nsubj", 6),
			tok(6, "loved", "VBD", "rcmod", 2),
			tok(7, ".", ".", "punct", 1),
		},
		Mentions: []model.EntityMention{mention(2, 3, model.CategoryLocation, "Paris")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := questions(cands)
	if !slices.Contains(got, "Where did John visit?") {
		t.Errorf("got %v, want %q", got, "Where did John visit?")
	}
	for _, q := range got {
		if strings.Contains(q, ",") || strings.Contains(q, "loved") {
			t.Errorf("relative clause leaked into %q", q)
		}
	}
}

func TestGenerate_AdverbKeptWithPredicate(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "9",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 2),
			tok(1, "often", "RB", "advmod", 2),
			tok(2, "visited", "VBD", "root", 2),
			tok(3, "Paris", "NNP", "dobj", 2),
			tok(4, ".", ".", "punct", 2),
		},
		Mentions: []model.EntityMention{mention(3, 4, model.CategoryLocation, "Paris")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := questions(cands); !slices.Contains(got, "Where did John often visit?") {
		t.Errorf("got %v, want the adverb ahead of the verb", got)
	}
}

func TestGenerate_DiscourseAdverbDropped(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "10",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 2),
			tok(1, "then", "RB", "advmod", 2),
			tok(2, "visited", "VBD", "root", 2),
			tok(3, "Paris", "NNP", "dobj", 2),
			tok(4, ".", ".", "punct", 2),
		},
		Mentions: []model.EntityMention{mention(3, 4, model.CategoryLocation, "Paris")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := questions(cands); !slices.Contains(got, "Where did John visit?") {
		t.Errorf("got %v, want the discourse adverb gone", got)
	}
}

func TestGenerate_NegationKept(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "11",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 3),
			tok(1, "did", "VBD", "aux", 3),
			tok(2, "not", "RB", "neg", 3),
			tok(3, "visit", "VB", "root", 3),
			tok(4, "Paris", "NNP", "dobj", 3),
			tok(5, ".", ".", "punct", 3),
		},
		Mentions: []model.EntityMention{mention(4, 5, model.CategoryLocation, "Paris")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := questions(cands); !slices.Contains(got, "Where did John not visit?") {
		t.Errorf("got %v, want negation kept", got)
	}
}

func TestGenerate_SecondTimePhraseRemoved(t *testing.T) {
	s := &model.ParsedSentence{
		ID: "12",
		Tokens: []model.Token{
			tok(0, "John", "NNP", "nsubj", 1),
			tok(1, "visited", "VBD", "root", 1),
			tok(2, "London", "NNP", "dobj", 1),
			tok(3, "in", "IN", "prep", 1),
			tok(4, "1667", "CD", "pobj", 3),
			tok(5, "after", "IN", "prep", 1),
			tok(6, "1666", "CD", "pobj", 5),
			tok(7, ".", ".", "punct", 1),
		},
		Mentions: []model.EntityMention{mention(4, 5, model.CategoryDate, "1667")},
	}

	cands, _, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %v", len(cands), questions(cands))
	}
	// "after 1666" would answer the question within the question.
	if got := cands[0].Question; got != "When did John visit London?" {
		t.Errorf("question = %q, want %q", got, "When did John visit London?")
	}
}

func TestGenerate_ZeroMentions(t *testing.T) {
	s := visitSentence()
	s.Mentions = nil

	cands, stats, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cands) != 0 || len(stats.Skips) != 0 {
		t.Errorf("zero-mention sentence produced %v, skips %v", questions(cands), stats.Skips)
	}
}

func TestGenerate_ContractViolation(t *testing.T) {
	s := visitSentence()
	s.Tokens[0].Head = 99

	if _, _, err := newGenerator(t).Generate(s); err == nil {
		t.Error("dangling head accepted")
	}
}

func TestGenerate_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		s    *model.ParsedSentence
		want model.SkipReason
	}{
		{
			name: "colon",
			s: &model.ParsedSentence{
				ID: "p1",
				Tokens: []model.Token{
					tok(0, "Cast", "NN", "nsubj", 1),
					tok(1, "lists", "VBZ", "root", 1),
					tok(2, ":", ":", "punct", 1),
				},
				Mentions: []model.EntityMention{mention(0, 1, model.CategoryMisc, "Cast")},
			},
			want: model.SkipColon,
		},
		{
			name: "non-verb root",
			s: &model.ParsedSentence{
				ID: "p2",
				Tokens: []model.Token{
					tok(0, "Weather", "NN", "nsubj", 1),
					tok(1, "nice", "JJ", "root", 1),
				},
				Mentions: []model.EntityMention{mention(0, 1, model.CategoryMisc, "Weather")},
			},
			want: model.SkipNonVerbRoot,
		},
		{
			name: "root inside mention",
			s: &model.ParsedSentence{
				ID: "p3",
				Tokens: []model.Token{
					tok(0, "They", "PRP", "nsubj", 1),
					tok(1, "Run", "VBP", "root", 1),
				},
				Mentions: []model.EntityMention{mention(1, 2, model.CategoryMisc, "Run")},
			},
			want: model.SkipEntityRoot,
		},
		{
			name: "no subject",
			s: &model.ParsedSentence{
				ID: "p4",
				Tokens: []model.Token{
					tok(0, "Run", "VB", "root", 0),
					tok(1, "Paris", "NNP", "dobj", 0),
				},
				Mentions: []model.EntityMention{mention(1, 2, model.CategoryLocation, "Paris")},
			},
			want: model.SkipNoSubject,
		},
		{
			name: "no main clause",
			s: &model.ParsedSentence{
				ID: "p6",
				Tokens: []model.Token{
					tok(0, ",", ",", "root", 0),
					tok(1, "John", "NNP", "nsubj", 0),
				},
				Mentions: []model.EntityMention{mention(1, 2, model.CategoryPerson, "John")},
			},
			want: model.SkipNoMainClause,
		},
		{
			name: "chronicle",
			s: &model.ParsedSentence{
				ID: "p5",
				Tokens: []model.Token{
					tok(0, "1871", "CD", "nsubj", 2),
					tok(1, "-", ":", "punct", 2),
					tok(2, "founded", "VBD", "root", 2),
					tok(3, "Berlin", "NNP", "dobj", 2),
				},
				Mentions: []model.EntityMention{mention(3, 4, model.CategoryLocation, "Berlin")},
			},
			want: model.SkipChronicle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands, stats, err := newGenerator(t).Generate(tt.s)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(cands) != 0 {
				t.Fatalf("produced %v", questions(cands))
			}
			if len(stats.Skips) != 1 || stats.Skips[0] != tt.want {
				t.Errorf("skips = %v, want [%s]", stats.Skips, tt.want)
			}
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	g := newGenerator(t)
	s := visitSentence()
	s.Mentions = []model.EntityMention{
		mention(0, 1, model.CategoryPerson, "John"),
		mention(2, 3, model.CategoryLocation, "Paris"),
	}

	first, _, err := g.Generate(s)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := g.Generate(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("generation not idempotent:\n%v\n%v", first, second)
	}
}

func TestGenerate_BadMentionSkipped(t *testing.T) {
	s := visitSentence()
	s.Mentions = []model.EntityMention{
		{Start: 2, End: 9, Category: model.CategoryLocation, Name: "Paris", Original: "Paris"},
		mention(0, 1, model.CategoryPerson, "John"),
	}

	cands, stats, err := newGenerator(t).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !slices.Contains(stats.Skips, model.SkipBadMention) {
		t.Errorf("skips = %v, want bad mention recorded", stats.Skips)
	}
	// The valid mention still generates.
	if got := questions(cands); !slices.Contains(got, "Who visited Paris?") {
		t.Errorf("got %v", got)
	}
}
