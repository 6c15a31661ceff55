package generate

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ad-freiburg/question-generation/internal/model"
	"github.com/ad-freiburg/question-generation/internal/rules"
)

// applies reports whether a rule matches the mention's syntactic context.
// Preposition-restricted rules (When-questions) only apply under the
// listed governors; everything else always applies.
func applies(s *model.ParsedSentence, res Resolution, rule rules.Rule) bool {
	if len(rule.Prepositions) == 0 {
		return true
	}
	if res.Preposition < 0 {
		return false
	}
	return slices.Contains(rule.Prepositions, strings.ToLower(s.Tokens[res.Preposition].Text))
}

// rewrite applies one rule to the sentence and returns the question text.
// ok is false when the rewrite cannot produce well-formed output; the
// candidate is then dropped silently.
func rewrite(s *model.ParsedSentence, m model.EntityMention, res Resolution, rule rules.Rule) (string, bool) {
	switch rule.Strategy {
	case rules.StrategyFrontNoInvert:
		return frontNoInvert(s, m, res, rule)
	case rules.StrategyFrontInvertAux:
		return frontInvertAux(s, m, res, rule)
	case rules.StrategyReplaceInPlace:
		return replaceInPlace(s, m, rule)
	default:
		return "", false
	}
}

// frontNoInvert handles subject questions: the wh-phrase takes over the
// subject position and the rest of the clause follows unchanged. Material
// before the subject is dropped, as is the mention's own modifier subtree.
func frontNoInvert(s *model.ParsedSentence, m model.EntityMention, res Resolution, rule rules.Rule) (string, bool) {
	exclude := excludeSet(s, m, res)

	words := []string{rule.Wh}
	for idx := m.End; idx < len(s.Tokens); idx++ {
		if exclude[idx] {
			continue
		}
		if w, next := renderAt(s, m, idx); w != "" {
			words = append(words, w)
			idx = next
		}
	}
	return finishQuestion(words)
}

// frontInvertAux handles object and prepositional-object questions: the
// wh-phrase is fronted and the first auxiliary inverted ahead of the
// subject. When the predicate has no auxiliary, a dummy do/does/did is
// inserted and the main verb reverts to its base form; a copula fronts
// itself.
func frontInvertAux(s *model.ParsedSentence, m model.EntityMention, res Resolution, rule rules.Rule) (string, bool) {
	root, ok := s.Root()
	if !ok {
		return "", false
	}

	exclude := excludeSet(s, m, res)
	if rule.DropPreposition && res.Preposition >= 0 {
		// "to" stays: "Where did Riel flee?" loses the direction otherwise.
		if strings.ToLower(s.Tokens[res.Preposition].Text) != "to" {
			exclude[res.Preposition] = true
		}
	}
	if strings.HasPrefix(rule.Wh, "When") {
		excludeTimePhrases(s, m, exclude)
	}
	if exclude[root] {
		return "", false
	}

	aux, auxpass := auxiliaries(s, root)
	rootTok := s.Tokens[root]
	rootSurface := rootTok.Text
	copula := baseForm(rootTok) == "be"

	var inverted string
	switch {
	case copula:
		inverted = rootTok.Text
	case len(aux) > 0:
		inverted = s.Tokens[aux[0]].Text
		aux = aux[1:]
	case len(auxpass) > 0:
		inverted = s.Tokens[auxpass[0]].Text
		auxpass = auxpass[1:]
	default:
		// Do-support: dummy auxiliary from the finite verb's tag, main verb
		// back to base form. A non-finite root means the parse lost the
		// finite verb; drop the candidate rather than emit garbage.
		switch rootTok.Tag {
		case "VB", "VBP":
			inverted = "do"
		case "VBZ":
			inverted = "does"
		case "VBD":
			inverted = "did"
		default:
			return "", false
		}
		rootSurface = baseForm(rootTok)
	}

	subj, ok := subjectOf(s, root, m)
	if !ok {
		return "", false
	}
	subjTree := subtree(s, subj)

	words := []string{rule.Wh, inverted}
	first := true
	skipUntil := -1
	for _, idx := range subjTree {
		if exclude[idx] || idx <= skipUntil {
			continue
		}
		w, next := renderAt(s, m, idx)
		if w == "" {
			continue
		}
		if first {
			w = lowerFirstWord(s, idx, w)
			first = false
		}
		words = append(words, w)
		skipUntil = next
	}

	emitted := make(map[int]bool, len(subjTree))
	for _, idx := range subjTree {
		emitted[idx] = true
	}

	// Remaining auxiliaries keep their relative order ahead of the verb.
	// The predicate carries its adverbs, negation and particles along,
	// except discourse adverbs that point outside the question.
	if !copula {
		for _, idx := range append(aux, auxpass...) {
			words = append(words, s.Tokens[idx].Text)
			emitted[idx] = true
		}
		for _, idx := range predicateList(s, root) {
			if exclude[idx] || emitted[idx] {
				continue
			}
			emitted[idx] = true
			w := s.Tokens[idx].Text
			if idx == root {
				w = rootSurface
			} else if discourseAdverbs[strings.ToLower(w)] {
				continue
			}
			words = append(words, w)
		}
	}

	for idx := root + 1; idx < len(s.Tokens); idx++ {
		if exclude[idx] || emitted[idx] || idx == root {
			continue
		}
		if w, next := renderAt(s, m, idx); w != "" {
			words = append(words, w)
			idx = next
		}
	}
	return finishQuestion(words)
}

// replaceInPlace substitutes the wh-phrase in situ (echo question). The
// fallback for mentions whose role could not be matched more specifically;
// precision is the filter stage's problem.
func replaceInPlace(s *model.ParsedSentence, m model.EntityMention, rule rules.Rule) (string, bool) {
	var words []string
	for idx := 0; idx < len(s.Tokens); idx++ {
		if idx == m.Start {
			wh := rule.Wh
			if len(words) > 0 {
				wh = strings.ToLower(wh)
			}
			words = append(words, wh)
			idx = m.End - 1
			continue
		}
		if w, next := renderAt(s, m, idx); w != "" {
			words = append(words, w)
			idx = next
		}
	}
	return finishQuestion(words)
}

// excludeSet marks the target mention's span and modifier subtree for
// removal from the rewritten sentence.
func excludeSet(s *model.ParsedSentence, m model.EntityMention, res Resolution) map[int]bool {
	exclude := make(map[int]bool)
	for _, idx := range subtree(s, res.Head) {
		exclude[idx] = true
	}
	for idx := m.Start; idx < m.End; idx++ {
		exclude[idx] = true
	}
	return exclude
}

// renderAt renders the token at idx. When idx starts a non-target mention,
// the whole span renders as its canonical text and next is advanced past
// it, leaving the other mention's text intact in the question.
func renderAt(s *model.ParsedSentence, target model.EntityMention, idx int) (word string, next int) {
	for _, other := range s.Mentions {
		if other.Start == idx && other != target {
			return other.CleanName(), other.End - 1
		}
	}
	return s.Tokens[idx].Text, idx
}

// yearPattern matches a four-digit year at the start of a token, so
// "1667" and "1667/68" both count.
var yearPattern = regexp.MustCompile(`^\d{4}`)

var monthNames = map[string]bool{
	"January": true, "February": true, "March": true, "April": true,
	"May": true, "June": true, "July": true, "August": true,
	"September": true, "October": true, "November": true, "December": true,
}

// timePrepositions govern a point in time rather than a duration or span.
var timePrepositions = map[string]bool{
	"in": true, "at": true, "on": true, "by": true,
	"after": true, "before": true, "from": true,
}

// excludeTimePhrases marks prepositional time phrases other than the
// answer itself for removal. A When-question that keeps a second date
// ("When did John visit London after 1666?") answers itself.
func excludeTimePhrases(s *model.ParsedSentence, m model.EntityMention, exclude map[int]bool) {
	for _, t := range s.Tokens {
		if t.Rel != "pobj" || exclude[t.Index] {
			continue
		}
		if t.Index >= m.Start && t.Index < m.End {
			continue
		}
		if !yearPattern.MatchString(t.Text) && !monthNames[t.Text] {
			continue
		}
		if t.Head == t.Index {
			continue
		}
		head := s.Tokens[t.Head]
		if head.Tag != "IN" || !timePrepositions[strings.ToLower(head.Text)] {
			continue
		}
		for _, idx := range subtree(s, head.Index) {
			exclude[idx] = true
		}
	}
}

// discourseAdverbs tie a clause to the surrounding text and read as noise
// in a standalone question.
var discourseAdverbs = map[string]bool{
	"also": true, "then": true, "however": true, "instead": true,
	"therefore": true, "otherwise": true, "immediately": true,
	"later": true, "even": true,
}

// predicateList returns the root together with its advmod, neg and prt
// dependents, in sentence order.
func predicateList(s *model.ParsedSentence, root int) []int {
	out := []int{root}
	for _, t := range s.Tokens {
		if t.Head != root || t.Index == root {
			continue
		}
		switch t.Rel {
		case "advmod", "neg", "prt":
			out = append(out, t.Index)
		}
	}
	slices.Sort(out)
	return out
}

// auxiliaries returns the root's aux and auxpass children, in sentence order.
func auxiliaries(s *model.ParsedSentence, root int) (aux, auxpass []int) {
	for _, t := range s.Tokens {
		if t.Head != root || t.Index == root {
			continue
		}
		switch t.Rel {
		case "aux":
			aux = append(aux, t.Index)
		case "auxpass":
			auxpass = append(auxpass, t.Index)
		}
	}
	return aux, auxpass
}

// subjectOf finds the subject dependent of the root, outside the target
// mention's span.
func subjectOf(s *model.ParsedSentence, root int, m model.EntityMention) (int, bool) {
	for _, t := range s.Tokens {
		if t.Head != root || t.Index == root {
			continue
		}
		switch t.Rel {
		case "nsubj", "nsubjpass", "csubj", "csubjpass":
			if t.Index >= m.Start && t.Index < m.End {
				continue
			}
			return t.Index, true
		}
	}
	return 0, false
}

// lowerFirstWord lowercases the first word after the inverted auxiliary
// unless it is a proper noun, "I", or a mention's canonical text.
func lowerFirstWord(s *model.ParsedSentence, idx int, w string) string {
	tok := s.Tokens[idx]
	if tok.Tag == "NNP" || tok.Tag == "NNPS" || w == "I" || w != tok.Text {
		return w
	}
	return strings.ToLower(w)
}

// finishQuestion trims trailing punctuation, collapses it to a single
// terminal question mark, and rejects degenerate one-word output.
func finishQuestion(words []string) (string, bool) {
	for len(words) > 0 && isPunct(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	// A question needs at least the wh-phrase and one further word.
	if len(words) < 2 {
		return "", false
	}
	return strings.Join(words, " ") + "?", true
}

func isPunct(w string) bool {
	switch w {
	case ".", "!", "?", ";", ":", ",", "-", "–", "—":
		return true
	}
	return false
}
