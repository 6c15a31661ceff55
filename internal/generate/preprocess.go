package generate

import (
	"github.com/ad-freiburg/question-generation/internal/model"
)

// mainClauseRels mark a comma-delimited segment as part of the main
// clause when a token carries one of these relations directly under the
// root.
var mainClauseRels = map[string]bool{
	"nsubj": true, "nsubjpass": true, "dobj": true, "iobj": true, "prep": true,
}

// removeSubclauses strips comma and semicolon delimited segments that do
// not belong to the main clause, together with their dangling dependents.
// Appositions, relative clauses and fronted adjuncts otherwise survive the
// rewrite as detached fragments. The input is left untouched; the result
// is a reindexed copy, or nil when nothing of the main clause remains.
func removeSubclauses(s *model.ParsedSentence) *model.ParsedSentence {
	root, ok := s.Root()
	if !ok {
		return s
	}
	if !hasSegmentBreak(s) {
		return s
	}

	n := len(s.Tokens)
	removed := make([]bool, n)
	seqStart := 0
	mainSeg := false
	mainBefore := false
	lastRel := ""
	lastRelBeforeComma := ""
scan:
	for i := 0; i < n; i++ {
		t := s.Tokens[i]
		switch t.Text {
		case ",":
			if mainSeg {
				// The comma travels with the next segment, so it goes
				// when that segment goes.
				seqStart = i
				lastRelBeforeComma = lastRel
			} else {
				markRange(removed, seqStart, i)
				seqStart = i + 1
			}
			mainSeg = false
		case ";":
			if mainBefore {
				markRange(removed, i, n-1)
				break scan
			}
			markRange(removed, 0, i)
			seqStart = i + 1
			mainSeg = false
		}
		if !mainSeg {
			switch {
			case t.Head == t.Index:
				mainSeg, mainBefore = true, true
			case mainClauseRels[t.Rel] && t.Head == root:
				mainSeg, mainBefore = true, true
			case t.Rel == "amod" && lastRelBeforeComma == "amod":
				// A comma-separated adjective enumeration continues the
				// segment before it.
				mainSeg, mainBefore = true, true
			}
		}
		lastRel = t.Rel
	}
	if !mainSeg {
		markRange(removed, seqStart, n-1)
	}

	// Tokens whose head chain leads into a removed segment dangle; drop
	// them so the remaining parse stays a tree.
	for changed := true; changed; {
		changed = false
		for i, t := range s.Tokens {
			if !removed[i] && t.Head != i && removed[t.Head] {
				removed[i] = true
				changed = true
			}
		}
	}

	return rebuildSentence(s, removed)
}

func hasSegmentBreak(s *model.ParsedSentence) bool {
	for _, t := range s.Tokens {
		if t.Text == "," || t.Text == ";" {
			return true
		}
	}
	return false
}

func markRange(removed []bool, from, to int) {
	for i := from; i <= to && i < len(removed); i++ {
		if i >= 0 {
			removed[i] = true
		}
	}
}

// rebuildSentence copies the surviving tokens with dense indices and
// remaps mention spans. Mentions that lost a token are dropped; malformed
// spans are carried through untouched so the per-mention check still sees
// them.
func rebuildSentence(s *model.ParsedSentence, removed []bool) *model.ParsedSentence {
	newIdx := make([]int, len(s.Tokens))
	kept := 0
	for i := range s.Tokens {
		if removed[i] {
			newIdx[i] = -1
			continue
		}
		newIdx[i] = kept
		kept++
	}
	if kept == 0 {
		return nil
	}

	out := &model.ParsedSentence{ID: s.ID}
	out.Tokens = make([]model.Token, 0, kept)
	for i, t := range s.Tokens {
		if removed[i] {
			continue
		}
		t.Index = newIdx[i]
		t.Head = newIdx[t.Head]
		out.Tokens = append(out.Tokens, t)
	}
	for _, m := range s.Mentions {
		if m.Start < 0 || m.End > len(s.Tokens) || m.Start >= m.End {
			out.Mentions = append(out.Mentions, m)
			continue
		}
		intact := true
		for j := m.Start; j < m.End; j++ {
			if removed[j] {
				intact = false
				break
			}
		}
		if !intact {
			continue
		}
		m.Start = newIdx[m.Start]
		m.End = newIdx[m.End-1] + 1
		out.Mentions = append(out.Mentions, m)
	}
	return out
}
