package generate

import (
	"slices"

	"github.com/ad-freiburg/question-generation/internal/model"
	"github.com/ad-freiburg/question-generation/internal/rules"
)

// Resolution is the outcome of resolving a mention's grammatical role.
type Resolution struct {
	Role model.GrammaticalRole
	// Head is the index of the mention's head token: the token within the
	// span whose own head lies outside it.
	Head int
	// Preposition is the index of the governing preposition for
	// prepositional-object mentions, -1 otherwise.
	Preposition int
	// LowConfidence marks mentions whose dependency chain never reached the
	// sentence root within the hop bound. They are excluded from generation.
	LowConfidence bool
}

// resolveRole determines the grammatical function of one mention by
// inspecting the dependency attachment of its head token.
func resolveRole(s *model.ParsedSentence, m model.EntityMention, labels rules.RoleLabels) Resolution {
	head := mentionHead(s, m)
	res := Resolution{Role: model.RoleOther, Head: head, Preposition: -1}

	// A chain that cannot reach the root within len(tokens) hops means the
	// parse is cyclic or detached; resolve to OTHER and flag the mention.
	if !reachesRoot(s, head) {
		res.LowConfidence = true
		return res
	}

	tok := s.Tokens[head]
	switch {
	case slices.Contains(labels.Subject, tok.Rel):
		res.Role = model.RoleSubject
	case slices.Contains(labels.DirectObject, tok.Rel):
		res.Role = model.RoleDirectObject
	case isPrepObject(s, tok, labels):
		res.Role = model.RolePrepObject
		res.Preposition = tok.Head
	case slices.Contains(labels.Appositive, tok.Rel):
		res.Role = model.RoleAppositive
	}
	return res
}

// mentionHead returns the token within the span whose head lies outside the
// span (a mention is assumed to be a single constituent), falling back to
// the span's rightmost token.
func mentionHead(s *model.ParsedSentence, m model.EntityMention) int {
	for i := m.Start; i < m.End; i++ {
		h := s.Tokens[i].Head
		if h < m.Start || h >= m.End || h == i {
			return i
		}
	}
	return m.End - 1
}

// reachesRoot walks the head chain toward the root, bounded by the sentence
// length so a malformed cyclic parse cannot loop forever.
func reachesRoot(s *model.ParsedSentence, from int) bool {
	cur := from
	for hops := 0; hops <= len(s.Tokens); hops++ {
		t := s.Tokens[cur]
		if t.Head == t.Index {
			return true
		}
		cur = t.Head
	}
	return false
}

// isPrepObject reports whether the token hangs off a preposition, either by
// relation label or by the parent's part-of-speech tag.
func isPrepObject(s *model.ParsedSentence, tok model.Token, labels rules.RoleLabels) bool {
	if tok.Head == tok.Index {
		return false
	}
	parent := s.Tokens[tok.Head]
	if slices.Contains(labels.PrepObject, tok.Rel) && slices.Contains(labels.AdpositionTags, parent.Tag) {
		return true
	}
	return slices.Contains(labels.AdpositionTags, parent.Tag) && parent.Rel == "prep"
}

// subtree collects the indices of head and all its dependents, in sentence
// order. Traversal is bounded by the token count; a malformed parse yields a
// truncated (never infinite) subtree.
func subtree(s *model.ParsedSentence, head int) []int {
	children := make(map[int][]int, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.Head != t.Index {
			children[t.Head] = append(children[t.Head], t.Index)
		}
	}
	var out []int
	stack := []int{head}
	seen := make(map[int]bool)
	for len(stack) > 0 && len(out) <= len(s.Tokens) {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		stack = append(stack, children[cur]...)
	}
	slices.Sort(out)
	return out
}
