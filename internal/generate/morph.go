package generate

import (
	"strings"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// irregularBase covers the verbs frequent enough in encyclopedic text to
// matter when the parser supplies no lemma column.
var irregularBase = map[string]string{
	"is": "be", "are": "be", "am": "be", "was": "be", "were": "be",
	"been": "be", "being": "be",
	"has": "have", "had": "have",
	"does": "do", "did": "do",
	"went": "go", "goes": "go",
	"said": "say", "says": "say",
	"made": "make", "took": "take", "came": "come", "became": "become",
	"got": "get", "gave": "give", "held": "hold", "led": "lead",
	"won": "win", "lost": "lose", "left": "leave", "met": "meet",
	"wrote": "write", "built": "build", "sold": "sell", "bought": "buy",
	"began": "begin", "grew": "grow", "knew": "know", "saw": "see",
	"ran": "run", "sat": "sit", "set": "set", "put": "put",
	"fought": "fight", "brought": "bring", "taught": "teach",
	"thought": "think", "spent": "spend", "sent": "send",
	"died": "die", "lay": "lie",
}

// baseForm returns the verb's base (infinitive) form. The lemma column is
// authoritative when present; otherwise the surface form is stripped by
// tag-aware suffix rules.
func baseForm(t model.Token) string {
	if t.Lemma != "" && t.Lemma != "_" {
		return strings.ToLower(t.Lemma)
	}
	w := strings.ToLower(t.Text)
	if base, ok := irregularBase[w]; ok {
		return base
	}
	switch t.Tag {
	case "VBZ":
		return stripThirdPerson(w)
	case "VBD", "VBN":
		return stripPast(w)
	}
	return w
}

func stripThirdPerson(w string) string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "zes"), strings.HasSuffix(w, "oes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

func stripPast(w string) string {
	switch {
	case strings.HasSuffix(w, "ied") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "ed") && len(w) > 3:
		stem := w[:len(w)-2]
		// Doubled final consonant: "planned" gives "plan".
		n := len(stem)
		if n >= 3 && stem[n-1] == stem[n-2] && !isVowel(stem[n-1]) && stem[n-1] != 'l' && stem[n-1] != 's' {
			return stem[:n-1]
		}
		// "e"-final stems: "lived" gives "live", "created" gives "create".
		if strings.HasSuffix(w, "ated") || strings.HasSuffix(w, "ized") ||
			strings.HasSuffix(w, "ised") || strings.HasSuffix(w, "uted") ||
			strings.HasSuffix(w, "ived") || strings.HasSuffix(w, "osed") ||
			strings.HasSuffix(w, "ared") || strings.HasSuffix(w, "ured") {
			return stem + "e"
		}
		return stem
	}
	return w
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
