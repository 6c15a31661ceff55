// Package parse reads the sentence formats produced by the upstream parser:
// CoNLL-entity blocks (one token per line, blank line between sentences) and
// the [<name>|<category>|<original>] mention annotation used in raw text and
// in generated question records.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// entityCellPattern matches the entity cell of a CoNLL-entity line:
// ("name", "category", "original", address)
var entityCellPattern = regexp.MustCompile(`^\("(.*)", "(.*)", "(.*)", (-?\d+)\)$`)

// Reader streams ParsedSentences from CoNLL-entity input.
//
// Each line carries tab-separated cells: index, word, tag, head, rel, entity
// (6 cells) or index, word, lemma, tag, head, rel, entity (7 cells).
// Indices are 1-based with head 0 denoting the root; internally tokens are
// 0-based and the root points to itself.
type Reader struct {
	scanner *bufio.Scanner
	linked  bool
	lineNo  int
	seq     int
	done    bool
}

// NewReader creates a Reader over r. linked selects linked-entity mode for
// mention names of the form <id>:<label>.
func NewReader(r io.Reader, linked bool) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: sc, linked: linked}
}

// Next returns the next sentence, or io.EOF when the input is exhausted.
// A non-EOF error rejects only the current sentence; the reader stays
// usable for the following one.
func (r *Reader) Next() (*model.ParsedSentence, error) {
	if r.done {
		return nil, io.EOF
	}

	var lines []string
	for r.scanner.Scan() {
		r.lineNo++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			continue // leading blank lines
		}
		lines = append(lines, line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(lines) == 0 {
		r.done = true
		return nil, io.EOF
	}

	r.seq++
	sent, err := r.parseBlock(lines)
	if err != nil {
		return nil, fmt.Errorf("sentence %d: %w", r.seq, err)
	}
	return sent, nil
}

func (r *Reader) parseBlock(lines []string) (*model.ParsedSentence, error) {
	sent := &model.ParsedSentence{ID: strconv.Itoa(r.seq)}

	type rawMention struct {
		mention model.EntityMention
		token   int
	}
	var raw []rawMention

	for i, line := range lines {
		cells := strings.Split(line, "\t")
		var word, lemma, tag, headCell, rel, entityCell string
		switch len(cells) {
		case 6:
			word, tag, headCell, rel, entityCell = cells[1], cells[2], cells[3], cells[4], cells[5]
		case 7:
			word, lemma, tag, headCell, rel, entityCell = cells[1], cells[2], cells[3], cells[4], cells[5], cells[6]
		default:
			return nil, fmt.Errorf("line %d: %d cells", i+1, len(cells))
		}

		head, err := strconv.Atoi(headCell)
		if err != nil {
			return nil, fmt.Errorf("line %d: head %q: %w", i+1, headCell, err)
		}
		// 1-based with artificial root 0 -> 0-based, root points to itself
		if head == 0 {
			head = i
		} else {
			head--
		}

		sent.Tokens = append(sent.Tokens, model.Token{
			Index: i,
			Text:  word,
			Lemma: lemma,
			Tag:   tag,
			Rel:   rel,
			Head:  head,
		})

		if m, ok := parseEntityCell(entityCell, r.linked); ok {
			raw = append(raw, rawMention{mention: m, token: i})
		}
	}

	// Merge consecutive tokens carrying the same entity annotation into
	// one contiguous span.
	for _, rm := range raw {
		if n := len(sent.Mentions); n > 0 {
			prev := &sent.Mentions[n-1]
			if prev.End == rm.token && prev.Name == rm.mention.Name &&
				prev.Category == rm.mention.Category && prev.ExternalID == rm.mention.ExternalID {
				prev.End = rm.token + 1
				continue
			}
		}
		m := rm.mention
		m.Start = rm.token
		m.End = rm.token + 1
		sent.Mentions = append(sent.Mentions, m)
	}

	if err := sent.Validate(); err != nil {
		return nil, err
	}
	return sent, nil
}

// parseEntityCell decodes the ("name", "category", "original", address)
// entity cell. Empty, "None" and "_" cells mean no entity.
func parseEntityCell(cell string, linked bool) (model.EntityMention, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "None" || cell == "_" {
		return model.EntityMention{}, false
	}
	groups := entityCellPattern.FindStringSubmatch(cell)
	if groups == nil {
		return model.EntityMention{}, false
	}
	name, id := splitLinkedName(groups[1], linked)
	return model.EntityMention{
		Name:       name,
		ExternalID: id,
		Category:   model.NormalizeCategory(groups[2]),
		Original:   groups[3],
	}, true
}

// splitLinkedName splits "<id>:<label>" names in linked-entity mode.
func splitLinkedName(name string, linked bool) (label, id string) {
	if linked {
		if i := strings.Index(name, ":"); i > 0 {
			return name[i+1:], name[:i]
		}
	}
	return name, ""
}
