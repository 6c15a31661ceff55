package filter

import (
	"fmt"
	"strings"
)

// Record is one generated question line. The sentence id and rule id are
// optional: older pipelines emitted bare question/answer pairs.
type Record struct {
	SentenceID string
	Question   string
	Answer     string
	RuleID     string
}

// ParseRecord reads a tab-separated question record with 2 to 4 columns:
// "question answer", "id question answer" or "id question answer rule".
func ParseRecord(line string) (Record, error) {
	cells := strings.Split(line, "\t")
	switch len(cells) {
	case 2:
		return Record{Question: cells[0], Answer: cells[1]}, nil
	case 3:
		return Record{SentenceID: cells[0], Question: cells[1], Answer: cells[2]}, nil
	case 4:
		return Record{SentenceID: cells[0], Question: cells[1], Answer: cells[2], RuleID: cells[3]}, nil
	default:
		return Record{}, fmt.Errorf("question record has %d columns, want 2 to 4", len(cells))
	}
}

// String renders the record back to its tab-separated form, keeping only
// the columns that are set.
func (r Record) String() string {
	cells := make([]string, 0, 4)
	if r.SentenceID != "" {
		cells = append(cells, r.SentenceID)
	}
	cells = append(cells, r.Question, r.Answer)
	if r.RuleID != "" {
		cells = append(cells, r.RuleID)
	}
	return strings.Join(cells, "\t")
}
