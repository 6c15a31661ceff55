// Package emit writes question candidates as tab-separated records, one
// candidate per line, in the order they were generated.
package emit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// Writer streams candidates to an underlying writer. Call Flush when done.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits one candidate as sentenceID, question, answer, ruleID
// separated by tabs. Embedded tabs and newlines in fields would corrupt
// the record stream, so they are collapsed to spaces.
func (e *Writer) Write(c model.QuestionCandidate) error {
	_, err := fmt.Fprintf(e.w, "%s\t%s\t%s\t%s\n",
		sanitize(c.SentenceID), sanitize(c.Question), sanitize(c.Answer), sanitize(c.RuleID))
	if err != nil {
		return fmt.Errorf("write candidate: %w", err)
	}
	return nil
}

// WriteAll emits candidates in slice order.
func (e *Writer) WriteAll(cs []model.QuestionCandidate) error {
	for _, c := range cs {
		if err := e.Write(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Writer) Flush() error {
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

var fieldSanitizer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func sanitize(s string) string {
	return fieldSanitizer.Replace(s)
}
