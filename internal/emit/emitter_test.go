package emit

import (
	"strings"
	"testing"

	"github.com/ad-freiburg/question-generation/internal/model"
)

func TestWriter(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf)

	cands := []model.QuestionCandidate{
		{SentenceID: "doc1-3", Question: "Who sleeps?", Answer: "Alice", RuleID: "person-subj-who"},
		{SentenceID: "doc1-4", Question: "Where did John visit?", Answer: "Paris", RuleID: "location-dobj-where"},
	}
	if err := w.WriteAll(cands); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "doc1-3\tWho sleeps?\tAlice\tperson-subj-who\n" +
		"doc1-4\tWhere did John visit?\tParis\tlocation-dobj-where\n"
	if buf.String() != want {
		t.Errorf("output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriterSanitizesFields(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf)

	c := model.QuestionCandidate{
		SentenceID: "doc\t1",
		Question:   "Who\nsleeps?",
		Answer:     "Al\rice",
		RuleID:     "r",
	}
	if err := w.Write(c); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got := buf.String()
	if want := "doc 1\tWho sleeps?\tAl ice\tr\n"; got != want {
		t.Errorf("output %q, want %q", got, want)
	}
	if strings.Count(got, "\t") != 3 {
		t.Errorf("record has %d tabs, want 3", strings.Count(got, "\t"))
	}
}
