package worker

import (
	"context"
	"sort"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// SentenceGenerator produces question candidates for one sentence.
type SentenceGenerator interface {
	Generate(s *model.ParsedSentence) ([]model.QuestionCandidate, model.SentenceStats, error)
}

// SentenceJob generates questions for one sentence. Seq is the sentence's
// position in the input stream.
type SentenceJob struct {
	Seq       int
	Sentence  *model.ParsedSentence
	Generator SentenceGenerator
}

// Execute runs generation. Generation itself is CPU-bound and ignores the
// pool context; cancellation takes effect between jobs.
func (j *SentenceJob) Execute(_ context.Context) Result {
	candidates, stats, err := j.Generator.Generate(j.Sentence)
	return &SentenceResult{
		Seq:        j.Seq,
		Candidates: candidates,
		Stats:      stats,
		Error:      err,
	}
}

// SentenceResult is the outcome of one sentence job.
type SentenceResult struct {
	Seq        int
	Candidates []model.QuestionCandidate
	Stats      model.SentenceStats
	Error      error
}

func (r *SentenceResult) GetError() error {
	return r.Error
}

// BatchGenerator fans a batch of sentences out over a pool and returns the
// results re-ordered by input position, so concurrent runs emit exactly
// what a sequential run would.
type BatchGenerator struct {
	generator   SentenceGenerator
	concurrency int
}

func NewBatchGenerator(generator SentenceGenerator, concurrency int) *BatchGenerator {
	return &BatchGenerator{
		generator:   generator,
		concurrency: concurrency,
	}
}

// Process generates questions for all sentences and returns one result per
// sentence, in input order.
func (b *BatchGenerator) Process(ctx context.Context, sentences []*model.ParsedSentence) []*SentenceResult {
	if len(sentences) == 0 {
		return []*SentenceResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// The pool's channels are bounded, so submission must overlap with
	// gathering or a large batch deadlocks both sides.
	go func() {
		for i, s := range sentences {
			if ctx.Err() != nil {
				break
			}
			pool.Submit(&SentenceJob{Seq: i, Sentence: s, Generator: b.generator})
		}
		pool.Close()
	}()

	results := pool.Gather()

	sentenceResults := make([]*SentenceResult, 0, len(results))
	for _, result := range results {
		sentenceResults = append(sentenceResults, result.(*SentenceResult))
	}
	sort.Slice(sentenceResults, func(i, j int) bool {
		return sentenceResults[i].Seq < sentenceResults[j].Seq
	})

	return sentenceResults
}
