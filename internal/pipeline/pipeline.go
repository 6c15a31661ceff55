// Package pipeline orchestrates the generation run: parse annotated
// sentences, generate question candidates concurrently, emit them in input
// order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ad-freiburg/question-generation/internal/emit"
	"github.com/ad-freiburg/question-generation/internal/generate"
	"github.com/ad-freiburg/question-generation/internal/model"
	"github.com/ad-freiburg/question-generation/internal/parse"
	"github.com/ad-freiburg/question-generation/internal/rules"
	"github.com/ad-freiburg/question-generation/internal/worker"
)

// batchSize is how many sentences are in flight at once. Sentences are
// small; the batch bounds memory while keeping the workers busy.
const batchSize = 512

// Pipeline runs the complete generation process.
type Pipeline struct {
	generator *generate.Generator
	config    *model.Config

	// Progress receives per-sentence diagnostics when non-nil. The engine
	// itself stays silent.
	Progress io.Writer
}

// NewPipeline builds a pipeline from configuration, loading the rule table
// from cfg.Rules.Path or falling back to the built-in defaults.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	var set *rules.Set
	if cfg.Rules.Path != "" {
		var err error
		set, err = rules.Load(cfg.Rules.Path)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	} else {
		set = rules.Default()
	}

	return &Pipeline{
		generator: generate.New(set),
		config:    cfg,
	}, nil
}

// RunStats summarizes one generation run.
type RunStats struct {
	Sentences  int
	Rejected   int // sentences that violated the input contract
	Candidates int
	Skips      map[model.SkipReason]int
}

// Generate reads annotated sentences from r and streams question
// candidates to w. Sentences with contract violations (dangling heads,
// malformed rows) are rejected individually and counted; the run continues.
func (p *Pipeline) Generate(ctx context.Context, r io.Reader, w io.Writer) (RunStats, error) {
	stats := RunStats{Skips: make(map[model.SkipReason]int)}

	reader := parse.NewReader(r, p.config.Input.Linked)
	writer := emit.NewWriter(w)
	batcher := worker.NewBatchGenerator(p.generator, p.config.Concurrency.Workers)

	for {
		batch, err := p.readBatch(reader, &stats)
		if err != nil {
			return stats, err
		}
		if len(batch) == 0 {
			break
		}

		for _, res := range batcher.Process(ctx, batch) {
			if res.Error != nil {
				stats.Rejected++
				p.progressf("reject %s: %v\n", batch[res.Seq].ID, res.Error)
				continue
			}
			for _, reason := range res.Stats.Skips {
				stats.Skips[reason]++
			}
			if err := writer.WriteAll(res.Candidates); err != nil {
				return stats, err
			}
			stats.Candidates += len(res.Candidates)
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}

	if err := writer.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// readBatch pulls up to batchSize sentences, rejecting malformed ones
// individually.
func (p *Pipeline) readBatch(reader *parse.Reader, stats *RunStats) ([]*model.ParsedSentence, error) {
	batch := make([]*model.ParsedSentence, 0, batchSize)
	for len(batch) < batchSize {
		sent, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Sentences++
			stats.Rejected++
			p.progressf("reject: %v\n", err)
			continue
		}
		stats.Sentences++
		batch = append(batch, sent)
	}
	return batch, nil
}

func (p *Pipeline) progressf(format string, args ...any) {
	if p.Progress != nil {
		fmt.Fprintf(p.Progress, format, args...)
	}
}
