package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ad-freiburg/question-generation/internal/filter"
	"github.com/ad-freiburg/question-generation/internal/rate"
)

var (
	rateInput    string
	rateOutput   string
	rateProvider string
	rateModel    string
	rateLimit    int
)

// rateCmd represents the rate command
var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Rate question quality with an LLM",
	Long: `Rate annotates accepted questions with quality judgments from an LLM
provider. Each question is rated yes/borderline/no on grammar,
naturalness, context, answerability, question word and entity name
substitution in question and answer. Output is one JSON object per
line.

Rating never reorders or removes questions; it is a post-hoc
annotation for corpus analysis.

Example:
  OPENAI_API_KEY=sk-... qgen rate -i accepted.tsv -o ratings.jsonl
  qgen rate -i accepted.tsv --model gpt-4o --limit 100`,
	Args: cobra.NoArgs,
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)

	rateCmd.Flags().StringVarP(&rateInput, "input", "i", "", "input file (default: stdin)")
	rateCmd.Flags().StringVarP(&rateOutput, "output", "o", "", "output file (default: stdout)")
	rateCmd.Flags().StringVar(&rateProvider, "provider", "openai", "rating provider")
	rateCmd.Flags().StringVar(&rateModel, "model", "", "model name (default: from config)")
	rateCmd.Flags().IntVar(&rateLimit, "limit", 0, "rate at most this many questions (0 = all)")
}

func runRate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Rater.Provider = rateProvider
	if rateModel != "" {
		cfg.Rater.Model = rateModel
	}
	if cfg.Rater.APIKey == "" {
		cfg.Rater.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Rater.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	provider, err := rate.NewProvider(cfg.Rater)
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no rating provider configured")
	}

	in := os.Stdin
	if rateInput != "" {
		f, err := os.Open(rateInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if rateOutput != "" {
		f, err := os.Create(rateOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	ctx := context.Background()
	if verbose && !provider.IsAvailable(ctx) {
		fmt.Fprintf(os.Stderr, "Warning: provider %s not reachable, continuing anyway\n", provider.Name())
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	rated := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := filter.ParseRecord(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping malformed record: %v\n", err)
			continue
		}

		rating, err := provider.Rate(ctx, rec)
		if err != nil {
			return fmt.Errorf("rate question %q: %w", rec.Question, err)
		}
		if err := enc.Encode(rating); err != nil {
			return fmt.Errorf("write rating: %w", err)
		}

		rated++
		if verbose && rated%50 == 0 {
			fmt.Fprintf(os.Stderr, "Rated %d questions\n", rated)
		}
		if rateLimit > 0 && rated >= rateLimit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read questions: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Rated %d questions with %s\n", rated, provider.Name())
	}
	return nil
}
