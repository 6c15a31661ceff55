package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ad-freiburg/question-generation/internal/pipeline"
)

var (
	genInput   string
	genOutput  string
	genRules   string
	genLinked  bool
	genWorkers int
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions from annotated sentences",
	Long: `Generate reads dependency-parsed, entity-annotated sentences and
writes one tab-separated question record per candidate:

  sentence-id <TAB> question <TAB> answer <TAB> rule-id

Input is the CoNLL-style entity format: one token per line with
index, word, [lemma,] tag, head, relation and entity columns, blank
line between sentences. Sentences that violate the format are
rejected individually; the run continues.

Example:
  qgen generate -i sentences.tsv -o questions.tsv
  cat sentences.tsv | qgen generate > questions.tsv
  qgen generate -i sentences.tsv --rules my_rules.yaml --linked`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "input file (default: stdin)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file (default: stdout)")
	generateCmd.Flags().StringVar(&genRules, "rules", "", "YAML rule file (default: built-in rules)")
	generateCmd.Flags().BoolVar(&genLinked, "linked", false, "mention names carry knowledge-base ids as <id>:<label>")
	generateCmd.Flags().IntVar(&genWorkers, "workers", 0, "worker count (default: number of CPUs)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if genRules != "" {
		cfg.Rules.Path = genRules
	}
	if genLinked {
		cfg.Input.Linked = true
	}
	if genWorkers > 0 {
		cfg.Concurrency.Workers = genWorkers
	}

	in := os.Stdin
	if genInput != "" {
		f, err := os.Open(genInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if genOutput != "" {
		f, err := os.Create(genOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	if verbose {
		p.Progress = os.Stderr
	}

	stats, err := p.Generate(context.Background(), in, out)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Read %d sentences (%d rejected)\n", stats.Sentences, stats.Rejected)
		fmt.Fprintf(os.Stderr, "✓ Generated %d question candidates\n", stats.Candidates)
		for reason, n := range stats.Skips {
			fmt.Fprintf(os.Stderr, "  skip %s: %d\n", reason, n)
		}
	}
	return nil
}
