package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ad-freiburg/question-generation/internal/cache"
	"github.com/ad-freiburg/question-generation/internal/filter"
	"github.com/ad-freiburg/question-generation/internal/kb"
)

var (
	filterInput     string
	filterAccepted  string
	filterExcluded  string
	filterTag       string
	filterMaxTokens int
	filterLinked    bool
	filterKBCheck   bool
)

// filterCmd represents the filter command
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter generated questions",
	Long: `Filter partitions question records into accepted and excluded sets.
Excluded records carry the exclusion reason as an extra column.

Questions accepted in earlier runs under the same tag are treated as
duplicates: the per-tag exclusion list is loaded before the run and
rewritten afterwards.

With --kb-check and a configured endpoint, questions whose entities
have no connection in the knowledge base are excluded as well.

Example:
  qgen filter -i questions.tsv -a accepted.tsv -x excluded.tsv
  qgen filter -i questions.tsv -a accepted.tsv --tag wikipedia
  qgen filter -i questions.tsv -a accepted.tsv --linked --kb-check`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVarP(&filterInput, "input", "i", "", "input file (default: stdin)")
	filterCmd.Flags().StringVarP(&filterAccepted, "accepted", "a", "", "accepted output file (default: stdout)")
	filterCmd.Flags().StringVarP(&filterExcluded, "excluded", "x", "", "excluded output file with reasons (default: discard)")
	filterCmd.Flags().StringVar(&filterTag, "tag", "", "output tag keying the exclusion list")
	filterCmd.Flags().IntVar(&filterMaxTokens, "max-tokens", 0, "token budget per question")
	filterCmd.Flags().BoolVar(&filterLinked, "linked", false, "mention names carry knowledge-base ids as <id>:<label>")
	filterCmd.Flags().BoolVar(&filterKBCheck, "kb-check", false, "exclude questions without a knowledge-base connection")
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if filterTag != "" {
		cfg.Filter.Tag = filterTag
	}
	if filterMaxTokens > 0 {
		cfg.Filter.MaxTokens = filterMaxTokens
	}
	if filterLinked {
		cfg.Input.Linked = true
	}

	in := os.Stdin
	if filterInput != "" {
		f, err := os.Open(filterInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	accepted := os.Stdout
	if filterAccepted != "" {
		f, err := os.Create(filterAccepted)
		if err != nil {
			return fmt.Errorf("create accepted output: %w", err)
		}
		defer f.Close()
		accepted = f
	}

	var excluded *os.File
	if filterExcluded != "" {
		f, err := os.Create(filterExcluded)
		if err != nil {
			return fmt.Errorf("create excluded output: %w", err)
		}
		defer f.Close()
		excluded = f
	} else {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("open %s: %w", os.DevNull, err)
		}
		defer f.Close()
		excluded = f
	}

	seen, err := filter.LoadExclusions(cfg.Filter.ExclusionDir, cfg.Filter.Tag)
	if err != nil {
		return err
	}

	opts := []filter.Option{filter.WithSeen(seen)}
	if cfg.Input.Linked {
		opts = append(opts, filter.WithLinkedEntities())
	}
	if filterKBCheck {
		if cfg.KB.Endpoint == "" {
			return fmt.Errorf("--kb-check requires a configured kb.endpoint")
		}
		store := cache.NewLayeredCache(0, cfg.KB.CacheDir, 0)
		client := kb.NewClient(cfg.KB.Endpoint, cfg.KB.Timeout, cfg.KB.RequestsPerSecond, cfg.KB.Burst, store)
		opts = append(opts, filter.WithConnectionCheck(kb.NewChecker(client)))
	}

	f := filter.New(cfg.Filter.MaxTokens, opts...)

	if verbose {
		fmt.Fprintf(os.Stderr, "Filtering questions (tag %q, %d known questions)\n", cfg.Filter.Tag, len(seen))
	}

	res, err := f.Run(context.Background(), in, accepted, excluded)
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}

	if err := filter.SaveExclusions(cfg.Filter.ExclusionDir, cfg.Filter.Tag, f.Seen()); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Processed %d questions\n", res.Total)
		fmt.Fprintf(os.Stderr, "✓ Accepted %d, excluded %d\n", res.Accepted, res.Total-res.Accepted)
		for reason, n := range res.Excluded {
			fmt.Fprintf(os.Stderr, "  %s: %d\n", reason, n)
		}
	}
	return nil
}
