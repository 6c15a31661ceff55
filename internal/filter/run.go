package filter

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Result summarizes one filter run.
type Result struct {
	Total    int
	Accepted int
	Excluded map[Reason]int
}

// Run streams question records from r, writes accepted records to accepted
// and excluded records with their reason to excluded. Malformed records are
// excluded rather than aborting the run; only I/O and knowledge-base
// failures stop it.
func (f *Filter) Run(ctx context.Context, r io.Reader, accepted, excluded io.Writer) (Result, error) {
	res := Result{Excluded: make(map[Reason]int)}
	aw := bufio.NewWriter(accepted)
	ew := bufio.NewWriter(excluded)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		res.Total++

		rec, err := ParseRecord(line)
		if err != nil {
			res.Excluded[ReasonMalformed]++
			fmt.Fprintf(ew, "%s\t%s\n", line, ReasonMalformed)
			continue
		}
		reason, ok, err := f.Apply(ctx, rec)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Excluded[reason]++
			fmt.Fprintf(ew, "%s\t%s\n", line, reason)
			continue
		}
		res.Accepted++
		fmt.Fprintln(aw, rec.String())
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read questions: %w", err)
	}
	if err := aw.Flush(); err != nil {
		return res, fmt.Errorf("write accepted questions: %w", err)
	}
	if err := ew.Flush(); err != nil {
		return res, fmt.Errorf("write excluded questions: %w", err)
	}
	return res, nil
}
