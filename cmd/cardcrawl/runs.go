package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/cardcrawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := cardcrawl.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		source := cardcrawl.Source(c.Source)
		if err := source.Validate(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", cardcrawl.ErrorMessage(err))
			return err
		}
		filter.Source = &source
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardcrawl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'cardcrawl ptcg' or 'cardcrawl gatherer' to start one.")
		return nil
	}

	for _, r := range runs {
		finished := "running"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %-8s  %s  %-8s  %d saved, %d empty, %d failed, %d skipped\n",
			r.ID, r.Source, r.StartedAt.Local().Format(time.DateTime), finished,
			r.Saved, r.Empty, r.Failed, r.Skipped)
	}

	return nil
}
