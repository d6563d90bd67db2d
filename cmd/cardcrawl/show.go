package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/cardcrawl"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	entry, err := deps.Store.FindEntry(deps.Ctx, cardcrawl.Source(c.Source), c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardcrawl.ErrorMessage(err))
		return err
	}

	if entry.Data == nil {
		fmt.Fprintf(deps.Stdout, "No card at %s %d (checked %s, expires %s)\n",
			entry.Source, entry.SourceID, entry.CreatedAt.Format(time.DateOnly), entry.ExpiresAt.Format(time.DateOnly))
		return nil
	}

	fmt.Fprintln(deps.Stdout, string(entry.Data))
	return nil
}
