package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/cardcrawl"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	src, ok := deps.Sources[cardcrawl.Source(c.Source)]
	if !ok {
		err := cardcrawl.Errorf(cardcrawl.EINVALID, "unknown source %q", c.Source)
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardcrawl.ErrorMessage(err))
		return err
	}

	html, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	id := c.ID
	if id == 0 {
		stem := strings.TrimSuffix(filepath.Base(c.File), filepath.Ext(c.File))
		id, _ = strconv.Atoi(stem)
	}

	rec, err := src.ParseCard(id, string(html))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, string(rec.Data))
	return nil
}
