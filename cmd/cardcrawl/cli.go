package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/cardcrawl"
	"github.com/fwojciec/cardcrawl/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Sources map[cardcrawl.Source]cardcrawl.CardSource
	Store   cardcrawl.CardStore
	Runs    cardcrawl.RunService
	Fetcher cardcrawl.Fetcher
	Limiter cardcrawl.DomainLimiter
	Lister  cardcrawl.CardLister

	// RetryDelays overrides the crawl backoff when non-nil.
	RetryDelays []time.Duration
}

// crawler assembles a Crawler for src from the shared dependencies.
func (d *Dependencies) crawler(src cardcrawl.CardSource, concurrency int, exporter cardcrawl.CardExporter) *crawl.Crawler {
	return &crawl.Crawler{
		Source:      src,
		Fetcher:     d.Fetcher,
		Store:       d.Store,
		Exporter:    exporter,
		Limiter:     d.Limiter,
		Concurrency: concurrency,
		RetryDelays: d.RetryDelays,
		Logger:      d.Logger,
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string        `name:"db" env:"CARDCRAWL_DB" type:"path" help:"SQLite database path (default ~/.cardcrawl/cardcrawl.db)"`
	Verbose bool          `short:"v" help:"Log every fetch, parse and store write"`
	Timeout time.Duration `default:"10s" help:"Per-page fetch timeout"`
	Rate    float64       `default:"${rate}" help:"Requests per second per host"`
	Burst   int           `default:"1" help:"Requests allowed back to back per host"`

	Ptcg     PtcgCmd     `cmd:"" help:"Crawl pokemon-card.com (the whole listing, or one card by ID)"`
	Gatherer GathererCmd `cmd:"" help:"Crawl Gatherer multiverse IDs up to MAXID"`
	Parse    ParseCmd    `cmd:"" help:"Parse a saved card page and print the record"`
	Show     ShowCmd     `cmd:"" help:"Print the cached entry for a card"`
	Runs     RunsCmd     `cmd:"" help:"List recorded crawl runs"`
}

// PtcgCmd is the "ptcg" subcommand.
type PtcgCmd struct {
	ID              int    `arg:"" optional:"" help:"Crawl only this card ID"`
	Concurrency     int    `short:"c" default:"5" help:"Concurrent fetch limit"`
	Export          string `env:"CARDCRAWL_EXPORT" type:"path" help:"Write each card as JSON under this directory"`
	IgnoreUnexpired bool   `help:"Refetch cards that are exported or still cached"`
	MaxPages        int    `help:"Stop after this many listing pages"`
	Browser         bool   `help:"Fetch card pages with headless Chrome"`
}

// GathererCmd is the "gatherer" subcommand.
type GathererCmd struct {
	MaxID           int  `arg:"" name:"maxid" help:"Highest multiverse ID to crawl"`
	Start           int  `default:"1" help:"Lowest multiverse ID to crawl"`
	Concurrency     int  `short:"c" default:"5" help:"Concurrent fetch limit"`
	IgnoreUnexpired bool `help:"Refetch IDs whose cached entry has not expired"`
	Browser         bool `help:"Fetch card pages with headless Chrome"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File   string `arg:"" type:"existingfile" help:"Saved HTML page"`
	Source string `required:"" enum:"ptcg,gatherer" help:"Site the page came from (ptcg or gatherer)"`
	ID     int    `help:"Card ID (defaults to the file name when it is numeric)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Source string `arg:"" enum:"ptcg,gatherer" help:"Site (ptcg or gatherer)"`
	ID     int    `arg:"" help:"Card ID"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Source string `help:"Only runs for this site"`
	Limit  int    `short:"n" default:"20" help:"Maximum runs to list"`
}
