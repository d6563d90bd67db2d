// Command cardcrawl crawls trading-card websites into normalized card records.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/cardcrawl"
	"github.com/fwojciec/cardcrawl/crawl"
	"github.com/fwojciec/cardcrawl/goquery"
	cchttp "github.com/fwojciec/cardcrawl/http"
	"github.com/fwojciec/cardcrawl/nextjs"
	"github.com/fwojciec/cardcrawl/rod"
	ccslog "github.com/fwojciec/cardcrawl/slog"
	"github.com/fwojciec/cardcrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cardcrawl"),
		kong.Description("Crawl trading-card websites into normalized card records"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"rate": strconv.FormatFloat(crawl.DefaultRequestsPerSecond, 'g', -1, 64)},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'cardcrawl --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Sources = newSources(deps.Logger, cli.Verbose)

	// Offline parsing needs neither the database nor the network.
	if cmd == "parse" {
		return kongCtx.Run(deps)
	}

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CARDCRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.Store = sqlite.NewCardStore(m.DB)
	if cli.Verbose {
		deps.Store = ccslog.NewLoggingCardStore(deps.Store, deps.Logger)
	}
	deps.Runs = sqlite.NewRunService(m.DB)

	if cmd == "ptcg" || cmd == "gatherer" {
		browser := cli.Ptcg.Browser
		if cmd == "gatherer" {
			browser = cli.Gatherer.Browser
		}

		fetcher, err := newFetcher(browser, cli)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()
		if cli.Verbose {
			fetcher = ccslog.NewLoggingFetcher(fetcher, deps.Logger)
		}

		deps.Fetcher = fetcher
		deps.Limiter = crawl.NewDomainLimiter(cli.Rate, cli.Burst)
		// The listing API is plain JSON, so it never needs the browser.
		deps.Lister = cchttp.NewCardListService(cchttp.NewFetcher(cchttp.WithTimeout(cli.Timeout)))
	}

	return kongCtx.Run(deps)
}

func newFetcher(browser bool, cli *CLI) (cardcrawl.Fetcher, error) {
	if browser {
		return rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
	}
	return cchttp.NewFetcher(cchttp.WithTimeout(cli.Timeout)), nil
}

// sources builds the parser for every supported site.
func newSources(logger *slog.Logger, verbose bool) map[cardcrawl.Source]cardcrawl.CardSource {
	sources := map[cardcrawl.Source]cardcrawl.CardSource{
		cardcrawl.SourcePTCG:     goquery.NewPTCGSource(goquery.NewCardParser(goquery.WithLogger(logger))),
		cardcrawl.SourceGatherer: nextjs.NewGathererSource(nextjs.WithLogger(logger)),
	}
	if verbose {
		for k, src := range sources {
			sources[k] = ccslog.NewLoggingCardSource(src, logger)
		}
	}
	return sources
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cardcrawl.db"
	}
	dir := filepath.Join(home, ".cardcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cardcrawl.db")
}
