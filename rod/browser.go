package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/cardcrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of card pages a Chrome process
// serves before it is replaced. Chrome's resident memory keeps growing
// across a long listing crawl even when every page is closed.
const DefaultMaxPages = 250

// instance is one launched Chrome process.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher

	// inflight counts pages opened on this process and not yet released.
	inflight sync.WaitGroup
}

func launch() (*instance, error) {
	l := launcher.New().
		Set("blink-settings", "imagesEnabled=false").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

func (i *instance) close() error {
	err := i.browser.Close()
	i.launcher.Kill()
	return err
}

// BrowserManager hands out the current Chrome process to concurrent
// fetches and replaces it after maxPages pages. A replaced process keeps
// serving the pages already open on it and is closed once they are
// released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	served   int64
	maxPages int64
	closed   bool

	// retiring tracks replaced processes that still have open pages.
	retiring sync.WaitGroup
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a process serves before it is replaced.
// Non-positive values keep DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome process.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{}
	for _, opt := range opts {
		opt(bm)
	}
	if bm.maxPages <= 0 {
		bm.maxPages = DefaultMaxPages
	}

	inst, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst

	return bm, nil
}

// Acquire returns the browser to open one page on, and a release func the
// caller must invoke after closing that page.
// Returns EINVALID once the manager is closed.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, cardcrawl.Errorf(cardcrawl.EINVALID, "browser is closed")
	}
	if bm.served >= bm.maxPages {
		bm.replace()
	}

	inst := bm.current
	bm.served++
	inst.inflight.Add(1)
	return inst.browser, inst.inflight.Done, nil
}

// replace swaps in a fresh process. If the launch fails the old process
// keeps serving for another maxPages pages. Must be called with mu held.
func (bm *BrowserManager) replace() {
	bm.served = 0

	next, err := launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next

	bm.retiring.Add(1)
	go func() {
		defer bm.retiring.Done()
		old.inflight.Wait()
		_ = old.close()
	}()
}

// LauncherPID returns the process ID of the current Chrome launcher,
// or 0 after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return 0
	}
	return bm.current.launcher.PID()
}

// Close shuts down the current process and waits for retiring ones.
// Pages still open on the current process are closed with it.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	if bm.closed {
		bm.mu.Unlock()
		return nil
	}
	bm.closed = true
	current := bm.current
	bm.mu.Unlock()

	err := current.close()
	bm.retiring.Wait()
	return err
}
