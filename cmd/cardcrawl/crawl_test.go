package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/cardcrawl"
	main "github.com/fwojciec/cardcrawl/cmd/cardcrawl"
	"github.com/fwojciec/cardcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness wires Dependencies to mocks that record what the commands do.
type harness struct {
	deps     *main.Dependencies
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	mu       sync.Mutex
	saved    []*cardcrawl.CacheEntry
	finished *cardcrawl.Run
}

func newHarness(source cardcrawl.Source, fetch func(url string) (string, error)) *harness {
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}

	src := &mock.CardSource{
		SourceFn:  func() cardcrawl.Source { return source },
		CardURLFn: func(id int) string { return "https://cards.example.com/card/" + strconv.Itoa(id) },
		ParseCardFn: func(id int, html string) (*cardcrawl.Record, error) {
			if html == "" {
				return nil, cardcrawl.Errorf(cardcrawl.ENODATA, "no card")
			}
			return &cardcrawl.Record{SourceID: id, Name: html, Data: json.RawMessage(`{"name":"` + html + `"}`)}, nil
		},
	}

	h.deps = &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  h.stdout,
		Stderr:  h.stderr,
		Sources: map[cardcrawl.Source]cardcrawl.CardSource{source: src},
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return fetch(url) },
		},
		Store: &mock.CardStore{
			SaveEntryFn: func(ctx context.Context, entry *cardcrawl.CacheEntry) error {
				h.mu.Lock()
				defer h.mu.Unlock()
				h.saved = append(h.saved, entry)
				return nil
			},
			FindEntryFn: func(ctx context.Context, source cardcrawl.Source, id int) (*cardcrawl.CacheEntry, error) {
				return nil, cardcrawl.Errorf(cardcrawl.ENOTFOUND, "not found")
			},
			FindUnexpiredIDsFn: func(ctx context.Context, source cardcrawl.Source, start, end int, now time.Time) ([]int, error) {
				return nil, nil
			},
		},
		Runs: &mock.RunService{
			CreateRunFn: func(ctx context.Context, run *cardcrawl.Run) error {
				run.ID = "run-1"
				return nil
			},
			FinishRunFn: func(ctx context.Context, run *cardcrawl.Run) error {
				h.finished = run
				return nil
			},
		},
		RetryDelays: []time.Duration{},
	}
	return h
}

func TestPtcgCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls a single card and records the run", func(t *testing.T) {
		t.Parallel()

		h := newHarness(cardcrawl.SourcePTCG, func(url string) (string, error) {
			assert.Equal(t, "https://cards.example.com/card/45012", url)
			return "ピカチュウ", nil
		})

		err := (&main.PtcgCmd{ID: 45012, Concurrency: 1}).Run(h.deps)

		require.NoError(t, err)
		require.Len(t, h.saved, 1)
		assert.Equal(t, 45012, h.saved[0].SourceID)
		assert.Contains(t, h.stdout.String(), "45012 ピカチュウ")
		assert.Contains(t, h.stdout.String(), "Run run-1: 1 saved, 0 empty, 0 failed, 0 skipped")
		require.NotNil(t, h.finished)
		assert.Equal(t, cardcrawl.SourcePTCG, h.finished.Source)
		assert.Equal(t, 1, h.finished.Saved)
	})

	t.Run("crawls every listed card", func(t *testing.T) {
		t.Parallel()

		h := newHarness(cardcrawl.SourcePTCG, func(url string) (string, error) { return "card", nil })
		h.deps.Lister = &mock.CardLister{
			ListCardsFn: func(ctx context.Context, page int) (*cardcrawl.CardListPage, error) {
				if page == 1 {
					return &cardcrawl.CardListPage{Page: 1, MaxPage: 2, Total: 3, IDs: []int{1, 2}}, nil
				}
				return &cardcrawl.CardListPage{Page: 2, MaxPage: 2, Total: 3, IDs: []int{2, 3}}, nil
			},
		}

		err := (&main.PtcgCmd{Concurrency: 2}).Run(h.deps)

		require.NoError(t, err)
		assert.Len(t, h.saved, 3)
		assert.Contains(t, h.stdout.String(), "Page 1/2: 2 cards of 3")
		assert.Contains(t, h.stdout.String(), "Page 2/2: 2 cards of 3")
		assert.Equal(t, 3, h.finished.Saved)
	})

	t.Run("exports cards when an export directory is set", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		h := newHarness(cardcrawl.SourcePTCG, func(url string) (string, error) { return "card", nil })

		err := (&main.PtcgCmd{ID: 7, Concurrency: 1, Export: dir}).Run(h.deps)

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(dir, "ptcg", "7.json"))
		require.NoError(t, err)
		assert.Equal(t, "{\"name\":\"card\"}\n", string(content))
	})

	t.Run("reports fetch failures without failing the run", func(t *testing.T) {
		t.Parallel()

		h := newHarness(cardcrawl.SourcePTCG, func(url string) (string, error) {
			return "", errors.New("HTTP 503")
		})

		err := (&main.PtcgCmd{ID: 9, Concurrency: 1}).Run(h.deps)

		require.NoError(t, err)
		assert.Contains(t, h.stderr.String(), "skip 9: HTTP 503")
		assert.Equal(t, 1, h.finished.Failed)
		assert.Empty(t, h.saved)
	})

	t.Run("fails when the run cannot be recorded", func(t *testing.T) {
		t.Parallel()

		h := newHarness(cardcrawl.SourcePTCG, func(url string) (string, error) { return "card", nil })
		h.deps.Runs = &mock.RunService{
			CreateRunFn: func(ctx context.Context, run *cardcrawl.Run) error {
				return errors.New("disk full")
			},
		}

		err := (&main.PtcgCmd{ID: 1}).Run(h.deps)

		require.Error(t, err)
		assert.Contains(t, h.stderr.String(), "error:")
	})
}

func TestGathererCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls the range skipping fresh IDs", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		var mu sync.Mutex
		h := newHarness(cardcrawl.SourceGatherer, func(url string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			fetched = append(fetched, url)
			if url == "https://cards.example.com/card/3" {
				return "", nil
			}
			return "Black Lotus", nil
		})
		h.deps.Store.(*mock.CardStore).FindUnexpiredIDsFn = func(ctx context.Context, source cardcrawl.Source, start, end int, now time.Time) ([]int, error) {
			assert.Equal(t, 1, start)
			assert.Equal(t, 4, end)
			return []int{2}, nil
		}

		err := (&main.GathererCmd{MaxID: 4, Start: 1, Concurrency: 2}).Run(h.deps)

		require.NoError(t, err)
		assert.Len(t, fetched, 3)
		assert.Len(t, h.saved, 3)
		assert.Equal(t, 2, h.finished.Saved)
		assert.Equal(t, 1, h.finished.Empty)
		assert.Equal(t, 1, h.finished.Skipped)
		assert.Contains(t, h.stdout.String(), "2 saved, 1 empty, 0 failed, 1 skipped")
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		t.Parallel()

		h := newHarness(cardcrawl.SourceGatherer, func(url string) (string, error) { return "", nil })

		err := (&main.GathererCmd{MaxID: 1, Start: 5}).Run(h.deps)

		require.Error(t, err)
		assert.Equal(t, cardcrawl.EINVALID, cardcrawl.ErrorCode(err))
		assert.Contains(t, h.stderr.String(), "error crawling")
	})
}
