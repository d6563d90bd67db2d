//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/cardcrawl/nextjs"
	"github.com/fwojciec/cardcrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_InjectedHydrationScript(t *testing.T) {
	t.Parallel()

	// The hydration script only exists after client-side JS has run.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<script>
const s = document.createElement('script');
s.type = 'application/json';
s.textContent = 'self.__next_f.push([1,"5:[\\"$\\",\\"div\\",null,{\\"instanceName\\":\\"Llanowar Elves\\"}]"])';
document.body.appendChild(s);
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(ctx, srv.URL)
	require.NoError(t, err)

	script, ok, err := nextjs.HydrationScript(html)
	require.NoError(t, err)
	require.True(t, ok, "expected rendered hydration script")
	assert.Contains(t, script, "Llanowar Elves")
}

func TestFetcher_Integration_RecyclesBrowser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>card</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithRecycleAfter(2))
	require.NoError(t, err)
	defer fetcher.Close()

	first := fetcher.LauncherPID()
	for i := 0; i < 3; i++ {
		_, err := fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	assert.NotEqual(t, first, fetcher.LauncherPID())
}
