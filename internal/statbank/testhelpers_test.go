package statbank

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
	"github.com/sells-group/neighbourhood-cli/internal/reference"
)

// queryLog records the queries a fake statistics API received.
type queryLog struct {
	mu      sync.Mutex
	queries []Query
}

func (l *queryLog) add(q Query) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)
}

func (l *queryLog) all() []Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Query(nil), l.queries...)
}

// newTestClient starts a fake statistics API that answers every POST /data with
// the body registered for the requested table.
func newTestClient(t *testing.T, bodies map[string]string) (*Client, *queryLog) {
	t.Helper()

	rec := &queryLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/data", r.URL.Path)

		raw, _ := io.ReadAll(r.Body)
		var q Query
		if !assert.NoError(t, json.Unmarshal(raw, &q)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec.add(q)

		body, ok := bodies[q.Table]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "unknown table")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	ref, err := reference.Default()
	require.NoError(t, err)

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 5 * time.Second, RateLimit: rate.Inf})
	return NewClient(f, srv.URL+"/v1/", ref), rec
}
