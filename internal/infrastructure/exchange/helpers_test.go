package exchange

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vitos/market_viewer/internal/domain"
)

// fakeExchange serves canned bodies by path and counts every hit.
type fakeExchange struct {
	*httptest.Server
	hits    atomic.Int32
	headers atomic.Value // last request's http.Header
}

func newFakeExchange(t *testing.T, routes map[string]http.HandlerFunc) *fakeExchange {
	t.Helper()
	f := &fakeExchange{}
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.headers.Store(r.Header.Clone())
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeExchange) lastHeader() http.Header {
	h, _ := f.headers.Load().(http.Header)
	return h
}

func body(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
	}
}

func status(code int, s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(s))
	}
}

// hang blocks until the client gives up.
func hang() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}
}

func testOptions(timeout time.Duration) Options {
	return Options{Client: ClientConfig{Timeout: timeout}}
}

func testMapping() *domain.SymbolMapping {
	return domain.DefaultSymbolMapping()
}
