package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminSRussell/wibot/internal/graph"
	"github.com/BenjaminSRussell/wibot/internal/types"
)

func TestWorkerPool_FetchesAndAdmitsLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/about">About</a></body></html>`))
	}))
	defer server.Close()

	heap := NewBackHeap(10 * time.Millisecond)
	f := NewFrontier(1, 4, heap, allowAllRobots(), "Wibot")
	links := graph.NewLinkGraph()
	contents := graph.NewContents()

	config := types.DefaultConfig()
	config.RequestTimeout = 2 * time.Second
	config.Threads = 1

	wp := NewWorkerPool(config, f, heap, links, contents, nil)

	require.True(t, f.Admit(context.Background(), server.URL+"/", ""))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wp.Start(ctx)
	time.Sleep(500 * time.Millisecond)
	cancel()
	wp.Stop()

	assert.Greater(t, wp.Requests(), int64(0))

	text, ok := contents.Get(server.URL)
	require.True(t, ok)
	assert.Contains(t, text, "About")

	refs := links.References(server.URL)
	require.Len(t, refs, 1)
	assert.Equal(t, server.URL+"/about", refs[0])
}
