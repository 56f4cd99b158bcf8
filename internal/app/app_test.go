package app

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownDrainsRequestsBeforeCleanup(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(event string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-release
			record("handler finished")
			w.WriteHeader(http.StatusOK)
		}),
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = server.Serve(ln) }()

	a := &App{
		server:       server,
		cleanupFuncs: []func(){func() { record("cleanup") }},
	}

	go func() {
		resp, reqErr := http.Get("http://" + ln.Addr().String())
		if reqErr == nil {
			resp.Body.Close()
		}
	}()
	<-started

	// Release the in-flight handler while shutdown is already draining.
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"handler finished", "cleanup"}, events)
}
