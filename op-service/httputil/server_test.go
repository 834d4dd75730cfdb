package httputil

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) string {
	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return string(body)
}

func TestStartHTTPServer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	srv, err := StartHTTPServer("127.0.0.1:0", h, WithMaxHeaderBytes(1<<16))
	require.NoError(t, err)
	require.True(t, srv.Running())
	require.NotEmpty(t, srv.HTTPEndpoint())
	require.Equal(t, "hello", get(t, srv.HTTPEndpoint()))

	require.NoError(t, srv.Stop(context.Background()))
	require.False(t, srv.Running())
	require.Nil(t, srv.Addr())
	require.Empty(t, srv.HTTPEndpoint())
	require.NoError(t, srv.Stop(context.Background()), "stopping twice")

	require.NoError(t, srv.Start(), "can restart")
	require.Equal(t, "hello", get(t, srv.HTTPEndpoint()))
	require.NoError(t, srv.Close())
	require.False(t, srv.Running())
}

func TestStartTwice(t *testing.T) {
	srv, err := StartHTTPServer("127.0.0.1:0", http.NotFoundHandler())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	require.Error(t, srv.Start())
}

func TestStartBindFailure(t *testing.T) {
	srv, err := StartHTTPServer("127.0.0.1:0", http.NotFoundHandler())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	_, err = StartHTTPServer(srv.Addr().String(), http.NotFoundHandler())
	require.ErrorContains(t, err, "failed to bind")
}

func TestStopForceCloses(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})
	srv, err := StartHTTPServer("127.0.0.1:0", h, WithTimeouts(time.Second, time.Second))
	require.NoError(t, err)

	go func() {
		resp, err := http.Get(srv.HTTPEndpoint())
		if err == nil {
			_ = resp.Body.Close()
		}
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, srv.Stop(ctx), "the hanging request is force-closed")
	require.False(t, srv.Running())
}
