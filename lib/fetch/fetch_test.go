package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, opts Options) *Client {
	t.Helper()
	opts.BaseURL = serverURL
	client, err := NewClient(opts)
	require.NoError(t, err)
	return client
}

func TestFetchSuccess(t *testing.T) {
	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Options{})
	body, err := client.Fetch(context.Background(), server.URL+"/gallery")
	require.NoError(t, err)
	require.Contains(t, body, "ok")
	require.Equal(t, server.URL, gotReferer)
}

func TestFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Options{})
	_, err := client.Fetch(context.Background(), server.URL+"/missing")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestFetchChallengeDetected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Checking your browser before accessing</h1>
			<p>DDoS protection by Cloudflare</p>
		</body></html>`))
	}))
	defer server.Close()

	debugDir := filepath.Join(t.TempDir(), "debug")
	client := newTestClient(t, server.URL, Options{DebugDir: debugDir})
	_, err := client.Fetch(context.Background(), server.URL+"/events")

	var challengeErr *ChallengeError
	require.ErrorAs(t, err, &challengeErr)
	require.NotEmpty(t, challengeErr.ArtifactPath)

	artifact, err := os.ReadFile(challengeErr.ArtifactPath)
	require.NoError(t, err)
	require.Contains(t, string(artifact), "Checking your browser")
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Options{Timeout: 50 * time.Millisecond})
	_, err := client.Fetch(context.Background(), server.URL+"/news")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestFetchRootHasNoReferer(t *testing.T) {
	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte("home"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Options{})
	_, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Empty(t, gotReferer)
}
