package e2e_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/restiva/restiva/filesystem"
	restivahttp "github.com/restiva/restiva/http"
)

// startServer runs the full router on a real listener backed by a temporary
// storage directory and returns its base URL.
func startServer(t *testing.T) string {
	t.Helper()

	root, err := os.OpenRoot(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	store := filesystem.NewStore(root)
	handler := restivahttp.NewHandler(&restivahttp.HandlerConfig{}, store, store)

	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	return server.URL
}

func doReq(t *testing.T, client *http.Client, method, url string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()
	_ = resp.Body.Close()
}
