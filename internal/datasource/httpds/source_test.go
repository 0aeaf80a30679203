package httpds

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"steamload/internal/failure"
)

func TestSourceOpen_Plain(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "AppID,Name\n1,One\n")
	}))
	defer srv.Close()

	rc, err := NewSource(srv.URL+"/games.csv", nil).Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "AppID,Name\n1,One\n", string(b))
}

func TestSourceOpen_Gzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("AppID\n7\n"))
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	rc, err := NewSource(srv.URL+"/export/games.csv.gz?sig=1", nil).Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "AppID\n7\n", string(b))
}

func TestSourceOpen_StatusIsIOFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL+"/missing.csv", nil).Open(context.Background())
	require.ErrorIs(t, err, failure.ErrIO)
	require.Contains(t, err.Error(), "404")
}
