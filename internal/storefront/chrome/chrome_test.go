package chrome

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/extname/internal/storefront"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "读取 fixture %s", name)
	return b
}

func TestParse_FirstHeadingTrimmed(t *testing.T) {
	name, err := Storefront{}.Parse(readFixture(t, "detail.html"))
	require.NoError(t, err)
	assert.Equal(t, "uBlock Origin Lite", name)
}

func TestParse_MissingHeading(t *testing.T) {
	_, err := Storefront{}.Parse(readFixture(t, "no_heading.html"))
	assert.True(t, errors.Is(err, storefront.ErrElementMissing), "err=%v", err)
}

func TestParse_EmptyHeading(t *testing.T) {
	_, err := Storefront{}.Parse([]byte("<html><body><h1>   </h1></body></html>"))
	assert.True(t, errors.Is(err, storefront.ErrElementMissing), "err=%v", err)
}

func TestDetailURL(t *testing.T) {
	assert.Equal(t, "https://chromewebstore.google.com/detail/abc", Storefront{}.DetailURL("abc"))
	assert.Equal(t, "http://127.0.0.1:9/detail/abc", Storefront{BaseURL: "http://127.0.0.1:9/"}.DetailURL("abc"))
}

func TestFetch_DetailPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Foo Bar</h1></body></html>"))
	}))
	defer srv.Close()

	s := Storefront{BaseURL: srv.URL}
	html, pageURL, err := s.Fetch(context.Background(), "abcdef", resty.New())
	require.NoError(t, err)
	assert.Equal(t, "/detail/abcdef", gotPath)
	assert.Equal(t, srv.URL+"/detail/abcdef", pageURL)

	name, err := s.Parse(html)
	require.NoError(t, err)
	assert.Equal(t, "Foo Bar", name)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := Storefront{BaseURL: srv.URL}.Fetch(context.Background(), "missing", resty.New())
	var he *storefront.HTTPStatusError
	require.True(t, errors.As(err, &he), "err=%v", err)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
}

func TestFetch_DecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		// "中文" 的 GBK 编码。
		_, _ = w.Write([]byte("<html><body><h1>\xd6\xd0\xce\xc4</h1></body></html>"))
	}))
	defer srv.Close()

	s := Storefront{BaseURL: srv.URL}
	html, _, err := s.Fetch(context.Background(), "x", resty.New())
	require.NoError(t, err)
	name, err := s.Parse(html)
	require.NoError(t, err)
	assert.Equal(t, "中文", name)
}
