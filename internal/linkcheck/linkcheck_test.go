package linkcheck

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/dembot/pkg/logger"
)

func TestExtractLinks(t *testing.T) {
	links := ExtractLinks("check out https://example.com/fund and http://other.org too")
	assert.Equal(t, []string{"https://example.com/fund", "http://other.org"}, links)

	assert.Empty(t, ExtractLinks("no links here"))
}

func serve(t *testing.T, html string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIsDonatePageTextHit(t *testing.T) {
	srv := serve(t, `<html><body><p>Please donate today!</p></body></html>`, nil)

	s := NewScanner(time.Minute, logger.New("error"))
	hit, err := s.IsDonatePage(srv.URL)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestIsDonatePageHrefHit(t *testing.T) {
	srv := serve(t, `<html><body><a href="/DONATE-now">Support us</a></body></html>`, nil)

	s := NewScanner(time.Minute, logger.New("error"))
	hit, err := s.IsDonatePage(srv.URL)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestIsDonatePageClean(t *testing.T) {
	srv := serve(t, `<html><body><p>Nothing to see here.</p><a href="/about">About</a></body></html>`, nil)

	s := NewScanner(time.Minute, logger.New("error"))
	hit, err := s.IsDonatePage(srv.URL)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestIsDonatePageCachesVerdict(t *testing.T) {
	hits := 0
	srv := serve(t, `<html><body><p>donate</p></body></html>`, &hits)

	s := NewScanner(time.Minute, logger.New("error"))

	for i := 0; i < 3; i++ {
		hit, err := s.IsDonatePage(srv.URL)
		require.NoError(t, err)
		assert.True(t, hit)
	}

	assert.Equal(t, 1, hits, "repeated checks of the same URL must not refetch")
}

func TestIsDonatePageFetchError(t *testing.T) {
	srv := serve(t, "", nil)
	url := srv.URL
	srv.Close()

	s := NewScanner(time.Minute, logger.New("error"))
	hit, err := s.IsDonatePage(url)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestIsDonatePageBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScanner(time.Minute, logger.New("error"))
	hit, err := s.IsDonatePage(srv.URL)
	assert.Error(t, err)
	assert.False(t, hit)
}
