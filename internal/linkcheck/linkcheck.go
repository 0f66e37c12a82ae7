// Package linkcheck scans message links for fundraising signals. A page
// counts as a hit when any visible text or anchor href mentions
// donations.
package linkcheck

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pmurley/dembot/pkg/logger"
)

var (
	urlRe    = regexp.MustCompile(`https?://[^\s]+`)
	donateRe = regexp.MustCompile(`(?i)donat(e|ion)`)
)

// Scanner fetches linked pages and checks them for donation keywords.
// Verdicts are cached per URL so a link spammed across channels is only
// fetched once per cache window.
type Scanner struct {
	httpClient *http.Client
	verdicts   *gocache.Cache
	log        *logger.Logger
}

func NewScanner(cacheDuration time.Duration, log *logger.Logger) *Scanner {
	return &Scanner{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		verdicts: gocache.New(cacheDuration, cacheDuration*2),
		log:      log,
	}
}

// ExtractLinks returns every URL found in the message content.
func ExtractLinks(content string) []string {
	return urlRe.FindAllString(content, -1)
}

// IsDonatePage fetches the link and reports whether the page carries a
// donation signal. Fetch or parse failures are returned for the caller
// to log; they never mark a page as a hit.
func (s *Scanner) IsDonatePage(link string) (bool, error) {
	if verdict, found := s.verdicts.Get(link); found {
		return verdict.(bool), nil
	}

	resp, err := s.httpClient.Get(link)
	if err != nil {
		return false, fmt.Errorf("failed to fetch %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, link)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", link, err)
	}

	hit := scanDocument(doc)
	s.verdicts.SetDefault(link, hit)

	if hit {
		s.log.Infof("Potential donate page found at %s", link)
	} else {
		s.log.Debugf("No donate signal found at %s", link)
	}
	return hit, nil
}

func scanDocument(doc *goquery.Document) bool {
	if donateRe.MatchString(doc.Text()) {
		return true
	}

	found := false
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok && donateRe.MatchString(href) {
			found = true
			return false
		}
		return true
	})
	return found
}
