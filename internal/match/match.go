// Package match decides whether a live Discord identity corresponds to a
// schedule entry. Schedule rows are human-entered free text with
// inconsistent casing, punctuation, and the occasional legacy name#NNNN
// tag, so matching is layered: exact tag, then fuzzy, then substring.
package match

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/pmurley/dembot/internal/models"
)

// DefaultThreshold is the token-set similarity score (0-100) at or above
// which two names are considered the same person.
const DefaultThreshold = 85

var (
	discordTagRe = regexp.MustCompile(`([a-zA-Z0-9_]+)#(\d{4})`)
	bracketRe    = regexp.MustCompile(`[\(\)\[\]]`)
)

// Matcher matches schedule entries against live identities.
type Matcher struct {
	threshold int
}

func NewMatcher(threshold int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Matches reports whether entry refers to the given identity.
func (m *Matcher) Matches(entry models.ScheduleEntry, id models.Identity) bool {
	userNames := []string{
		strings.ToLower(id.DisplayName),
		strings.ToLower(id.Username),
		strings.ToLower(id.Tag),
	}

	entryNames := []string{
		normalize(entry.DiscordHandle),
		normalize(entry.ModeratorName),
	}

	// 1. Exact match on a legacy Discord tag embedded in the entry text.
	if tag := strings.ToLower(id.Tag); tag != "" {
		for _, name := range entryNames {
			if extracted := extractDiscordTag(name); extracted != "" && extracted == tag {
				return true
			}
		}
	}

	// 2. Fuzzy and substring matching over every name combination.
	for _, userName := range userNames {
		if userName == "" {
			continue
		}
		for _, entryName := range entryNames {
			if entryName == "" {
				continue
			}
			if fuzzy.TokenSetRatio(userName, entryName) >= m.threshold {
				return true
			}
			if strings.Contains(entryName, userName) || strings.Contains(userName, entryName) {
				return true
			}
		}
	}

	return false
}

// normalize lower-cases a schedule-entry name and strips the brackets
// and parentheses people use for asides ("jane (backup)").
func normalize(s string) string {
	s = strings.ToLower(s)
	s = bracketRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractDiscordTag pulls a name#NNNN tag out of free text, or returns
// the empty string if none is present.
func extractDiscordTag(text string) string {
	return discordTagRe.FindString(text)
}
