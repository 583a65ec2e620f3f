package ics

import (
	"strings"

	"github.com/labplanner/backend/internal/models"
)

// MatchPersonnel resolves an event summary to a person via two tiers:
//
//  1. strict: a leading bracketed token "[XX]" must equal a person's
//     initials (case-insensitive);
//  2. flexible: the first person whose initials appear as a whole word
//     anywhere in the summary.
//
// Returns nil when neither tier matches.
func MatchPersonnel(summary string, personnel []models.Personnel) *models.Personnel {
	if tag, ok := bracketTag(summary); ok {
		for i := range personnel {
			if personnel[i].Initials != "" && strings.EqualFold(personnel[i].Initials, tag) {
				return &personnel[i]
			}
		}
	}

	for i := range personnel {
		if personnel[i].Initials == "" {
			continue
		}
		if containsWholeWord(summary, personnel[i].Initials) {
			return &personnel[i]
		}
	}
	return nil
}

func bracketTag(summary string) (string, bool) {
	s := strings.TrimSpace(summary)
	if !strings.HasPrefix(s, "[") {
		return "", false
	}
	end := strings.Index(s, "]")
	if end <= 1 {
		return "", false
	}
	return strings.TrimSpace(s[1:end]), true
}

func containsWholeWord(text, word string) bool {
	lower := strings.ToLower(text)
	target := strings.ToLower(word)
	idx := 0
	for {
		pos := strings.Index(lower[idx:], target)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos == 0 || !isWordChar(lower[pos-1])
		afterIdx := pos + len(target)
		after := afterIdx >= len(lower) || !isWordChar(lower[afterIdx])
		if before && after {
			return true
		}
		idx = pos + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// MatchCategory returns the first campaign category whose comma-separated
// keyword list has an entry contained in the lowercased summary. Insertion
// order breaks ties.
func MatchCategory(summary string, categories []models.CampaignCategory) *models.CampaignCategory {
	lower := strings.ToLower(summary)
	for i := range categories {
		if keywordListMatches(lower, categories[i].Keywords) {
			return &categories[i]
		}
	}
	return nil
}

// MatchManager applies the same keyword containment over each person's
// keyword list.
func MatchManager(summary string, personnel []models.Personnel) *models.Personnel {
	lower := strings.ToLower(summary)
	for i := range personnel {
		if keywordListMatches(lower, personnel[i].Keywords) {
			return &personnel[i]
		}
	}
	return nil
}

func keywordListMatches(lowerSummary, keywords string) bool {
	for _, kw := range strings.Split(keywords, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lowerSummary, kw) {
			return true
		}
	}
	return false
}
