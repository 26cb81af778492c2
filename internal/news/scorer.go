// Package news scores articles for relevance to a founder's industry using
// keyword coverage and a recency bonus that decays over 24 hours.
package news

import (
	"math"
	"sort"
	"strings"
	"time"
)

const (
	recencyWindow = 24 * time.Hour
	recencyWeight = 0.3
)

// Article is the raw text of a news item
type Article struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

var industryKeywords = map[string][]string{
	"fintech":    {"fintech", "financial", "payments", "banking", "lending", "investment", "funding"},
	"saas":       {"saas", "software", "cloud", "subscription", "platform", "enterprise"},
	"ecommerce":  {"ecommerce", "retail", "marketplace", "commerce", "shopping", "consumer"},
	"healthcare": {"healthcare", "health", "medical", "pharmaceutical", "biotech"},
	"ai":         {"ai", "artificial intelligence", "machine learning", "automation", "data"},
}

var defaultKeywords = []string{"startup", "funding", "investment", "business", "technology", "innovation"}

// Keywords returns the keyword set for industry, falling back to a generic set
func Keywords(industry string) []string {
	if kw, ok := industryKeywords[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return kw
	}
	return defaultKeywords
}

func text(a Article) string {
	return strings.ToLower(a.Title + " " + a.Content)
}

// Relevant reports whether the article mentions any industry keyword
func Relevant(a Article, industry string) bool {
	body := text(a)
	for _, kw := range Keywords(industry) {
		if strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

// RelevanceScore returns a score in [0, 1]: the fraction of industry keywords
// present in the title and content, plus up to 0.3 for articles published in
// the last 24 hours.
func RelevanceScore(a Article, industry string, now time.Time) float64 {
	keywords := Keywords(industry)
	body := text(a)

	hits := 0
	for _, kw := range keywords {
		if strings.Contains(body, kw) {
			hits++
		}
	}
	coverage := float64(hits) / float64(len(keywords))

	recency := 0.0
	if !a.PublishedAt.IsZero() {
		age := now.Sub(a.PublishedAt).Hours()
		recency = math.Min(1, math.Max(0, 1-age/recencyWindow.Hours()))
	}

	return math.Min(1, coverage+recency*recencyWeight)
}

// Scored pairs an article with its relevance
type Scored struct {
	Article
	Score float64 `json:"relevance_score"`
}

// Rank keeps the relevant articles and orders them by descending score,
// most recent first on ties.
func Rank(articles []Article, industry string, now time.Time) []Scored {
	out := make([]Scored, 0, len(articles))
	for _, a := range articles {
		if !Relevant(a, industry) {
			continue
		}
		out = append(out, Scored{Article: a, Score: RelevanceScore(a, industry, now)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}
