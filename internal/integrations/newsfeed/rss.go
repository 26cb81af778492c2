package newsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/news"
	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// RSSSource reads articles from RSS 2.0 feeds
type RSSSource struct {
	urls   []string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// Feeds larger than this are rejected
const maxFeedBytes = 5 << 20

// NewRSSSource initializes a feed reader over the given URLs
func NewRSSSource(urls []string, log *logrus.Logger) *RSSSource {
	return &RSSSource{
		urls: urls,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// Fetch collects relevant items from every feed and returns the best ranked
// up to limit. A failing feed is logged and skipped; the call fails only when
// every feed fails.
func (s *RSSSource) Fetch(ctx context.Context, industry string, limit int) ([]news.Article, error) {
	var (
		out     []news.Article
		lastErr error
		ok      int
	)
	for _, url := range s.urls {
		body, err := s.sendRequest(ctx, url)
		if err != nil {
			s.log.Warnf("News feed %s unavailable: %v", url, err)
			lastErr = err
			continue
		}
		items, err := parseFeed(body)
		if err != nil {
			s.log.Warnf("News feed %s unreadable: %v", url, err)
			lastErr = err
			continue
		}
		ok++
		out = append(out, items...)
	}
	if ok == 0 && lastErr != nil {
		return nil, lastErr
	}
	return topRanked(out, industry, s.now(), limit), nil
}

// sendRequest downloads one feed document
func (s *RSSSource) sendRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxFeedBytes {
		return nil, fmt.Errorf("feed exceeds %d bytes", maxFeedBytes)
	}
	s.log.Debugf("News feed %s returned %d bytes", url, len(body))
	return body, nil
}

// parseFeed extracts channel items from an RSS document
func parseFeed(raw []byte) ([]news.Article, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	channel := doc.FindElement("//channel")
	if channel == nil {
		return nil, fmt.Errorf("no channel element found in feed")
	}
	source := childText(channel, "title")

	var out []news.Article
	for _, item := range channel.SelectElements("item") {
		title := strings.TrimSpace(childText(item, "title"))
		if title == "" {
			continue
		}
		out = append(out, news.Article{
			Title:       title,
			Content:     plainText(childText(item, "description")),
			URL:         strings.TrimSpace(childText(item, "link")),
			Source:      source,
			PublishedAt: parsePubDate(childText(item, "pubDate")),
		})
	}
	return out, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return c.Text()
	}
	return ""
}

// plainText flattens an HTML fragment to its text
func plainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "Mon, 2 Jan 2006 15:04:05 -0700"}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
