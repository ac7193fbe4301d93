package news

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const fetchTimeout = 15 * time.Second

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// Fetcher downloads and normalizes RSS 2.0 and Atom feeds. News sources are
// ordinary websites, so it uses its own HTTP client rather than the EDGAR
// transport and its rate gate.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// NewFetcher creates a feed fetcher
func NewFetcher(log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: "FundWatch-NewsTracker/1.0",
		log:       log.With().Str("component", "news_fetcher").Logger(),
	}
}

// FetchFeed fetches and parses one feed. The feed's name and category are
// stamped onto every returned article.
func (f *Fetcher) FetchFeed(feed Feed) ([]Article, error) {
	req, err := http.NewRequest(http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", feed.Name, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: status %d", feed.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", feed.Name, err)
	}

	articles, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feed.Name, err)
	}

	for i := range articles {
		articles[i].Source = feed.Name
		articles[i].Category = feed.Category
	}

	f.log.Info().Str("feed", feed.Name).Int("articles", len(articles)).Msg("Fetched feed")
	return articles, nil
}

// FetchAll fetches every configured feed, skipping feeds that fail.
func (f *Fetcher) FetchAll(feeds []Feed) []Article {
	var all []Article
	for _, feed := range feeds {
		articles, err := f.FetchFeed(feed)
		if err != nil {
			f.log.Warn().Err(err).Str("feed", feed.Name).Msg("Skipping feed")
			continue
		}
		all = append(all, articles...)
	}
	return all
}

type rssDoc struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type atomDoc struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Updated   string     `xml:"updated"`
	Published string     `xml:"published"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// parseFeed detects the feed flavor by root element and normalizes entries.
func parseFeed(body []byte) ([]Article, error) {
	var rss rssDoc
	if err := xml.Unmarshal(body, &rss); err == nil {
		return fromRSSItems(rss.Channel.Items), nil
	}

	var atom atomDoc
	if err := xml.Unmarshal(body, &atom); err == nil {
		return fromAtomEntries(atom.Entries), nil
	}

	return nil, fmt.Errorf("document is neither RSS nor Atom")
}

func fromRSSItems(items []rssItem) []Article {
	var articles []Article
	for _, item := range items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "No title"
		}
		articles = append(articles, Article{
			ID:        articleID(link),
			Title:     title,
			Summary:   truncate(stripHTML(item.Description), 500),
			URL:       link,
			Published: parseRFC822(item.PubDate),
		})
	}
	return articles
}

func fromAtomEntries(entries []atomEntry) []Article {
	var articles []Article
	for _, entry := range entries {
		link := pickAtomLink(entry.Links)
		if link == "" {
			continue
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = "No title"
		}
		summary := entry.Summary
		if summary == "" {
			summary = entry.Content
		}
		dateStr := entry.Updated
		if dateStr == "" {
			dateStr = entry.Published
		}
		articles = append(articles, Article{
			ID:        articleID(link),
			Title:     title,
			Summary:   truncate(stripHTML(summary), 500),
			URL:       link,
			Published: parseISO(dateStr),
		})
	}
	return articles
}

// pickAtomLink prefers the rel="alternate" link, then the first link.
func pickAtomLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" && l.Href != "" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Href != "" {
			return l.Href
		}
	}
	return ""
}

// articleID is a deterministic id derived from the article URL.
func articleID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:16]
}

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var rfc822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

func parseRFC822(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range rfc822Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func parseISO(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}
