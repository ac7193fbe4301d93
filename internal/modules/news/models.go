package news

import "time"

// Feed is one configured RSS/Atom source.
type Feed struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// Topic is a keyword bundle articles are scored against.
type Topic struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// Article is a normalized feed entry.
type Article struct {
	ID        string    `json:"id"` // deterministic, derived from the URL
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Category  string    `json:"category"`
	Published time.Time `json:"published"`
}

// TopicScore is one topic's relevance score for an article.
type TopicScore struct {
	TopicID string `json:"topic_id"`
	Label   string `json:"label"`
	Score   int    `json:"score"`
}

// DefaultFeeds are the bundled market-news sources.
var DefaultFeeds = []Feed{
	{Name: "Reuters Markets", URL: "https://feeds.reuters.com/reuters/businessNews", Category: "markets"},
	{Name: "CNBC Markets", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=20910258", Category: "markets"},
	{Name: "SEC Press Releases", URL: "https://www.sec.gov/news/pressreleases.rss", Category: "regulatory"},
	{Name: "FT Markets", URL: "https://www.ft.com/markets?format=rss", Category: "markets"},
}

// DefaultTopics are the bundled scoring topics, matching the tracked funds
// and the 13F domain.
var DefaultTopics = []Topic{
	{
		ID:    "hedge_funds",
		Label: "Hedge Funds",
		Keywords: []string{
			"hedge fund", "13F", "institutional investor", "activist investor",
			"TCI Fund", "Egerton", "AKO Capital", "ValueAct", "Lone Pine",
		},
	},
	{
		ID:    "regulation",
		Label: "Regulation",
		Keywords: []string{
			"SEC", "disclosure", "filing", "regulator", "enforcement",
		},
	},
	{
		ID:    "markets",
		Label: "Markets",
		Keywords: []string{
			"equities", "stocks", "portfolio", "earnings", "quarterly results",
		},
	},
}

// MinRelevanceScore is the classification threshold; topics scoring below it
// are not attached to an article.
const MinRelevanceScore = 30
