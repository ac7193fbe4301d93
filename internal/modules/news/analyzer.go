package news

import (
	"sort"
	"strings"
)

// Relevance scoring weights: title hits count three times as much as summary
// hits, each distinct keyword hit is worth 10 points, capped at 100.
const (
	titleWeight   = 3
	summaryWeight = 1
	matchBonus    = 10
	maxScore      = 100
)

// Analyzer scores articles against configured topics.
type Analyzer struct {
	topics    []Topic
	threshold int
}

// NewAnalyzer creates an analyzer with the given topics and classification
// threshold.
func NewAnalyzer(topics []Topic, threshold int) *Analyzer {
	return &Analyzer{topics: topics, threshold: threshold}
}

// Score returns the 0-100 relevance score of an article for one topic.
func (a *Analyzer) Score(article Article, topic Topic) int {
	titleHits := countKeywordHits(article.Title, topic.Keywords)
	summaryHits := countKeywordHits(article.Summary, topic.Keywords)

	raw := titleHits*matchBonus*titleWeight + summaryHits*matchBonus*summaryWeight
	if raw > maxScore {
		return maxScore
	}
	return raw
}

// Classify scores an article against every topic and keeps those at or above
// the threshold, sorted descending by score.
func (a *Analyzer) Classify(article Article) []TopicScore {
	var scores []TopicScore
	for _, topic := range a.topics {
		if sc := a.Score(article, topic); sc >= a.threshold {
			scores = append(scores, TopicScore{
				TopicID: topic.ID,
				Label:   topic.Label,
				Score:   sc,
			})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// countKeywordHits counts how many distinct keywords appear in text,
// case-insensitively.
func countKeywordHits(text string, keywords []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	return hits
}
