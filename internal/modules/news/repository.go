package news

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository persists articles and their topic scores in SQLite.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new news repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "news").Logger(),
	}
}

// UpsertArticle inserts or updates one article and its topic scores.
func (r *Repository) UpsertArticle(article Article, scores []TopicScore) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(
		`INSERT INTO articles (id, title, summary, url, source, category, published, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     title=excluded.title,
		     summary=excluded.summary,
		     fetched_at=excluded.fetched_at`,
		article.ID, article.Title, article.Summary, article.URL,
		article.Source, article.Category,
		article.Published.UTC().Format(time.RFC3339), now,
	)
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", article.ID, err)
	}

	for _, t := range scores {
		_, err = tx.Exec(
			`INSERT INTO article_topics (article_id, topic_id, label, score)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(article_id, topic_id) DO UPDATE SET
			     score=excluded.score,
			     label=excluded.label`,
			article.ID, t.TopicID, t.Label, t.Score,
		)
		if err != nil {
			return fmt.Errorf("upsert topic %s for article %s: %w", t.TopicID, article.ID, err)
		}
	}

	return tx.Commit()
}

// Query filters stored articles.
type Query struct {
	TopicID  string
	Source   string
	MinScore int
	Search   string
	Limit    int
	Offset   int
}

// StoredArticle is an article joined with its topic scores.
type StoredArticle struct {
	Article
	FetchedAt string       `json:"fetched_at"`
	Topics    []TopicScore `json:"topics"`
}

// QueryArticles returns stored articles matching the filters, newest first.
func (r *Repository) QueryArticles(q Query) ([]StoredArticle, error) {
	if q.Limit <= 0 {
		q.Limit = 100
	}

	var where []string
	var params []interface{}

	if q.TopicID != "" {
		where = append(where, "at.topic_id = ?")
		params = append(params, q.TopicID)
	}
	if q.Source != "" {
		where = append(where, "a.source = ?")
		params = append(params, q.Source)
	}
	if q.MinScore > 0 {
		where = append(where, "at.score >= ?")
		params = append(params, q.MinScore)
	}
	if q.Search != "" {
		where = append(where, "(a.title LIKE ? OR a.summary LIKE ?)")
		like := "%" + q.Search + "%"
		params = append(params, like, like)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT DISTINCT a.id, a.title, a.summary, a.url, a.source,
		        a.category, a.published, a.fetched_at
		 FROM articles a
		 JOIN article_topics at ON a.id = at.article_id
		 %s
		 ORDER BY a.published DESC
		 LIMIT ? OFFSET ?`, whereSQL)
	params = append(params, q.Limit, q.Offset)

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []StoredArticle
	for rows.Next() {
		var a StoredArticle
		var published string
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.URL, &a.Source,
			&a.Category, &published, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			a.Published = t
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	for i := range articles {
		topics, err := r.articleTopics(articles[i].ID)
		if err != nil {
			return nil, err
		}
		articles[i].Topics = topics
	}

	return articles, nil
}

func (r *Repository) articleTopics(articleID string) ([]TopicScore, error) {
	rows, err := r.db.Query(
		"SELECT topic_id, label, score FROM article_topics WHERE article_id = ? ORDER BY score DESC",
		articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("query topics for %s: %w", articleID, err)
	}
	defer rows.Close()

	var topics []TopicScore
	for rows.Next() {
		var t TopicScore
		if err := rows.Scan(&t.TopicID, &t.Label, &t.Score); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Sources returns the distinct source names present in the store.
func (r *Repository) Sources() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT source FROM articles ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// TopicCount is one topic's article count.
type TopicCount struct {
	TopicID string `json:"topic_id"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
}

// Stats reports the total article count and per-topic counts.
func (r *Repository) Stats() (int, []TopicCount, error) {
	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("count articles: %w", err)
	}

	rows, err := r.db.Query(
		`SELECT topic_id, label, COUNT(*) FROM article_topics
		 GROUP BY topic_id ORDER BY COUNT(*) DESC`)
	if err != nil {
		return 0, nil, fmt.Errorf("count by topic: %w", err)
	}
	defer rows.Close()

	var byTopic []TopicCount
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.TopicID, &tc.Label, &tc.Count); err != nil {
			return 0, nil, fmt.Errorf("scan topic count: %w", err)
		}
		byTopic = append(byTopic, tc)
	}
	return total, byTopic, rows.Err()
}
