package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the news tracker schema. Engine output is deliberately not
// persisted; only news articles survive a restart.
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		summary     TEXT,
		url         TEXT NOT NULL,
		source      TEXT,
		category    TEXT,
		published   TEXT,
		fetched_at  TEXT
	);

	CREATE TABLE IF NOT EXISTS article_topics (
		article_id  TEXT NOT NULL,
		topic_id    TEXT NOT NULL,
		label       TEXT,
		score       INTEGER,
		PRIMARY KEY (article_id, topic_id),
		FOREIGN KEY (article_id) REFERENCES articles(id)
	);

	CREATE INDEX IF NOT EXISTS idx_articles_published
		ON articles(published DESC);
	CREATE INDEX IF NOT EXISTS idx_article_topics_topic
		ON article_topics(topic_id);
	CREATE INDEX IF NOT EXISTS idx_article_topics_score
		ON article_topics(score DESC);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}
