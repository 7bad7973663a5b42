package store

import "fmt"

// schemaSQL returns the DDL for the session tables. embeddingDim controls
// the vec0 virtual table dimension.
func schemaSQL(embeddingDim int) string {
	return fmt.Sprintf(`
-- Uploaded papers, keyed by upload name
CREATE TABLE IF NOT EXISTS papers (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    raw_text TEXT NOT NULL,
    clean_text TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    pages INTEGER,
    title TEXT,
    author TEXT,
    creator TEXT,
    word_count INTEGER,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per analysis kind per paper; payload is the JSON section map
CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY,
    paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    schema_version INTEGER NOT NULL DEFAULT 0,
    payload JSON NOT NULL,
    error TEXT,
    model TEXT,
    total_tokens INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(paper_id, kind)
);

-- Local text-metric profiles, one JSON blob per paper
CREATE TABLE IF NOT EXISTS metrics (
    paper_id INTEGER PRIMARY KEY REFERENCES papers(id) ON DELETE CASCADE,
    payload JSON NOT NULL
);

-- Paper embeddings via sqlite-vec, for in-session similarity ranking
CREATE VIRTUAL TABLE IF NOT EXISTS vec_papers USING vec0(
    paper_id INTEGER PRIMARY KEY,
    embedding float[%d]
);
`, embeddingDim)
}
