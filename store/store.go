// Package store keeps the analysis session in an in-memory SQLite database.
// Papers and their reports live only for the lifetime of the process; a
// sqlite-vec virtual table backs similar-paper ranking when embeddings are
// available.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// ErrNotFound is returned when a paper name is not in the session.
var ErrNotFound = errors.New("store: paper not found")

// Paper is one uploaded document in the session.
type Paper struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	RawText     string `json:"-"`
	CleanText   string `json:"-"`
	ContentHash string `json:"content_hash"`
	Pages       int    `json:"pages"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Creator     string `json:"creator,omitempty"`
	WordCount   int    `json:"word_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Report is one stored analysis result. Payload holds the JSON-encoded
// section map; Error is set instead when the analysis failed upstream.
type Report struct {
	PaperID       int64  `json:"paper_id"`
	Kind          string `json:"kind"`
	SchemaVersion int    `json:"schema_version"`
	Payload       string `json:"payload,omitempty"`
	Error         string `json:"error,omitempty"`
	Model         string `json:"model,omitempty"`
	TotalTokens   int    `json:"total_tokens,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// SimilarPaper is one neighbor from the embedding index.
type SimilarPaper struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Store wraps the session database.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// dbSeq distinguishes the in-memory databases of stores opened in the same
// process.
var dbSeq atomic.Int64

// New opens an in-memory SQLite database and initialises the session
// schema including the sqlite-vec virtual table.
func New(embeddingDim int) (*Store, error) {
	// A shared cache keeps every pooled connection on the same in-memory
	// database; without it each connection would see its own empty one.
	// The name must still be unique per store, or every store in the
	// process would alias one session.
	dsn := fmt.Sprintf("file:session%d?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000", dbSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, embeddingDim: embeddingDim}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EmbeddingDim returns the configured embedding dimension.
func (s *Store) EmbeddingDim() int {
	return s.embeddingDim
}

// --- Paper operations ---

// UpsertPaper inserts or replaces a paper by name and returns its ID.
// Re-uploading a name wipes the previous reports, metrics and embedding so
// stale analyses cannot outlive the text they were computed from.
func (s *Store) UpsertPaper(ctx context.Context, p Paper) (int64, error) {
	hash := sha256.Sum256([]byte(p.RawText))
	contentHash := hex.EncodeToString(hash[:])

	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM papers WHERE name = ?", p.Name).Scan(&existing)
		switch {
		case err == nil:
			for _, q := range []string{
				"DELETE FROM reports WHERE paper_id = ?",
				"DELETE FROM metrics WHERE paper_id = ?",
				"DELETE FROM vec_papers WHERE paper_id = ?",
			} {
				if _, err := tx.ExecContext(ctx, q, existing); err != nil {
					return err
				}
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE papers SET raw_text = ?, clean_text = ?, content_hash = ?,
					pages = ?, title = ?, author = ?, creator = ?, word_count = ?,
					updated_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, p.RawText, p.CleanText, contentHash, p.Pages, p.Title, p.Author, p.Creator, p.WordCount, existing); err != nil {
				return err
			}
			id = existing
			return nil
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx, `
				INSERT INTO papers (name, raw_text, clean_text, content_hash, pages, title, author, creator, word_count)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, p.Name, p.RawText, p.CleanText, contentHash, p.Pages, p.Title, p.Author, p.Creator, p.WordCount)
			if err != nil {
				return err
			}
			id, err = res.LastInsertId()
			return err
		default:
			return err
		}
	})
	return id, err
}

// GetPaper retrieves a paper by name, including its text.
func (s *Store) GetPaper(ctx context.Context, name string) (*Paper, error) {
	p := &Paper{}
	var title, author, creator sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, raw_text, clean_text, content_hash, pages, title, author, creator, word_count, created_at, updated_at
		FROM papers WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &p.RawText, &p.CleanText, &p.ContentHash,
		&p.Pages, &title, &author, &creator, &p.WordCount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	p.Title = title.String
	p.Author = author.String
	p.Creator = creator.String
	return p, nil
}

// ListPapers returns all session papers, newest first, without text bodies.
func (s *Store) ListPapers(ctx context.Context) ([]Paper, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content_hash, pages, title, author, creator, word_count, created_at, updated_at
		FROM papers ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []Paper
	for rows.Next() {
		var p Paper
		var title, author, creator sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.ContentHash, &p.Pages,
			&title, &author, &creator, &p.WordCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Title = title.String
		p.Author = author.String
		p.Creator = creator.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// DeletePaper removes a paper and everything derived from it.
func (s *Store) DeletePaper(ctx context.Context, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM papers WHERE name = ?", name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return err
		}
		// vec0 tables have no foreign keys; clean up explicitly.
		if _, err := tx.ExecContext(ctx, "DELETE FROM vec_papers WHERE paper_id = ?", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id)
		return err
	})
}

// --- Report operations ---

// PutReport stores or replaces one analysis report for a paper.
func (s *Store) PutReport(ctx context.Context, r Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (paper_id, kind, schema_version, payload, error, model, total_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(paper_id, kind) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload,
			error = excluded.error,
			model = excluded.model,
			total_tokens = excluded.total_tokens,
			created_at = CURRENT_TIMESTAMP
	`, r.PaperID, r.Kind, r.SchemaVersion, r.Payload, nullable(r.Error), nullable(r.Model), r.TotalTokens)
	return err
}

// GetReports returns all reports for a paper keyed by kind.
func (s *Store) GetReports(ctx context.Context, paperID int64) (map[string]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, kind, schema_version, payload, error, model, total_tokens, created_at
		FROM reports WHERE paper_id = ?
	`, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := map[string]Report{}
	for rows.Next() {
		var r Report
		var errText, model sql.NullString
		if err := rows.Scan(&r.PaperID, &r.Kind, &r.SchemaVersion, &r.Payload,
			&errText, &model, &r.TotalTokens, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Error = errText.String
		r.Model = model.String
		reports[r.Kind] = r
	}
	return reports, rows.Err()
}

// --- Metric operations ---

// PutMetrics stores or replaces the JSON metric profile of a paper.
func (s *Store) PutMetrics(ctx context.Context, paperID int64, payload string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (paper_id, payload) VALUES (?, ?)
		ON CONFLICT(paper_id) DO UPDATE SET payload = excluded.payload
	`, paperID, payload)
	return err
}

// GetMetrics returns the stored metric profile, or "" when none exists.
func (s *Store) GetMetrics(ctx context.Context, paperID int64) (string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM metrics WHERE paper_id = ?", paperID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return payload, err
}

// --- Embedding operations ---

// PutEmbedding stores or replaces the embedding of a paper.
func (s *Store) PutEmbedding(ctx context.Context, paperID int64, embedding []float32) error {
	if len(embedding) != s.embeddingDim {
		return fmt.Errorf("embedding dimension %d, store configured for %d", len(embedding), s.embeddingDim)
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		// vec0 has no upsert; delete-then-insert.
		if _, err := tx.ExecContext(ctx, "DELETE FROM vec_papers WHERE paper_id = ?", paperID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO vec_papers (paper_id, embedding) VALUES (?, ?)",
			paperID, serializeFloat32(embedding))
		return err
	})
}

// GetEmbedding returns the stored embedding of a paper, or nil when the
// paper has none.
func (s *Store) GetEmbedding(ctx context.Context, paperID int64) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT embedding FROM vec_papers WHERE paper_id = ?", paperID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return deserializeFloat32(blob), nil
}

// SimilarPapers returns up to k session papers nearest to the given
// embedding, excluding excludeID. Score is 1 − distance.
func (s *Store) SimilarPapers(ctx context.Context, embedding []float32, k int, excludeID int64) ([]SimilarPaper, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, v.distance
		FROM vec_papers v
		JOIN papers p ON p.id = v.paper_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(embedding), k+1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SimilarPaper
	for rows.Next() {
		var sp SimilarPaper
		var distance float64
		var name string
		if err := rows.Scan(&name, &distance); err != nil {
			return nil, err
		}
		sp.Name = name
		sp.Score = 1.0 - distance
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query paper itself ranks first; filter it by name lookup.
	if excludeID > 0 {
		var self string
		if err := s.db.QueryRowContext(ctx,
			"SELECT name FROM papers WHERE id = ?", excludeID).Scan(&self); err == nil {
			filtered := out[:0]
			for _, sp := range out {
				if sp.Name != self {
					filtered = append(filtered, sp)
				}
			}
			out = filtered
		}
	}
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// --- Stats ---

// Stats summarizes session contents.
type Stats struct {
	Papers     int `json:"papers"`
	Reports    int `json:"reports"`
	Embeddings int `json:"embeddings"`
}

// GetStats returns row counts for the session.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	for _, q := range []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM papers", &stats.Papers},
		{"SELECT COUNT(*) FROM reports", &stats.Reports},
		{"SELECT COUNT(*) FROM vec_papers", &stats.Embeddings},
	} {
		if err := s.db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// --- Internal ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// serializeFloat32 encodes a vector in the little-endian layout sqlite-vec
// expects.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func deserializeFloat32(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
