package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/repository"
)

// MeaningRepository implements repository.MeaningRepository for PostgreSQL with pgvector
type MeaningRepository struct {
	db *sqlx.DB
}

// NewMeaningRepository creates a new PostgreSQL meaning search repository
func NewMeaningRepository(db *sqlx.DB) repository.MeaningRepository {
	return &MeaningRepository{db: db}
}

// EnsureSchema creates the pgvector extension and the verse_embeddings table
// with a vector column of the given dimension.
func EnsureSchema(ctx context.Context, db *sqlx.DB, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("ensure meaning schema: invalid dimensions %d", dimensions)
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS verse_embeddings (
			edition TEXT NOT NULL,
			surah_number INTEGER NOT NULL,
			ayah_number INTEGER NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (edition, surah_number, ayah_number)
		)`, dimensions),
		`CREATE INDEX IF NOT EXISTS idx_verse_embeddings_hnsw
			ON verse_embeddings USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure meaning schema: %w", err)
		}
	}
	return nil
}

// SearchVersesByEmbedding performs cosine similarity search on one edition using pgvector
func (r *MeaningRepository) SearchVersesByEmbedding(ctx context.Context, edition string, embedding []float64, topK int) ([]models.ScoredVerse, error) {
	vec := pgvector.NewVector(float32Slice(embedding))

	rows, err := r.db.QueryxContext(ctx, `
		SELECT surah_number, ayah_number, edition, text,
		       1 - (embedding <=> $1::vector) as score
		FROM verse_embeddings
		WHERE edition = $2
		ORDER BY embedding <=> $1::vector
		LIMIT $3
	`, vec, edition, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search verses: %w", err)
	}
	defer rows.Close()

	results := []models.ScoredVerse{}
	for rows.Next() {
		var v models.ScoredVerse
		if err := rows.StructScan(&v); err != nil {
			return nil, fmt.Errorf("scan verse result: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verse results: %w", err)
	}
	return results, nil
}

// UpsertEmbeddings stores verse embeddings in a single transaction
func (r *MeaningRepository) UpsertEmbeddings(ctx context.Context, verses []repository.VerseEmbedding) error {
	if len(verses) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert embeddings: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO verse_embeddings (edition, surah_number, ayah_number, text, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (edition, surah_number, ayah_number) DO UPDATE SET
			text = excluded.text,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert embeddings: %w", err)
	}
	defer stmt.Close()

	for _, v := range verses {
		vec := pgvector.NewVector(float32Slice(v.Embedding))
		if _, err := stmt.ExecContext(ctx, v.Edition, v.SurahNumber, v.AyahNumber, v.Text, vec); err != nil {
			return fmt.Errorf("upsert embedding %d:%d: %w", v.SurahNumber, v.AyahNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert embeddings: %w", err)
	}
	return nil
}

// float32Slice converts []float64 to []float32 for pgvector
func float32Slice(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
