// Package retrieval provides the semantic-search collaborator used by the
// knowledge and follow-up tools. Index population is handled by a separate
// ingestion job; this package only queries.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// Passage is one retrieved snippet with its similarity score.
type Passage struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score"`
}

// Searcher is the retrieval contract consumed by the tools.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PgVectorIndex searches the hotel_documents table by cosine distance.
type PgVectorIndex struct {
	pool     *pgxpool.Pool
	embedder Embedder
	logger   *zap.Logger
}

func NewPgVectorIndex(pool *pgxpool.Pool, embedder Embedder, logger *zap.Logger) *PgVectorIndex {
	return &PgVectorIndex{pool: pool, embedder: embedder, logger: logger}
}

func (i *PgVectorIndex) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	vec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := i.pool.Query(ctx, `
		SELECT content, source, 1 - (embedding <=> $1) AS score
		FROM hotel_documents
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(vec), k,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.Content, &p.Source, &p.Score); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	i.logger.Debug("vector search complete", zap.String("query", query), zap.Int("hits", len(passages)))
	return passages, nil
}
