package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/store"
)

const defaultDocumentID = "gameshop"

// Store persists the snapshot as a single jsonb row. The document
// granularity is deliberate: the store contract is whole-snapshot
// overwrite, and splitting it into relational rows would change the
// last-writer-wins semantics the terminals rely on.
type Store struct {
	pool       *pgxpool.Pool
	documentID string
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{pool: pool, documentID: defaultDocumentID}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pos_snapshots (
			id         TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create pos_snapshots: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM pos_snapshots WHERE id = $1`, s.documentID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select snapshot: %v", store.ErrPersistence, err)
	}
	return store.DecodeDocument(data)
}

func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := store.EncodeDocument(snap)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO pos_snapshots (id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		s.documentID, data)
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %v", store.ErrPersistence, err)
	}
	return nil
}
