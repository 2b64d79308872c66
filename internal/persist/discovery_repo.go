package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thoracle/starcharts/internal/discovery"
)

// DiscoveryRepo persists discovery records. ON CONFLICT DO NOTHING keeps
// the first-discovery-wins invariant at the database as well: a record
// already on disk is never rewritten by a later save.
type DiscoveryRepo struct {
	db *DB
}

func NewDiscoveryRepo(db *DB) *DiscoveryRepo {
	return &DiscoveryRepo{db: db}
}

// SaveRecords writes a batch of records in one round trip.
func (r *DiscoveryRepo) SaveRecords(ctx context.Context, recs []*discovery.Record) error {
	if len(recs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(
			`INSERT INTO discoveries (object_id, discovered_at, method, source)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (object_id) DO NOTHING`,
			rec.ObjectID, rec.DiscoveredAt, rec.Method, rec.Source,
		)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range recs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save discovery batch: %w", err)
		}
	}
	return nil
}

// LoadAll restores every persisted record, for session start.
func (r *DiscoveryRepo) LoadAll(ctx context.Context) ([]discovery.Record, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT object_id, discovered_at, method, source FROM discoveries`)
	if err != nil {
		return nil, fmt.Errorf("load discoveries: %w", err)
	}
	defer rows.Close()

	var recs []discovery.Record
	for rows.Next() {
		var rec discovery.Record
		if err := rows.Scan(&rec.ObjectID, &rec.DiscoveredAt, &rec.Method, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan discovery row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discoveries: %w", err)
	}
	return recs, nil
}

// Reset deletes every persisted record. Debug/session-reset path.
func (r *DiscoveryRepo) Reset(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM discoveries`); err != nil {
		return fmt.Errorf("reset discoveries: %w", err)
	}
	return nil
}
