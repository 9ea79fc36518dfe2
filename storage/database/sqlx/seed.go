package sqlxrepos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/trezcool/wanyama/core/seed"
)

// seedStore persists snapshot records as documents: one table per
// collection, identifier + jsonb payload.
type seedStore struct {
	db *sqlx.DB
}

var _ seed.Store = (*seedStore)(nil) // interface compliance check

func NewSeedStore(db *sqlx.DB) *seedStore {
	return &seedStore{db: db}
}

func (st seedStore) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(collection))
	if err := st.db.GetContext(ctx, &n, q); err != nil {
		return 0, errors.Wrapf(err, "counting %s", collection)
	}
	return n, nil
}

func (st seedStore) DeleteAll(ctx context.Context, collection string) (int64, error) {
	q := fmt.Sprintf("DELETE FROM %s", pq.QuoteIdentifier(collection))
	res, err := st.db.ExecContext(ctx, q)
	if err != nil {
		return 0, errors.Wrapf(err, "clearing %s", collection)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "clearing %s", collection)
	}
	return n, nil
}

func (st seedStore) InsertIfAbsent(ctx context.Context, collection, id string, rec seed.Record) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, errors.Wrapf(err, "encoding %s record %s", collection, id)
	}

	// existing identifiers are left untouched, never merged
	q := fmt.Sprintf(
		"INSERT INTO %s (id, data) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING",
		pq.QuoteIdentifier(collection),
	)
	res, err := st.db.ExecContext(ctx, q, id, types.JSON(data))
	if err != nil {
		return false, errors.Wrapf(err, "inserting %s record %s", collection, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "inserting %s record %s", collection, id)
	}
	return n > 0, nil
}
