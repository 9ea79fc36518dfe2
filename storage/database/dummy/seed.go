package dummydb

import (
	"context"

	"github.com/trezcool/wanyama/core/seed"
)

type seedStore struct {
	db *collectionTables
}

var _ seed.Store = (*seedStore)(nil) // interface compliance check

func NewSeedStore(db *DB) *seedStore {
	return &seedStore{db: db.collections}
}

func (st *seedStore) table(collection string) map[string]seed.Record {
	tbl, ok := st.db.tables[collection]
	if !ok {
		tbl = make(map[string]seed.Record)
		st.db.tables[collection] = tbl
	}
	return tbl
}

func (st *seedStore) Count(_ context.Context, collection string) (int64, error) {
	st.db.RLock()
	defer st.db.RUnlock()
	return int64(len(st.db.tables[collection])), nil
}

func (st *seedStore) DeleteAll(_ context.Context, collection string) (int64, error) {
	st.db.Lock()
	defer st.db.Unlock()

	n := int64(len(st.db.tables[collection]))
	delete(st.db.tables, collection)
	return n, nil
}

func (st *seedStore) InsertIfAbsent(_ context.Context, collection, id string, rec seed.Record) (bool, error) {
	st.db.Lock()
	defer st.db.Unlock()

	tbl := st.table(collection)
	if _, ok := tbl[id]; ok {
		return false, nil
	}
	tbl[id] = rec
	return true, nil
}
