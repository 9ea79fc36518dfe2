package dummydb

import (
	"sync"

	"github.com/trezcool/wanyama/core/seed"
	"github.com/trezcool/wanyama/core/user"
)

type (
	DB struct {
		collections *collectionTables
		user        *userTable
	}

	collectionTables struct {
		sync.RWMutex
		tables map[string]map[string]seed.Record
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		collections: &collectionTables{tables: make(map[string]map[string]seed.Record)},
		user:        &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}
