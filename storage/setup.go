// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"reflect"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_errors "github.com/syndtr/goleveldb/leveldb/errors"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Assets     *PoolHandle `prefix:"A"`
	OwnerIndex *PoolHandle `prefix:"D"`
	Funds      *PoolHandle `prefix:"F"`
	Metadata   *PoolHandle `prefix:"M"`
}

// Store - a set of pools over one database
//
// each Ledger instance owns exactly one Store so tests can build
// isolated ledgers side by side
type Store struct {
	Pool pools

	db *leveldb.DB
}

// Open - open up the database connection
func Open(database string) (*Store, error) {
	db, err := leveldb.OpenFile(database, nil)
	if nil != err {
		if _, corrupted := err.(*ldb_errors.ErrCorrupted); !corrupted {
			return nil, err
		}
		db, err = leveldb.RecoverFile(database, nil)
		if nil != err {
			return nil, err
		}
	}
	return newStore(db), nil
}

// OpenMemory - open an in-memory database
//
// for tests: same pool layout without touching the filesystem
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newStore(db), nil
}

// assign prefixes to all pool handles
func newStore(db *leveldb.DB) *Store {
	store := &Store{db: db}

	poolType := reflect.TypeOf(store.Pool)
	poolValue := reflect.ValueOf(&store.Pool).Elem()

	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)
		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			panic("storage: pool " + fieldInfo.Name + " has invalid prefix: " + prefixTag)
		}
		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}
		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			db:     db,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	return store
}

// NewTransaction - start collecting updates for a single atomic commit
func (s *Store) NewTransaction() *Transaction {
	return &Transaction{
		db:       s.db,
		batch:    new(leveldb.Batch),
		counters: make(map[string]uint64),
	}
}

// Close - close the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
