// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - the actual prefixed sub-pool of the database
type PoolHandle struct {
	prefix byte
	limit  []byte
	db     *leveldb.DB
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a value for a given key
//
// this returns the actual element - copy the result if it must be preserved
func (p *PoolHandle) Get(key []byte) []byte {
	value, err := p.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
// panics if not 8 (or more) bytes in the record
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	buffer := p.Get(key)
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panicf("pool.GetN truncated record for: %x: %x", key, buffer)
	}
	n := binary.BigEndian.Uint64(buffer[:8])
	return n, true
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	value, err := p.db.Has(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// Scan - iterate over all keys starting with prefix in ascending order
//
// skips the first "skip" matches, then visits up to "limit" entries
// (zero or negative limit means no limit); the callback receives the
// key with the argument prefix stripped and returns false to stop
// early
func (p *PoolHandle) Scan(prefix []byte, skip uint64, limit int, f func(key []byte, value []byte) bool) {
	start := p.prefixKey(prefix)
	scanRange := ldb_util.Range{
		Start: start,
		Limit: upperBound(start, p.limit),
	}

	iter := p.db.NewIterator(&scanRange, nil)

	visited := 0
	for iter.Next() {
		if skip > 0 {
			skip -= 1
			continue
		}
		if limit > 0 && visited >= limit {
			break
		}
		visited += 1

		// contents of the returned slices must not be modified, and
		// are only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-len(start))
		copy(dataKey, key[len(start):])

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		if !f(dataKey, dataValue) {
			break
		}
	}
	iter.Release()
	logger.PanicIfError("pool.Scan", iter.Error())
}

// Count - number of keys currently stored under a prefix
func (p *PoolHandle) Count(prefix []byte) uint64 {
	n := uint64(0)
	p.Scan(prefix, 0, 0, func(key []byte, value []byte) bool {
		n += 1
		return true
	})
	return n
}

// smallest key strictly greater than every key starting with start
//
// fallback is the pool's own upper limit for the all-0xff case
func upperBound(start []byte, fallback []byte) []byte {
	bound := make([]byte, len(start))
	copy(bound, start)
	for i := len(bound) - 1; i >= 0; i -= 1 {
		if bound[i] < 0xff {
			bound[i] += 1
			return bound[:i+1]
		}
	}
	return fallback
}
