// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
)

// Transaction - a batch of pool updates committed as one unit
//
// an abandoned transaction simply discards its batch, leaving the
// database untouched
//
// counter values written by PutN are additionally kept readable
// through PendingN, as the underlying batch is write-only
type Transaction struct {
	db       *leveldb.DB
	batch    *leveldb.Batch
	counters map[string]uint64
}

// Put - store a key/value bytes pair
func (t *Transaction) Put(p *PoolHandle, key []byte, value []byte) {
	prefixedKey := p.prefixKey(key)
	delete(t.counters, string(prefixedKey))
	t.batch.Put(prefixedKey, value)
}

// PutN - store an 8 byte big endian value
func (t *Transaction) PutN(p *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	prefixedKey := p.prefixKey(key)
	t.counters[string(prefixedKey)] = value
	t.batch.Put(prefixedKey, buffer)
}

// PendingN - read back a counter already written by PutN in this
// transaction
//
// second parameter is false if no PutN for the key was collected
func (t *Transaction) PendingN(p *PoolHandle, key []byte) (uint64, bool) {
	value, ok := t.counters[string(p.prefixKey(key))]
	return value, ok
}

// Delete - remove a key
func (t *Transaction) Delete(p *PoolHandle, key []byte) {
	prefixedKey := p.prefixKey(key)
	delete(t.counters, string(prefixedKey))
	t.batch.Delete(prefixedKey)
}

// Commit - atomically apply all collected updates
func (t *Transaction) Commit() error {
	return t.db.Write(t.batch, nil)
}
