// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metadata - descriptive asset fields
//
// a collaborator of the ledger core: written once on the mint path
// and read back only to assemble asset snapshots; the core never
// interprets the fields
package metadata

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/deedledger/deedled/storage"
)

// Data - descriptive fields of one asset
type Data struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Media       string `json:"media,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// Store - metadata collaborator interface consumed by the ledger core
type Store interface {
	Get(assetID string) (*Data, bool)
	Put(trx *storage.Transaction, assetID string, data *Data) uint64
}

// PoolStore - metadata held in a storage pool
type PoolStore struct {
	log  *logger.L
	pool *storage.PoolHandle
}

// NewPoolStore - create a store over a metadata pool
func NewPoolStore(pool *storage.PoolHandle) *PoolStore {
	return &PoolStore{
		log:  logger.New("metadata"),
		pool: pool,
	}
}

// Get - read metadata for an asset
func (s *PoolStore) Get(assetID string) (*Data, bool) {
	buffer := s.pool.Get([]byte(assetID))
	if nil == buffer {
		return nil, false
	}
	data := &Data{}
	if err := json.Unmarshal(buffer, data); nil != err {
		s.log.Errorf("corrupt metadata for asset: %s  error: %s", assetID, err)
		return nil, false
	}
	return data, true
}

// Put - store metadata inside the caller's transaction
//
// returns the number of bytes persisted so the caller can meter them
func (s *PoolStore) Put(trx *storage.Transaction, assetID string, data *Data) uint64 {
	if nil == data {
		return 0
	}
	buffer, err := json.Marshal(data)
	logger.PanicIfError("metadata.Put", err)
	trx.Put(s.pool, []byte(assetID), buffer)
	return uint64(len(assetID) + len(buffer))
}
