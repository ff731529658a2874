// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/asset"
	"github.com/deedledger/deedled/audit"
	"github.com/deedledger/deedled/fault"
	"github.com/deedledger/deedled/metadata"
	"github.com/deedledger/deedled/meter"
	"github.com/deedledger/deedled/notify"
	"github.com/deedledger/deedled/storage"
	"github.com/deedledger/deedled/util"
)

// snapshot cache tuning
const (
	snapshotExpiry        = time.Minute
	snapshotSweepInterval = 5 * time.Minute
)

// default page size for owner enumeration
const defaultEnumerationLimit = 50

// length limit for asset identifiers
const maxAssetIDLength = 255

// Ledger - one ledger instance over one storage store
//
// all operations are methods on the instance so tests can construct
// isolated ledgers side by side; there is no ambient global state
type Ledger struct {
	sync.Mutex

	log       *logger.L
	store     *storage.Store
	meter     *meter.Meter
	metadata  metadata.Store
	notifier  *notify.Registry
	audit     audit.Sink
	snapshots *gocache.Cache
}

// New - assemble a ledger from its collaborators
func New(
	store *storage.Store,
	m *meter.Meter,
	metadataStore metadata.Store,
	notifier *notify.Registry,
	sink audit.Sink,
) *Ledger {
	return &Ledger{
		log:       logger.New("ledger"),
		store:     store,
		meter:     m,
		metadata:  metadataStore,
		notifier:  notifier,
		audit:     sink,
		snapshots: gocache.New(snapshotExpiry, snapshotSweepInterval),
	}
}

// AssetSnapshot - read-only view of one asset assembled for callers
type AssetSnapshot struct {
	AssetID      string                      `json:"assetId"`
	Owner        account.Identity            `json:"owner"`
	Approvals    map[account.Identity]uint64 `json:"approvals"`
	NextGrantID  uint64                      `json:"nextGrantId"`
	RoyaltySplit map[account.Identity]uint32 `json:"royaltySplit"`
	Metadata     *metadata.Data              `json:"metadata,omitempty"`
}

// GetAsset - current state of an asset, or false if it does not exist
func (l *Ledger) GetAsset(assetID string) (*AssetSnapshot, bool) {
	if cached, ok := l.snapshots.Get(assetID); ok {
		return cached.(*AssetSnapshot), true
	}

	record, err := l.fetchRecord(assetID)
	if nil != err {
		return nil, false
	}
	meta, _ := l.metadata.Get(assetID)

	snapshot := &AssetSnapshot{
		AssetID:      assetID,
		Owner:        record.Owner,
		Approvals:    record.Approvals,
		NextGrantID:  record.NextGrantID,
		RoyaltySplit: record.RoyaltySplit,
		Metadata:     meta,
	}
	l.snapshots.Set(assetID, snapshot, gocache.DefaultExpiration)
	return snapshot, true
}

// CountForOwner - number of assets currently owned by an identity
func (l *Ledger) CountForOwner(owner account.Identity) uint64 {
	return l.store.Pool.OwnerIndex.Count(ownerPrefix(owner))
}

// AssetsForOwner - paginated list of asset ids owned by an identity
//
// from is the number of entries to skip; limit defaults when zero or
// negative
func (l *Ledger) AssetsForOwner(owner account.Identity, from uint64, limit int) []string {
	if limit <= 0 {
		limit = defaultEnumerationLimit
	}

	assetIDs := []string{}
	l.store.Pool.OwnerIndex.Scan(ownerPrefix(owner), from, limit, func(key []byte, value []byte) bool {
		assetIDs = append(assetIDs, string(key))
		return true
	})
	return assetIDs
}

// TotalAssets - number of assets ever minted and still present
func (l *Ledger) TotalAssets() uint64 {
	return l.store.Pool.Assets.Count(nil)
}

// Assets - paginated list of all asset ids in id order
func (l *Ledger) Assets(from uint64, limit int) []string {
	if limit <= 0 {
		limit = defaultEnumerationLimit
	}

	assetIDs := []string{}
	l.store.Pool.Assets.Scan(nil, from, limit, func(key []byte, value []byte) bool {
		assetIDs = append(assetIDs, string(key))
		return true
	})
	return assetIDs
}

// Balance - accumulated funds (metering refunds and credits) of an identity
func (l *Ledger) Balance(id account.Identity) uint64 {
	return l.meter.Balance(id)
}

// read and decode an asset record
func (l *Ledger) fetchRecord(assetID string) (*asset.Record, error) {
	packed := l.store.Pool.Assets.Get([]byte(assetID))
	if nil == packed {
		return nil, fault.ErrAssetNotFound
	}
	record, err := asset.Unpack(packed)
	if nil != err {
		l.log.Criticalf("corrupt record for asset: %s", assetID)
		return nil, err
	}
	return record, nil
}

// write an asset record into a transaction
func (l *Ledger) saveRecord(trx *storage.Transaction, assetID string, record *asset.Record) {
	trx.Put(l.store.Pool.Assets, []byte(assetID), record.Pack())
}

// drop a cached snapshot after a mutation
func (l *Ledger) invalidate(assetID string) {
	l.snapshots.Delete(assetID)
}

// key of one ownership index entry
//
// the owner component is length prefixed so that one owner's prefix
// can never alias another owner's longer identity
func ownerIndexKey(owner account.Identity, assetID string) []byte {
	key := ownerPrefix(owner)
	return append(key, assetID...)
}

// common prefix of all index entries of one owner
func ownerPrefix(owner account.Identity) []byte {
	prefix := util.ToVarint64(uint64(len(owner)))
	return append(prefix, owner.Bytes()...)
}

// mint-path asset id check; all other operations simply fail to find
// an invalid id
func validateAssetID(assetID string) error {
	if "" == assetID || len(assetID) > maxAssetIDLength {
		return fault.ErrInvalidAssetID
	}
	return nil
}
