// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/asset"
	"github.com/deedledger/deedled/audit"
	"github.com/deedledger/deedled/fault"
	"github.com/deedledger/deedled/metadata"
	"github.com/deedledger/deedled/meter"
)

// Mint - create a new asset owned by owner
//
// the caller pays for all bytes the mint persists: record, ownership
// index entry and metadata; any surplus payment is returned to the
// caller's funds balance; the memo is carried on the audit event only
func (l *Ledger) Mint(
	caller account.Identity,
	assetID string,
	owner account.Identity,
	meta *metadata.Data,
	royalty map[account.Identity]uint32,
	memo string,
	payment uint64,
) error {
	if err := caller.Validate(); nil != err {
		return err
	}
	if err := owner.Validate(); nil != err {
		return err
	}
	if err := validateAssetID(assetID); nil != err {
		return err
	}
	if len(royalty) > asset.MaximumRoyaltySplits {
		return fault.ErrTooManyRoyaltySplits
	}
	for id := range royalty {
		if err := id.Validate(); nil != err {
			return err
		}
	}

	l.Lock()
	defer l.Unlock()

	if l.store.Pool.Assets.Has([]byte(assetID)) {
		return fault.ErrAssetAlreadyExists
	}

	record := asset.NewRecord(owner, royalty)
	packed := record.Pack()
	indexKey := ownerIndexKey(owner, assetID)

	trx := l.store.NewTransaction()
	trx.Put(l.store.Pool.Assets, []byte(assetID), packed)
	trx.Put(l.store.Pool.OwnerIndex, indexKey, []byte{})
	metaBytes := l.metadata.Put(trx, assetID, meta)

	grownBytes := uint64(meter.Measure(0, uint64(len(assetID)+len(packed)+len(indexKey))+metaBytes))
	if err := l.meter.Bill(trx, caller, payment, grownBytes); nil != err {
		return err
	}

	if err := trx.Commit(); nil != err {
		return err
	}
	l.invalidate(assetID)

	l.audit.Append(audit.NewMint(owner.String(), assetID, memo))
	l.log.Infof("minted: %s  owner: %s", assetID, owner)
	return nil
}
