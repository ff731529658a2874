// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/asset"
	"github.com/deedledger/deedled/fault"
	"github.com/deedledger/deedled/meter"
	"github.com/deedledger/deedled/notify"
)

// Grant - allow grantee to transfer the asset on the owner's behalf
//
// allocates the asset's next grant id; granting to an already
// approved grantee is idempotent: no new id, no storage growth; a
// non-empty message is delivered to the grantee's handler
// asynchronously, notification only
func (l *Ledger) Grant(caller account.Identity, assetID string, grantee account.Identity, message string, payment uint64) error {
	if payment < meter.PaymentSignal {
		return fault.ErrInsufficientPayment
	}
	if err := grantee.Validate(); nil != err {
		return err
	}

	l.Lock()
	defer l.Unlock()

	record, err := l.fetchRecord(assetID)
	if nil != err {
		return err
	}
	if caller != record.Owner {
		return fault.ErrNotAssetOwner
	}

	grantID, already := record.Approvals[grantee]
	grownBytes := uint64(0)
	if !already {
		grantID = record.NextGrantID
		record.Approvals[grantee] = grantID
		record.NextGrantID += 1
		grownBytes = asset.BytesForApproval(grantee)
	}

	trx := l.store.NewTransaction()
	l.saveRecord(trx, assetID, record)
	if err := l.meter.Bill(trx, caller, payment, grownBytes); nil != err {
		return err
	}
	if err := trx.Commit(); nil != err {
		return err
	}
	l.invalidate(assetID)

	l.log.Debugf("grant: %s  grantee: %s  id: %d  new: %t", assetID, grantee, grantID, !already)

	if "" != message {
		l.notifier.NotifyGrant(grantee, notify.GrantNotice{
			Asset:   assetID,
			Owner:   record.Owner,
			GrantID: grantID,
			Message: message,
		})
	}
	return nil
}

// IsApproved - check whether identity currently holds an approval
//
// with a non-nil expectedGrantID the stored id must match exactly, so
// a caller holding a stale id from before a revoke/re-grant cycle is
// told no
func (l *Ledger) IsApproved(assetID string, id account.Identity, expectedGrantID *uint64) (bool, error) {
	record, err := l.fetchRecord(assetID)
	if nil != err {
		return false, err
	}

	grantID, ok := record.Approvals[id]
	if !ok {
		return false, nil
	}
	if nil != expectedGrantID && *expectedGrantID != grantID {
		return false, nil
	}
	return true, nil
}

// Revoke - remove one grantee's approval
//
// requires exactly the minimal payment signal; the released storage
// is refunded to the caller, not the grantee; revoking an identity
// that was never approved changes nothing
func (l *Ledger) Revoke(caller account.Identity, assetID string, grantee account.Identity, payment uint64) error {
	if meter.PaymentSignal != payment {
		return fault.ErrInsufficientPayment
	}

	l.Lock()
	defer l.Unlock()

	record, err := l.fetchRecord(assetID)
	if nil != err {
		return err
	}
	if caller != record.Owner {
		return fault.ErrNotAssetOwner
	}

	if _, ok := record.Approvals[grantee]; !ok {
		return nil
	}

	delete(record.Approvals, grantee)

	trx := l.store.NewTransaction()
	l.saveRecord(trx, assetID, record)
	l.meter.Credit(trx, caller, asset.BytesForApproval(grantee))
	if err := trx.Commit(); nil != err {
		return err
	}
	l.invalidate(assetID)

	l.log.Debugf("revoke: %s  grantee: %s", assetID, grantee)
	return nil
}

// RevokeAll - clear every approval on an asset in one call
//
// refunds the summed storage of all cleared entries to the caller;
// idempotent when no approvals exist
func (l *Ledger) RevokeAll(caller account.Identity, assetID string, payment uint64) error {
	if meter.PaymentSignal != payment {
		return fault.ErrInsufficientPayment
	}

	l.Lock()
	defer l.Unlock()

	record, err := l.fetchRecord(assetID)
	if nil != err {
		return err
	}
	if caller != record.Owner {
		return fault.ErrNotAssetOwner
	}

	if 0 == len(record.Approvals) {
		return nil
	}

	releasedBytes := asset.BytesForApprovals(record.Approvals)
	record.Approvals = make(map[account.Identity]uint64)

	trx := l.store.NewTransaction()
	l.saveRecord(trx, assetID, record)
	l.meter.Credit(trx, caller, releasedBytes)
	if err := trx.Commit(); nil != err {
		return err
	}
	l.invalidate(assetID)

	l.log.Debugf("revoke all: %s  released: %d bytes", assetID, releasedBytes)
	return nil
}
