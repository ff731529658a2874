// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/asset"
	"github.com/deedledger/deedled/audit"
)

// resolveTransfer - finalise or unwind a notified transfer
//
// entered exactly once per TransferWithNotification after the
// notification settled; must be called with the ledger lock held;
// returns the single outcome: true = reverted, false = kept
//
// the receiver's reply must decode as a JSON boolean where true
// requests the asset back; a failed delivery or an unparsable reply
// counts as a decline, the receiver bears the risk of answering
// garbage
//
// the unwind re-validates the current state instead of assuming it is
// unchanged: the asset may have been moved again, or disappeared,
// while the lock was released
func (l *Ledger) resolveTransfer(
	authorized string,
	previousOwner account.Identity,
	receiver account.Identity,
	assetID string,
	previousApprovals map[account.Identity]uint64,
	memo string,
	reply []byte,
	deliveryErr error,
) bool {

	releasedBytes := asset.BytesForApprovals(previousApprovals)

	revert := true
	if nil == deliveryErr {
		var returnAsset bool
		if err := json.Unmarshal(reply, &returnAsset); nil == err {
			revert = returnAsset
		} else {
			l.log.Warnf("unparsable reply for asset: %s  reply: %q", assetID, reply)
		}
	} else {
		l.log.Warnf("notification failed for asset: %s  error: %s", assetID, deliveryErr)
	}

	if !revert {
		// transfer stands: release the withheld approval refund
		l.creditReleased(previousOwner, releasedBytes)
		l.log.Infof("transfer kept: %s  owner: %s", assetID, receiver)
		return false
	}

	record, err := l.fetchRecord(assetID)
	if nil != err {
		// already resolved elsewhere, nothing to undo
		l.creditReleased(previousOwner, releasedBytes)
		l.log.Warnf("revert requested but asset is gone: %s", assetID)
		return false
	}

	if receiver != record.Owner {
		// moved on in the meantime, cannot safely unwind the chain
		l.creditReleased(previousOwner, releasedBytes)
		l.log.Warnf("revert requested but asset moved on: %s  owner: %s", assetID, record.Owner)
		return false
	}

	trx := l.store.NewTransaction()
	trx.Delete(l.store.Pool.OwnerIndex, ownerIndexKey(receiver, assetID))
	trx.Put(l.store.Pool.OwnerIndex, ownerIndexKey(previousOwner, assetID), []byte{})

	record.Owner = previousOwner

	// refund any approvals the receiver set while holding the asset
	l.meter.Credit(trx, receiver, asset.BytesForApprovals(record.Approvals))

	// restore the pre-transfer approval state, except for the grant
	// that authorized the transfer: that one was consumed, so its
	// storage is released back to the previous owner instead
	if "" != authorized {
		consumed := account.Identity(authorized)
		if _, ok := previousApprovals[consumed]; ok {
			delete(previousApprovals, consumed)
			l.meter.Credit(trx, previousOwner, asset.BytesForApproval(consumed))
		}
	}
	record.Approvals = previousApprovals

	l.saveRecord(trx, assetID, record)
	logger.PanicIfError("ledger.resolveTransfer", trx.Commit())
	l.invalidate(assetID)

	l.audit.Append(audit.NewTransfer(authorized, receiver.String(), previousOwner.String(), assetID, memo))
	l.log.Infof("transfer reverted: %s  owner: %s", assetID, previousOwner)
	return true
}

// refund released approval storage outside of any mutation batch
func (l *Ledger) creditReleased(payee account.Identity, releasedBytes uint64) {
	if 0 == releasedBytes {
		return
	}
	trx := l.store.NewTransaction()
	l.meter.Credit(trx, payee, releasedBytes)
	logger.PanicIfError("ledger.creditReleased", trx.Commit())
}
