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
	"github.com/deedledger/deedled/meter"
	"github.com/deedledger/deedled/notify"
	"github.com/deedledger/deedled/storage"
)

// shared ownership move used by both transfer operations
//
// validates authorization, moves the index entry, sets the new owner
// and clears the approvals; NextGrantID is deliberately kept, grant
// ids are never reused even across transfers
//
// performs no billing: the caller decides whether the released
// approval storage is refunded immediately or held pending an
// asynchronous resolution
//
// must be called with the ledger lock held; returns the pre-mutation
// record for rollback and refund accounting
func (l *Ledger) transferOwnership(
	trx *storage.Transaction,
	sender account.Identity,
	receiver account.Identity,
	assetID string,
	expectedGrantID *uint64,
) (*asset.Record, error) {

	record, err := l.fetchRecord(assetID)
	if nil != err {
		return nil, err
	}

	if sender != record.Owner {
		grantID, ok := record.Approvals[sender]
		if !ok {
			return nil, fault.ErrTransferNotAuthorized
		}
		if nil != expectedGrantID && *expectedGrantID != grantID {
			return nil, fault.ErrStaleGrant
		}
	}

	// ownership must strictly change
	if receiver == record.Owner {
		return nil, fault.ErrTransferToSelf
	}

	previous := &asset.Record{
		Owner:        record.Owner,
		Approvals:    record.CopyApprovals(),
		NextGrantID:  record.NextGrantID,
		RoyaltySplit: record.RoyaltySplit,
	}

	trx.Delete(l.store.Pool.OwnerIndex, ownerIndexKey(record.Owner, assetID))
	trx.Put(l.store.Pool.OwnerIndex, ownerIndexKey(receiver, assetID), []byte{})

	record.Owner = receiver
	record.Approvals = make(map[account.Identity]uint64)
	l.saveRecord(trx, assetID, record)

	return previous, nil
}

// Transfer - move an asset to a new owner, terminal
//
// the sender must be the owner or hold an approval, optionally pinned
// to an exact grant id; the storage released by the cleared approvals
// is refunded to the previous owner immediately
func (l *Ledger) Transfer(
	caller account.Identity,
	receiver account.Identity,
	assetID string,
	expectedGrantID *uint64,
	memo string,
	payment uint64,
) error {
	if meter.PaymentSignal != payment {
		return fault.ErrInsufficientPayment
	}
	if err := receiver.Validate(); nil != err {
		return err
	}

	l.Lock()
	defer l.Unlock()

	trx := l.store.NewTransaction()
	previous, err := l.transferOwnership(trx, caller, receiver, assetID, expectedGrantID)
	if nil != err {
		return err
	}

	l.meter.Credit(trx, previous.Owner, asset.BytesForApprovals(previous.Approvals))
	if err := trx.Commit(); nil != err {
		return err
	}
	l.invalidate(assetID)

	l.audit.Append(audit.NewTransfer(authorizedID(caller, previous.Owner), previous.Owner.String(), receiver.String(), assetID, memo))
	l.log.Infof("transfer: %s  %s -> %s", assetID, previous.Owner, receiver)
	return nil
}

// TransferWithNotification - move an asset and let the receiver veto
//
// the ownership move commits first, then the receiver's handler is
// asked; the ledger lock is released while the handler decides, so
// other calls may observe the intermediate state; the resolution step
// re-validates and either keeps or unwinds the transfer
//
// returns true when the transfer was reverted; a failed delivery or
// an unparsable reply is never an error, it is the decline branch
func (l *Ledger) TransferWithNotification(
	caller account.Identity,
	receiver account.Identity,
	assetID string,
	expectedGrantID *uint64,
	memo string,
	message string,
	payment uint64,
) (bool, error) {
	if meter.PaymentSignal != payment {
		return false, fault.ErrInsufficientPayment
	}
	if err := receiver.Validate(); nil != err {
		return false, err
	}

	previous, err := func() (*asset.Record, error) {
		l.Lock()
		defer l.Unlock()

		trx := l.store.NewTransaction()
		previous, err := l.transferOwnership(trx, caller, receiver, assetID, expectedGrantID)
		if nil != err {
			return nil, err
		}
		if err := trx.Commit(); nil != err {
			return nil, err
		}
		l.invalidate(assetID)
		return previous, nil
	}()
	if nil != err {
		return false, err
	}

	authorized := authorizedID(caller, previous.Owner)
	l.audit.Append(audit.NewTransfer(authorized, previous.Owner.String(), receiver.String(), assetID, memo))
	l.log.Infof("transfer pending resolution: %s  %s -> %s", assetID, previous.Owner, receiver)

	// suspension point: the ledger is unlocked while the receiver decides
	reply, deliveryErr := l.notifier.NotifyTransfer(receiver, notify.TransferRequest{
		Sender:        caller,
		PreviousOwner: previous.Owner,
		Asset:         assetID,
		Message:       message,
	})

	l.Lock()
	defer l.Unlock()

	return l.resolveTransfer(authorized, previous.Owner, receiver, assetID, previous.Approvals, memo, reply, deliveryErr), nil
}

// audit field: absent when the owner moved the asset personally
func authorizedID(sender account.Identity, previousOwner account.Identity) string {
	if sender == previousOwner {
		return ""
	}
	return sender.String()
}
