// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deedledger/deedled/asset"
	"github.com/deedledger/deedled/audit"
	"github.com/deedledger/deedled/fault"
)

func TestTransferByOwner(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-own", "alice")

	err := env.ledger.Transfer("alice", "bob", "t-own", nil, "gift", 1)
	assert.Nil(t, err, "transfer error")

	snapshot, ok := env.ledger.GetAsset("t-own")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "bob", snapshot.Owner.String(), "owner after transfer")

	// the index must agree with the record on both sides
	assert.Equal(t, []string{}, env.ledger.AssetsForOwner("alice", 0, 0), "stale index entry")
	assert.Equal(t, []string{"t-own"}, env.ledger.AssetsForOwner("bob", 0, 0), "missing index entry")

	event := env.events.last()
	assert.Equal(t, audit.EventTransfer, event.Kind, "event kind")
	data := event.Data.([]audit.TransferData)
	assert.Equal(t, "", data[0].AuthorizedID, "owner transfer carries no authorized id")
	assert.Equal(t, "alice", data[0].OldOwner, "event old owner")
	assert.Equal(t, "bob", data[0].NewOwner, "event new owner")
	assert.Equal(t, "gift", data[0].Memo, "event memo")
}

func TestTransferByGrantHolder(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-grant", "alice")

	err := env.ledger.Grant("alice", "t-grant", "bob", "", 100)
	assert.Nil(t, err, "grant error")

	err = env.ledger.Transfer("bob", "carol", "t-grant", grantID(0), "", 1)
	assert.Nil(t, err, "grant holder transfer error")

	snapshot, ok := env.ledger.GetAsset("t-grant")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "carol", snapshot.Owner.String(), "owner after transfer")

	data := env.events.last().Data.([]audit.TransferData)
	assert.Equal(t, "bob", data[0].AuthorizedID, "authorized id")
	assert.Equal(t, "alice", data[0].OldOwner, "event old owner")
}

func TestTransferUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-auth", "alice")

	err := env.ledger.Transfer("mallory", "bob", "t-auth", nil, "", 1)
	assert.Equal(t, fault.ErrTransferNotAuthorized, err, "unauthorized transfer")

	snapshot, ok := env.ledger.GetAsset("t-auth")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "alice", snapshot.Owner.String(), "owner changed by rejected transfer")
	assert.Equal(t, []string{"t-auth"}, env.ledger.AssetsForOwner("alice", 0, 0), "index changed by rejected transfer")
}

func TestTransferStaleGrant(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-stale", "alice")

	err := env.ledger.Grant("alice", "t-stale", "bob", "", 100)
	assert.Nil(t, err, "grant error")
	err = env.ledger.Revoke("alice", "t-stale", "bob", 1)
	assert.Nil(t, err, "revoke error")
	err = env.ledger.Grant("alice", "t-stale", "bob", "", 100)
	assert.Nil(t, err, "re-grant error")

	err = env.ledger.Transfer("bob", "carol", "t-stale", grantID(0), "", 1)
	assert.Equal(t, fault.ErrStaleGrant, err, "stale grant id accepted")

	snapshot, ok := env.ledger.GetAsset("t-stale")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "alice", snapshot.Owner.String(), "owner changed on stale grant")

	err = env.ledger.Transfer("bob", "carol", "t-stale", grantID(1), "", 1)
	assert.Nil(t, err, "current grant id rejected")
}

func TestTransferToSelf(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-self", "alice")

	err := env.ledger.Transfer("alice", "alice", "t-self", nil, "", 1)
	assert.Equal(t, fault.ErrTransferToSelf, err, "self transfer")
}

func TestTransferPaymentSignal(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-pay", "alice")

	err := env.ledger.Transfer("alice", "bob", "t-pay", nil, "", 0)
	assert.Equal(t, fault.ErrInsufficientPayment, err, "zero payment")
	err = env.ledger.Transfer("alice", "bob", "t-pay", nil, "", 2)
	assert.Equal(t, fault.ErrInsufficientPayment, err, "excess payment")
}

func TestTransferClearsApprovalsAndRefunds(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "t-clear", "alice")

	err := env.ledger.Grant("alice", "t-clear", "bob", "", 100)
	assert.Nil(t, err, "grant bob error")
	err = env.ledger.Grant("alice", "t-clear", "carol", "", 100)
	assert.Nil(t, err, "grant carol error")

	released := asset.BytesForApproval("bob") + asset.BytesForApproval("carol")
	before := env.ledger.Balance("alice")

	err = env.ledger.Transfer("bob", "dave", "t-clear", nil, "", 1)
	assert.Nil(t, err, "transfer error")

	snapshot, ok := env.ledger.GetAsset("t-clear")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, 0, len(snapshot.Approvals), "approvals survived transfer")
	assert.Equal(t, uint64(2), snapshot.NextGrantID, "grant id sequence reset by transfer")
	assert.Equal(t, before+released, env.ledger.Balance("alice"), "released storage refund")
}

func TestTransferUnknownAsset(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	err := env.ledger.Transfer("alice", "bob", "t-missing", nil, "", 1)
	assert.Equal(t, fault.ErrAssetNotFound, err, "transfer of unknown asset")
}
