// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/deedledger/deedled/asset"
	"github.com/deedledger/deedled/audit"
	"github.com/deedledger/deedled/notify"
	"github.com/deedledger/deedled/notify/mocks"
)

func TestNotifiedTransferKept(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-keep", "alice")

	released := asset.BytesForApproval("bob")
	err := env.ledger.Grant("alice", "n-keep", "bob", "", released)
	assert.Nil(t, err, "grant error")

	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			assert.Equal(t, "bob", request.Sender.String(), "request sender")
			assert.Equal(t, "alice", request.PreviousOwner.String(), "request previous owner")
			assert.Equal(t, "n-keep", request.Asset, "request asset")
			assert.Equal(t, "for carol", request.Message, "request message")
			return []byte("false"), nil
		},
	})

	before := env.ledger.Balance("alice")
	reverted, err := env.ledger.TransferWithNotification("bob", "carol", "n-keep", grantID(0), "sale", "for carol", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.False(t, reverted, "declined return must keep the transfer")

	snapshot, ok := env.ledger.GetAsset("n-keep")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "carol", snapshot.Owner.String(), "owner after kept transfer")
	assert.Equal(t, 0, len(snapshot.Approvals), "approvals after kept transfer")
	assert.Equal(t, []string{"n-keep"}, env.ledger.AssetsForOwner("carol", 0, 0), "carol index entry")
	assert.Equal(t, []string{}, env.ledger.AssetsForOwner("alice", 0, 0), "alice index entry")

	// the withheld approval refund is released once the outcome is known
	assert.Equal(t, before+released, env.ledger.Balance("alice"), "released storage refund")
}

func TestNotifiedTransferReverted(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-back", "alice")

	err := env.ledger.Grant("alice", "n-back", "bob", "", 100)
	assert.Nil(t, err, "grant error")

	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			return []byte("true"), nil
		},
	})

	before := env.ledger.Balance("alice")
	reverted, err := env.ledger.TransferWithNotification("bob", "carol", "n-back", grantID(0), "sale", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.True(t, reverted, "requested return must revert the transfer")

	snapshot, ok := env.ledger.GetAsset("n-back")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "alice", snapshot.Owner.String(), "owner after reverted transfer")
	assert.Equal(t, []string{}, env.ledger.AssetsForOwner("carol", 0, 0), "carol index entry after revert")
	assert.Equal(t, []string{"n-back"}, env.ledger.AssetsForOwner("alice", 0, 0), "alice index entry after revert")

	// bob's grant authorized the transfer, so it was consumed and is
	// not resurrected by the revert; its storage goes back to alice
	assert.Equal(t, 0, len(snapshot.Approvals), "approvals after reverted transfer")
	ok, err = env.ledger.IsApproved("n-back", "bob", grantID(0))
	assert.Nil(t, err, "is approved error")
	assert.False(t, ok, "consumed grant resurrected by revert")
	assert.Equal(t, before+asset.BytesForApproval("bob"), env.ledger.Balance("alice"), "consumed grant refund")

	// the unwind leaves its own audit trail
	data := env.events.last().Data.([]audit.TransferData)
	assert.Equal(t, "carol", data[0].OldOwner, "revert event old owner")
	assert.Equal(t, "alice", data[0].NewOwner, "revert event new owner")
}

func TestNotifiedTransferRevertRestoresBystanderApprovals(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-keeper", "alice")

	// bob's grant is a bystander here: alice moves the asset herself,
	// so the revert brings the grant back intact
	err := env.ledger.Grant("alice", "n-keeper", "bob", "", 100)
	assert.Nil(t, err, "grant error")

	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			return []byte("true"), nil
		},
	})

	before := env.ledger.Balance("alice")
	reverted, err := env.ledger.TransferWithNotification("alice", "carol", "n-keeper", nil, "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.True(t, reverted, "requested return must revert the transfer")

	ok, err := env.ledger.IsApproved("n-keeper", "bob", grantID(0))
	assert.Nil(t, err, "is approved error")
	assert.True(t, ok, "bystander approval not restored by revert")
	assert.Equal(t, before, env.ledger.Balance("alice"), "refund paid for a restored approval")
}

func TestNotifiedTransferNoHandler(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-deaf", "alice")

	// an unreachable receiver cannot accept, so the transfer unwinds
	reverted, err := env.ledger.TransferWithNotification("alice", "carol", "n-deaf", nil, "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.True(t, reverted, "undeliverable notification must revert")

	snapshot, ok := env.ledger.GetAsset("n-deaf")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "alice", snapshot.Owner.String(), "owner after failed delivery")
}

func TestNotifiedTransferHandlerError(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-err", "alice")

	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			return nil, errors.New("receiver exploded")
		},
	})

	reverted, err := env.ledger.TransferWithNotification("alice", "carol", "n-err", nil, "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.True(t, reverted, "handler failure must revert")
}

func TestNotifiedTransferGarbageReply(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-junk", "alice")

	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			return []byte("definitely"), nil
		},
	})

	// a reply that is not a JSON boolean counts as the receiver
	// declining the asset, so the transfer unwinds
	reverted, err := env.ledger.TransferWithNotification("alice", "carol", "n-junk", nil, "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.True(t, reverted, "garbage reply must revert")

	snapshot, ok := env.ledger.GetAsset("n-junk")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "alice", snapshot.Owner.String(), "owner after garbage reply")
	assert.Equal(t, []string{}, env.ledger.AssetsForOwner("carol", 0, 0), "carol index entry after garbage reply")
}

func TestNotifiedTransferMovedDuringSuspension(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-moved", "alice")

	released := asset.BytesForApproval("bob")
	err := env.ledger.Grant("alice", "n-moved", "bob", "", released)
	assert.Nil(t, err, "grant error")

	// carol sells the asset on while the original transfer is still
	// awaiting her answer, then asks for it back anyway
	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			err := env.ledger.Transfer("carol", "dave", request.Asset, nil, "", 1)
			assert.Nil(t, err, "interleaved transfer error")
			return []byte("true"), nil
		},
	})

	before := env.ledger.Balance("alice")
	reverted, err := env.ledger.TransferWithNotification("bob", "carol", "n-moved", grantID(0), "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.False(t, reverted, "revert must be refused once the asset moved on")

	snapshot, ok := env.ledger.GetAsset("n-moved")
	assert.True(t, ok, "asset missing")
	assert.Equal(t, "dave", snapshot.Owner.String(), "owner after interleaved transfer")
	assert.Equal(t, before+released, env.ledger.Balance("alice"), "released storage refund")
}

func TestNotifiedTransferRevertRefundsReceiverApprovals(t *testing.T) {
	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-regrant", "alice")

	err := env.ledger.Grant("alice", "n-regrant", "bob", "", 100)
	assert.Nil(t, err, "grant error")

	// carol approves a broker of her own before bouncing the asset
	// back; the unwind must return her the storage she paid for
	erinBytes := asset.BytesForApproval("erin")
	env.registry.Register("carol", &testHandler{
		onTransfer: func(request notify.TransferRequest) ([]byte, error) {
			err := env.ledger.Grant("carol", request.Asset, "erin", "", erinBytes)
			assert.Nil(t, err, "interleaved grant error")
			return []byte("true"), nil
		},
	})

	reverted, err := env.ledger.TransferWithNotification("bob", "carol", "n-regrant", grantID(0), "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.True(t, reverted, "requested return must revert")

	assert.Equal(t, erinBytes, env.ledger.Balance("carol"), "receiver approval refund")

	ok, err := env.ledger.IsApproved("n-regrant", "erin", nil)
	assert.Nil(t, err, "is approved error")
	assert.False(t, ok, "receiver approval survived revert")
	ok, err = env.ledger.IsApproved("n-regrant", "bob", grantID(0))
	assert.Nil(t, err, "is approved error")
	assert.False(t, ok, "consumed grant resurrected by revert")
}

func TestNotifiedTransferMockedReceiver(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	env := newTestEnv(t)
	defer env.close()

	env.mint(t, "n-mock", "alice")

	handler := mocks.NewMockHandler(ctl)
	handler.EXPECT().
		OnTransfer(gomock.Any()).
		Return([]byte("false"), nil).
		Times(1)
	env.registry.Register("carol", handler)

	reverted, err := env.ledger.TransferWithNotification("alice", "carol", "n-mock", nil, "", "", 1)
	assert.Nil(t, err, "notified transfer error")
	assert.False(t, reverted, "declined return must keep the transfer")
}
