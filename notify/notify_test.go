// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notify_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/deedledger/deedled/fault"
	"github.com/deedledger/deedled/notify"
)

const testingDirName = "testing"

func TestMain(m *testing.M) {
	_ = os.Mkdir(testingDirName, 0700)
	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "notify_test.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

// handler with pluggable behaviour for tests
type testHandler struct {
	onTransfer func(notify.TransferRequest) ([]byte, error)
	grants     chan notify.GrantNotice
}

func (h *testHandler) OnTransfer(request notify.TransferRequest) ([]byte, error) {
	return h.onTransfer(request)
}

func (h *testHandler) OnGrant(notice notify.GrantNotice) {
	h.grants <- notice
}

func TestNotifyTransfer(t *testing.T) {
	registry := notify.NewRegistry()

	request := notify.TransferRequest{
		Sender:        "bob",
		PreviousOwner: "alice",
		Asset:         "t1",
		Message:       "hello",
	}

	registry.Register("carol", &testHandler{
		onTransfer: func(got notify.TransferRequest) ([]byte, error) {
			assert.Equal(t, request, got, "request passed through")
			return []byte("false"), nil
		},
	})

	reply, err := registry.NotifyTransfer("carol", request)
	assert.NoError(t, err, "notify")
	assert.Equal(t, []byte("false"), reply, "reply passed back")
}

func TestNotifyTransferNoHandler(t *testing.T) {
	registry := notify.NewRegistry()

	_, err := registry.NotifyTransfer("nobody", notify.TransferRequest{Asset: "t1"})
	assert.Equal(t, fault.ErrNoReceiverHandler, err, "missing handler is a delivery failure")
}

func TestNotifyTransferHandlerError(t *testing.T) {
	registry := notify.NewRegistry()

	registry.Register("carol", &testHandler{
		onTransfer: func(notify.TransferRequest) ([]byte, error) {
			return nil, errors.New("receiver is down")
		},
	})

	_, err := registry.NotifyTransfer("carol", notify.TransferRequest{Asset: "t1"})
	assert.Error(t, err, "handler error surfaces to the resolver")
}

// a panicking handler must not crash the ledger
func TestNotifyTransferHandlerPanic(t *testing.T) {
	registry := notify.NewRegistry()

	registry.Register("carol", &testHandler{
		onTransfer: func(notify.TransferRequest) ([]byte, error) {
			panic("boom")
		},
	})

	reply, err := registry.NotifyTransfer("carol", notify.TransferRequest{Asset: "t1"})
	assert.Error(t, err, "panic converted to error")
	assert.Nil(t, reply, "no reply from panicking handler")
}

func TestNotifyGrant(t *testing.T) {
	registry := notify.NewRegistry()

	handler := &testHandler{grants: make(chan notify.GrantNotice, 1)}
	registry.Register("bob", handler)

	notice := notify.GrantNotice{
		Asset:   "t1",
		Owner:   "alice",
		GrantID: 0,
		Message: "sale pending",
	}
	registry.NotifyGrant("bob", notice)

	select {
	case got := <-handler.grants:
		assert.Equal(t, notice, got, "notice delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("grant notice was not delivered")
	}
}

func TestNotifyGrantNoHandler(t *testing.T) {
	registry := notify.NewRegistry()

	// must not block or panic
	registry.NotifyGrant("nobody", notify.GrantNotice{Asset: "t1"})
}

func TestDeregister(t *testing.T) {
	registry := notify.NewRegistry()

	registry.Register("carol", &testHandler{
		onTransfer: func(notify.TransferRequest) ([]byte, error) {
			return []byte("true"), nil
		},
	})
	registry.Deregister("carol")

	_, err := registry.NotifyTransfer("carol", notify.TransferRequest{Asset: "t1"})
	assert.Equal(t, fault.ErrNoReceiverHandler, err, "deregistered handler is gone")
}
