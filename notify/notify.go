// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notify - delivery of ledger messages to receiver handlers
//
// a handler is registered by the identity that wants to hear about
// incoming assets; handlers are untrusted: any panic, error or
// malformed reply is reported to the caller as a delivery failure and
// never propagates into the ledger
package notify

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/fault"
)

// limits on fire-and-forget grant notices
const (
	grantNoticeRate  = 100 // notices per second
	grantNoticeBurst = 100
)

// TransferRequest - delivered to the receiver of a
// transfer-with-notification; the reply decides whether the transfer
// is kept
type TransferRequest struct {
	Sender        account.Identity
	PreviousOwner account.Identity
	Asset         string
	Message       string
}

// GrantNotice - informs a grantee that transfer rights were granted;
// notification only, there is no resolution phase
type GrantNotice struct {
	Asset   string
	Owner   account.Identity
	GrantID uint64
	Message string
}

// Handler - receiver-supplied endpoint
//
// OnTransfer returns the raw reply payload; the ledger decodes it as
// a JSON boolean where true requests the asset back
type Handler interface {
	OnTransfer(request TransferRequest) ([]byte, error)
	OnGrant(notice GrantNotice)
}

// Registry - maps identities to their registered handlers
type Registry struct {
	sync.RWMutex
	log      *logger.L
	handlers map[account.Identity]Handler
	limiter  *rate.Limiter
}

// NewRegistry - create an empty handler registry
func NewRegistry() *Registry {
	return &Registry{
		log:      logger.New("notify"),
		handlers: make(map[account.Identity]Handler),
		limiter:  rate.NewLimiter(grantNoticeRate, grantNoticeBurst),
	}
}

// Register - attach a handler for an identity, replacing any previous one
func (r *Registry) Register(id account.Identity, handler Handler) {
	r.Lock()
	r.handlers[id] = handler
	r.Unlock()
}

// Deregister - remove the handler for an identity
func (r *Registry) Deregister(id account.Identity) {
	r.Lock()
	delete(r.handlers, id)
	r.Unlock()
}

func (r *Registry) handler(id account.Identity) Handler {
	r.RLock()
	defer r.RUnlock()
	return r.handlers[id]
}

// NotifyTransfer - deliver a transfer request to the receiver's handler
//
// blocks until the handler answers or fails; a missing handler or a
// handler panic is returned as an error, which the resolution logic
// treats as a decline
func (r *Registry) NotifyTransfer(receiver account.Identity, request TransferRequest) (reply []byte, err error) {
	handler := r.handler(receiver)
	if nil == handler {
		return nil, fault.ErrNoReceiverHandler
	}

	defer func() {
		if p := recover(); nil != p {
			r.log.Warnf("transfer handler panic: receiver: %s  asset: %s  panic: %v", receiver, request.Asset, p)
			reply = nil
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()

	return handler.OnTransfer(request)
}

// NotifyGrant - deliver a grant notice, fire and forget
//
// dispatch is asynchronous and rate limited; a grantee without a
// handler simply misses the notice
func (r *Registry) NotifyGrant(grantee account.Identity, notice GrantNotice) {
	go func() {
		_ = r.limiter.Wait(context.Background())

		handler := r.handler(grantee)
		if nil == handler {
			r.log.Debugf("no handler for grantee: %s", grantee)
			return
		}

		defer func() {
			if p := recover(); nil != p {
				r.log.Warnf("grant handler panic: grantee: %s  asset: %s  panic: %v", grantee, notice.Asset, p)
			}
		}()

		handler.OnGrant(notice)
	}()
}
