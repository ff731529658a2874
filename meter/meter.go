// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package meter

import (
	"github.com/bitmark-inc/logger"

	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/fault"
	"github.com/deedledger/deedled/storage"
)

// PaymentSignal - the minimal non-zero payment required on mutating
// operations as an anti-redirect signal; it is a friction mechanism,
// not a storage cost, and is not refunded
const PaymentSignal = 1

// Meter - reconciles storage deltas against prepayments
type Meter struct {
	log   *logger.L
	price uint64
	funds *storage.PoolHandle
}

// New - create a meter over a funds pool
//
// price is the cost of one persisted byte in balance units
func New(price uint64, funds *storage.PoolHandle) *Meter {
	return &Meter{
		log:   logger.New("meter"),
		price: price,
		funds: funds,
	}
}

// Measure - delta in bytes between two footprints
func Measure(before uint64, after uint64) int64 {
	return int64(after) - int64(before)
}

// Bill - charge a payer for newly persisted bytes
//
// the attached payment must cover storageBytes at the current price,
// otherwise the operation is aborted; any surplus is returned to the
// payer's funds balance inside the same transaction
func (m *Meter) Bill(trx *storage.Transaction, payer account.Identity, payment uint64, storageBytes uint64) error {
	cost := storageBytes * m.price
	if payment < cost {
		m.log.Warnf("bill: payer: %s  payment: %d  below cost: %d", payer, payment, cost)
		return fault.ErrInsufficientPayment
	}
	if surplus := payment - cost; surplus > 0 {
		m.deposit(trx, payer, surplus)
	}
	return nil
}

// Credit - return the value of released bytes to a payee
//
// no failure path: releasing storage always pays out
func (m *Meter) Credit(trx *storage.Transaction, payee account.Identity, storageBytes uint64) {
	if 0 == storageBytes {
		return
	}
	m.deposit(trx, payee, storageBytes*m.price)
	m.log.Debugf("credit: payee: %s  bytes: %d", payee, storageBytes)
}

// Balance - current funds balance of an identity
func (m *Meter) Balance(id account.Identity) uint64 {
	balance, _ := m.funds.GetN(id.Bytes())
	return balance
}

// add to a funds balance
//
// an amount already deposited inside this transaction is read back
// from the batch, so repeated deposits to one identity accumulate
func (m *Meter) deposit(trx *storage.Transaction, id account.Identity, amount uint64) {
	balance, ok := trx.PendingN(m.funds, id.Bytes())
	if !ok {
		balance, _ = m.funds.GetN(id.Bytes())
	}
	trx.PutN(m.funds, id.Bytes(), balance+amount)
}
