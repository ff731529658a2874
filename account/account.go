// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - identities of ledger participants
//
// An identity is an opaque unique string assigned outside of this
// ledger; the ledger only compares identities for equality and uses
// their bytes as storage key components.
package account

import (
	"github.com/deedledger/deedled/fault"
)

// length limits for an identity
const (
	minIdentityLength = 1
	maxIdentityLength = 255
)

// Identity - opaque unique identifier of a ledger participant
type Identity string

// String - convert to displayable form
func (id Identity) String() string {
	return string(id)
}

// Bytes - the raw bytes for use as a storage key component
func (id Identity) Bytes() []byte {
	return []byte(id)
}

// Validate - ensure an identity is usable as a key component
//
// the upper length bound keeps the per-approval storage cost
// computable in a single byte-count expression
func (id Identity) Validate() error {
	if len(id) < minIdentityLength || len(id) > maxIdentityLength {
		return fault.ErrInvalidIdentity
	}
	return nil
}
