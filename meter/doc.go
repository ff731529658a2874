// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package meter - storage-cost metering
//
// converts persisted-byte deltas into debits against the prepayment
// attached to a call and into credits on the funds pool; billing is
// evaluated inside the same transaction as the mutation it pays for,
// so a shortfall aborts the whole operation
package meter
