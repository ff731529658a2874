// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the ownership-transfer core
//
// a Ledger tracks which identity owns which asset, manages transfer
// grants and moves assets between identities, either directly or via
// an asynchronous notify-and-resolve hand-off that the receiver can
// veto
//
// one mutating call runs at a time; the only suspension point is the
// notification boundary of TransferWithNotification, where the lock
// is released while the receiver's handler decides and the resolution
// step re-validates whatever it finds afterwards
//
// every mutation and its storage billing commit as one batch: an
// aborted call leaves no partial state
package ledger
