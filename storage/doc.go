// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintains separate pools of a LevelDB database, one pool for each
// class of ledger data; each pool is distinguished by a single prefix
// byte on its keys
//
//	Assets      asset id    -> packed asset record
//	OwnerIndex  owner ++ id -> nil (ownership membership)
//	Funds       identity    -> 8 byte BE balance
//	Metadata    asset id    -> packed metadata
//
// writes of one ledger operation are collected into a Transaction
// (a LevelDB batch) and committed as a single unit, so an aborted
// operation leaves no partial state
package storage
