// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset - the persisted per-asset record
//
// holds the current owner, the outstanding transfer grants and the
// monotonic grant id counter; the counter is stored on the record
// itself and is never reset, so a revoked grant id can never be
// confused with a later one
package asset
