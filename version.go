// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

// ensure that git has a tag: "vX.Y" corresponding to major and minor
const (
	Major   = "1"
	Minor   = "0"
	Patch   = "0"
	version = Major + "." + Minor + "." + Patch
)

// Version - the full version string of the daemon
func Version() string {
	return version
}
