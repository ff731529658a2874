// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"sort"

	"github.com/deedledger/deedled/account"
	"github.com/deedledger/deedled/fault"
	"github.com/deedledger/deedled/util"
)

// limits fixed at mint time
const (
	// MaximumRoyaltySplits - bound on the royalty map cardinality,
	// which in turn bounds the maps any later operation must process
	MaximumRoyaltySplits = 6
)

// record type tag at the start of every packed record
const recordTag = 0x01

// fixed per-entry overhead beyond the identity bytes: length prefix
// and the stored grant id
const approvalOverhead = 12

// Record - the unpacked asset record structure
type Record struct {
	Owner        account.Identity            `json:"owner"`
	Approvals    map[account.Identity]uint64 `json:"approvals"`
	NextGrantID  uint64                      `json:"nextGrantId"`
	RoyaltySplit map[account.Identity]uint32 `json:"royaltySplit"`
}

// NewRecord - a freshly minted record with no grants outstanding
func NewRecord(owner account.Identity, royalty map[account.Identity]uint32) *Record {
	split := make(map[account.Identity]uint32, len(royalty))
	for id, basisPoints := range royalty {
		split[id] = basisPoints
	}
	return &Record{
		Owner:        owner,
		Approvals:    make(map[account.Identity]uint64),
		NextGrantID:  0,
		RoyaltySplit: split,
	}
}

// BytesForApproval - persisted footprint of a single approval entry
func BytesForApproval(id account.Identity) uint64 {
	return uint64(len(id)) + approvalOverhead
}

// BytesForApprovals - total persisted footprint of an approval map
func BytesForApprovals(approvals map[account.Identity]uint64) uint64 {
	total := uint64(0)
	for id := range approvals {
		total += BytesForApproval(id)
	}
	return total
}

// CopyApprovals - snapshot the approval map for rollback bookkeeping
func (r *Record) CopyApprovals() map[account.Identity]uint64 {
	approvals := make(map[account.Identity]uint64, len(r.Approvals))
	for id, grantID := range r.Approvals {
		approvals[id] = grantID
	}
	return approvals
}

// Pack - serialise to the canonical byte form
//
// map entries are emitted in identity order so the same record always
// packs to the same bytes
func (r *Record) Pack() []byte {
	buffer := util.ToVarint64(recordTag)
	buffer = appendString(buffer, string(r.Owner))

	buffer = append(buffer, util.ToVarint64(uint64(len(r.Approvals)))...)
	for _, id := range sortedApprovalKeys(r.Approvals) {
		buffer = appendString(buffer, string(id))
		buffer = append(buffer, util.ToVarint64(r.Approvals[id])...)
	}

	buffer = append(buffer, util.ToVarint64(r.NextGrantID)...)

	buffer = append(buffer, util.ToVarint64(uint64(len(r.RoyaltySplit)))...)
	for _, id := range sortedRoyaltyKeys(r.RoyaltySplit) {
		buffer = appendString(buffer, string(id))
		buffer = append(buffer, util.ToVarint64(uint64(r.RoyaltySplit[id]))...)
	}

	return buffer
}

// Unpack - decode a packed record
//
// any truncation or unknown tag is a corrupt record fault
func Unpack(buffer []byte) (*Record, error) {

	tag, n := util.FromVarint64(buffer)
	if 0 == n || recordTag != tag {
		return nil, fault.ErrCorruptAssetRecord
	}
	buffer = buffer[n:]

	owner, buffer, ok := takeString(buffer)
	if !ok {
		return nil, fault.ErrCorruptAssetRecord
	}

	approvalCount, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrCorruptAssetRecord
	}
	buffer = buffer[n:]

	approvals := make(map[account.Identity]uint64, approvalCount)
	for i := uint64(0); i < approvalCount; i += 1 {
		var id string
		id, buffer, ok = takeString(buffer)
		if !ok {
			return nil, fault.ErrCorruptAssetRecord
		}
		grantID, n := util.FromVarint64(buffer)
		if 0 == n {
			return nil, fault.ErrCorruptAssetRecord
		}
		buffer = buffer[n:]
		approvals[account.Identity(id)] = grantID
	}

	nextGrantID, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrCorruptAssetRecord
	}
	buffer = buffer[n:]

	royaltyCount, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrCorruptAssetRecord
	}
	buffer = buffer[n:]

	royalty := make(map[account.Identity]uint32, royaltyCount)
	for i := uint64(0); i < royaltyCount; i += 1 {
		var id string
		id, buffer, ok = takeString(buffer)
		if !ok {
			return nil, fault.ErrCorruptAssetRecord
		}
		basisPoints, n := util.FromVarint64(buffer)
		if 0 == n {
			return nil, fault.ErrCorruptAssetRecord
		}
		buffer = buffer[n:]
		royalty[account.Identity(id)] = uint32(basisPoints)
	}

	if 0 != len(buffer) {
		return nil, fault.ErrCorruptAssetRecord
	}

	return &Record{
		Owner:        account.Identity(owner),
		Approvals:    approvals,
		NextGrantID:  nextGrantID,
		RoyaltySplit: royalty,
	}, nil
}

// length prefixed string
func appendString(buffer []byte, s string) []byte {
	buffer = append(buffer, util.ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

func takeString(buffer []byte) (string, []byte, bool) {
	length, n := util.FromVarint64(buffer)
	if 0 == n {
		return "", nil, false
	}
	buffer = buffer[n:]
	if uint64(len(buffer)) < length {
		return "", nil, false
	}
	return string(buffer[:length]), buffer[length:], true
}

func sortedApprovalKeys(m map[account.Identity]uint64) []account.Identity {
	keys := make([]account.Identity, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i int, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedRoyaltyKeys(m map[account.Identity]uint32) []account.Identity {
	keys := make([]account.Identity, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i int, j int) bool { return keys[i] < keys[j] })
	return keys
}
