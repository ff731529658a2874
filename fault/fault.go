// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised    = ProcessError("already initialised")
	ErrAssetAlreadyExists    = ExistsError("asset already exists")
	ErrAssetNotFound         = NotFoundError("asset not found")
	ErrCorruptAssetRecord    = ProcessError("corrupt asset record")
	ErrCorruptMetadataRecord = ProcessError("corrupt metadata record")
	ErrInsufficientPayment   = InvalidError("insufficient payment")
	ErrInvalidAssetID        = InvalidError("invalid asset id")
	ErrInvalidIdentity       = InvalidError("invalid identity")
	ErrNoReceiverHandler     = NotFoundError("no receiver handler")
	ErrNotAssetOwner         = InvalidError("not asset owner")
	ErrNotInitialised        = ProcessError("not initialised")
	ErrStaleGrant            = InvalidError("stale grant")
	ErrTooManyRoyaltySplits  = InvalidError("too many royalty splits")
	ErrTransferNotAuthorized = InvalidError("transfer not authorized")
	ErrTransferToSelf        = InvalidError("transfer to self")
)

// Error - the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// IsErrExists - determine the class of an error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - check for invalid class
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrNotFound - check for not found class
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - check for process class
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }
