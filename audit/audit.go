// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package audit - append-only stream of structured ledger events
//
// every mint and every ownership change emits exactly one event;
// consumers treat the stream as opaque JSON records tagged with the
// standard name and version
package audit

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/logger"
)

// identification of the event format
const (
	Standard = "deed1"
	Version  = "1.0.0"
)

// event kinds
const (
	EventMint     = "mint"
	EventTransfer = "transfer"
)

// MintData - payload of a mint event
type MintData struct {
	Owner    string   `json:"owner_id"`
	AssetIDs []string `json:"asset_ids"`
	Memo     string   `json:"memo,omitempty"`
}

// TransferData - payload of a transfer event
//
// AuthorizedID is only present when the transfer was initiated by a
// grant holder rather than the owner
type TransferData struct {
	AuthorizedID string   `json:"authorized_id,omitempty"`
	OldOwner     string   `json:"old_owner_id"`
	NewOwner     string   `json:"new_owner_id"`
	AssetIDs     []string `json:"asset_ids"`
	Memo         string   `json:"memo,omitempty"`
}

// Event - one audit record
type Event struct {
	Standard string      `json:"standard"`
	Version  string      `json:"version"`
	Kind     string      `json:"event"`
	Data     interface{} `json:"data"`
}

// NewMint - build a mint event
func NewMint(owner string, assetID string, memo string) Event {
	return Event{
		Standard: Standard,
		Version:  Version,
		Kind:     EventMint,
		Data: []MintData{{
			Owner:    owner,
			AssetIDs: []string{assetID},
			Memo:     memo,
		}},
	}
}

// NewTransfer - build a transfer event
func NewTransfer(authorizedID string, oldOwner string, newOwner string, assetID string, memo string) Event {
	return Event{
		Standard: Standard,
		Version:  Version,
		Kind:     EventTransfer,
		Data: []TransferData{{
			AuthorizedID: authorizedID,
			OldOwner:     oldOwner,
			NewOwner:     newOwner,
			AssetIDs:     []string{assetID},
			Memo:         memo,
		}},
	}
}

// String - the canonical line form of an event
func (e Event) String() string {
	data, err := json.Marshal(e)
	if nil != err {
		// only possible with a broken Data payload
		return fmt.Sprintf("EVENT_ERROR:%s", err)
	}
	return "EVENT_JSON:" + string(data)
}

// Sink - where events are appended
type Sink interface {
	Append(event Event)
}

// LogSink - sink writing event lines through the logging system
type LogSink struct {
	log *logger.L
}

// NewLogSink - create the standard log backed sink
func NewLogSink() *LogSink {
	return &LogSink{
		log: logger.New("audit"),
	}
}

// Append - write one event line
func (s *LogSink) Append(event Event) {
	s.log.Infof("%s", event)
}
