// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refmempool

import (
	"time"

	"github.com/bitmark-inc/referrald/referral"
)

// RemovalReason records why an entry left the pool, passed through
// to NotifyEntryRemoved listeners.
type RemovalReason int

// Removal reasons passed through to NotifyEntryRemoved listeners.
const (
	ReasonUnknown RemovalReason = iota
	ReasonExpiry
	ReasonBlock
	ReasonReorg
	ReasonConflict
	ReasonReplaced
)

func (r RemovalReason) String() string {
	switch r {
	case ReasonExpiry:
		return "expiry"
	case ReasonBlock:
		return "block"
	case ReasonReorg:
		return "reorg"
	case ReasonConflict:
		return "conflict"
	case ReasonReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Entry is a pending referral together with the bookkeeping fields
// the mempool needs.
type Entry struct {
	Referral    referral.Referral
	EntryTime   time.Time
	EntryHeight uint32
	Weight      int64
	UsageSize   int
}

// Hash returns the entry's primary-index key.
func (e *Entry) Hash() referral.Hash {
	return e.Referral.CodeHash
}

// NotificationEvent is published with messagebus.Send for every
// AddUnchecked/RemoveRecursive/RemoveForBlock/Expire transition.
type NotificationEvent struct {
	Referral referral.Referral
	Added    bool
	Reason   RemovalReason
}
