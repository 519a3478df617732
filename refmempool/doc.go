// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package refmempool implements the in-memory pool of unconfirmed
// referrals (C6): a multi-indexed set keyed by referral hash, with a
// secondary time index for expiry and a parent->children link map
// for descendant-cascade removal. Additions and removals are
// published with messagebus.Send for any listener (wallet, UI) that
// cares, decoupling the pool from its observers.
package refmempool
