// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package referral implements the persistent referral graph: a
// forest of beacon addresses rooted at the genesis referrals, the
// per-address Aggregate Network Value (ANV) it accumulates from its
// descendants, and the topological ordering needed to commit a block
// of referrals in parent-before-child order.
//
// A Store is the persistent view, backed by storage.Store. A Cache
// sits in front of a Store as a short-lived write-through layer for
// the validator's hot path.
package referral
