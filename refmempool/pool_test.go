// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refmempool_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/referrald/referral"
	"github.com/bitmark-inc/referrald/refmempool"
)

func addr(b byte) referral.Address {
	var a referral.Address
	a[0] = b
	return a
}

func hash(b byte) referral.Hash {
	var h referral.Hash
	h[0] = b
	return h
}

func entryAt(a, parentAddr referral.Address, code referral.Hash, when time.Time) *refmempool.Entry {
	return &refmempool.Entry{
		Referral: referral.Referral{
			Address:       a,
			CodeHash:      code,
			ParentAddress: parentAddr,
		},
		EntryTime: when,
	}
}

// scenario 5: mempool cascade remove
func TestRemoveRecursiveCascades(t *testing.T) {
	now := time.Now()
	pool := refmempool.NewPool()

	a := entryAt(addr(1), referral.Address{}, hash(1), now)
	b := entryAt(addr(2), addr(1), hash(2), now)
	c := entryAt(addr(3), addr(2), hash(3), now)

	pool.AddUnchecked(a)
	pool.AddUnchecked(b)
	pool.AddUnchecked(c)
	require.Len(t, pool.GetReferrals(), 3)

	pool.RemoveRecursive(a.Referral, refmempool.ReasonExpiry)

	assert.Empty(t, pool.GetReferrals())
	_, found := pool.Get(hash(1))
	assert.False(t, found)
	_, found = pool.Get(hash(2))
	assert.False(t, found)
	_, found = pool.Get(hash(3))
	assert.False(t, found)
}

func TestRemoveForBlockDoesNotCascade(t *testing.T) {
	now := time.Now()
	pool := refmempool.NewPool()

	a := entryAt(addr(1), referral.Address{}, hash(1), now)
	b := entryAt(addr(2), addr(1), hash(2), now)
	pool.AddUnchecked(a)
	pool.AddUnchecked(b)

	pool.RemoveForBlock([]referral.Referral{a.Referral})

	_, found := pool.Get(hash(1))
	assert.False(t, found)
	_, found = pool.Get(hash(2))
	assert.True(t, found, "child should remain pending after a non-cascading block removal")
}

func TestExpireRemovesStaleEntriesAndDescendants(t *testing.T) {
	old := time.Now().Add(-time.Hour)
	fresh := time.Now()

	pool := refmempool.NewPool()
	a := entryAt(addr(1), referral.Address{}, hash(1), old)
	b := entryAt(addr(2), addr(1), hash(2), fresh)
	c := entryAt(addr(3), referral.Address{}, hash(3), fresh)

	pool.AddUnchecked(a)
	pool.AddUnchecked(b)
	pool.AddUnchecked(c)

	removed := pool.Expire(time.Now().Add(-time.Minute))

	assert.Equal(t, 2, removed, "stale root and its fresh child should both be removed")
	_, found := pool.Get(hash(3))
	assert.True(t, found, "unrelated fresh entry must survive")
}

func TestGetWithAddressAndExists(t *testing.T) {
	pool := refmempool.NewPool()
	a := entryAt(addr(1), referral.Address{}, hash(1), time.Now())
	pool.AddUnchecked(a)

	_, found := pool.GetWithAddress(addr(1))
	assert.True(t, found)
	assert.True(t, pool.ExistsWithAddress(addr(1)))
	assert.False(t, pool.ExistsWithAddress(addr(9)))
}

func TestClear(t *testing.T) {
	pool := refmempool.NewPool()
	pool.AddUnchecked(entryAt(addr(1), referral.Address{}, hash(1), time.Now()))
	require.Len(t, pool.GetReferrals(), 1)

	pool.Clear()
	assert.Empty(t, pool.GetReferrals())
}

func TestGetReferralsForAddressesSkipsConfirmed(t *testing.T) {
	pool := refmempool.NewPool()
	pool.AddUnchecked(entryAt(addr(1), referral.Address{}, hash(1), time.Now()))
	pool.AddUnchecked(entryAt(addr(2), referral.Address{}, hash(2), time.Now()))

	confirmed := func(a referral.Address) bool { return a == addr(2) }

	found := pool.GetReferralsForAddresses([]referral.Address{addr(1), addr(2), addr(3)}, confirmed)
	require.Len(t, found, 1)
	assert.Equal(t, addr(1), found[0].Address)
}
