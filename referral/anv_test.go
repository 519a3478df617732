// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package referral_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario 2: ANV propagation
func TestUpdateANVPropagatesToAncestors(t *testing.T) {
	s := newStore(t)

	r1 := genesis(addr(1), hash(1))
	r2 := child(addr(2), addr(1), hash(2), hash(1))
	r3 := child(addr(3), addr(2), hash(3), hash(2))
	require.True(t, s.InsertReferral(r1, true))
	require.True(t, s.InsertReferral(r2, false))
	require.True(t, s.InsertReferral(r3, false))

	require.True(t, s.UpdateANV(1, addr(3), 100))

	for _, a := range []byte{1, 2, 3} {
		anv, found := s.GetANV(addr(a))
		require.True(t, found)
		assert.Equal(t, int64(100), anv.Amount)
	}

	require.True(t, s.UpdateANV(1, addr(3), -40))

	for _, a := range []byte{1, 2, 3} {
		anv, found := s.GetANV(addr(a))
		require.True(t, found)
		assert.Equal(t, int64(60), anv.Amount)
	}
}

func TestUpdateANVNegativeAmountPanics(t *testing.T) {
	s := newStore(t)

	r1 := genesis(addr(1), hash(1))
	require.True(t, s.InsertReferral(r1, true))

	assert.Panics(t, func() {
		s.UpdateANV(1, addr(1), -1)
	})
}
