// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package referral

import (
	"math"

	"github.com/bitmark-inc/referrald/fault"
)

// maxLevels guards UpdateANV against a cycle slipping past the
// forest invariant; reaching it is treated as database corruption.
const maxLevels = math.MaxInt64

// UpdateANV adds delta (which may be negative) to the ANVRecord of
// startAddress and to every one of its ancestors, walking the parent
// chain via GetReferrer. It panics if an ancestor has no ANVRecord,
// a zero addressType, a null pubKeyId, or if the walk does not
// terminate within maxLevels steps (a cycle).
func (s *Store) UpdateANV(addressType AddressType, startAddress Address, delta int64) bool {
	s.log.Debugf("updateANV: type %d address %s %+d", addressType, startAddress, delta)

	address, ok := startAddress, true
	for level := int64(0); ok && level < maxLevels; level++ {
		anv, found := s.GetANV(address)
		if !found {
			fault.Panic("referral.UpdateANV: " + fault.ErrKeyNotFound.Error())
			return false
		}

		if anv.AddressType == 0 {
			fault.Panic("referral.UpdateANV: " + fault.ErrZeroAddressType.Error())
			return false
		}
		if anv.PubKeyID.IsNull() {
			fault.Panic("referral.UpdateANV: " + fault.ErrNullAddress.Error())
			return false
		}

		anv.Amount += delta
		if anv.Amount < 0 {
			fault.Panic("referral.UpdateANV: amount went negative")
			return false
		}

		if err := s.kv.Put(columnANV, address[:], encode(anv)); err != nil {
			fault.PanicWithError("referral.UpdateANV write", err)
			return false
		}

		address, ok = s.GetReferrer(address)
	}

	if !ok {
		return true
	}

	fault.Panic("referral.UpdateANV: " + fault.ErrCycleDetected.Error())
	return false
}
