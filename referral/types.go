// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package referral

import "encoding/hex"

// Address is a 20-byte wallet/script identifier.
type Address [20]byte

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsNull reports whether a is the all-zero address.
func (a Address) IsNull() bool {
	return a == Address{}
}

// Hash is a 32-byte content hash of a Referral record.
type Hash [32]byte

// String returns the hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsNull reports whether h is the all-zero hash.
func (h Hash) IsNull() bool {
	return h == Hash{}
}

// AddressType classifies the kind of beacon a Referral establishes.
// Zero is never a valid value; 1 and 2 are the rewardable kinds.
type AddressType uint32

// IsRewardable reports whether addressType participates in reward
// enumeration (GetAllRewardableANVs).
func (t AddressType) IsRewardable() bool {
	return t == 1 || t == 2
}

// Referral is an immutable record creating a beacon at Address,
// referred in by ParentAddress. CodeHash is this referral's own
// identifier for child linking; PreviousReferral is the CodeHash of
// the referral that beaconed ParentAddress.
type Referral struct {
	Address          Address
	AddressType      AddressType
	PubKeyID         Address
	CodeHash         Hash
	PreviousReferral Hash
	ParentAddress    Address

	// Signature and Weight stand in for the transaction-like fields
	// this subsystem never interprets.
	Signature []byte
	Weight    int64
}

// ANVRecord is the aggregate network value accumulator kept per
// pubKeyId. Amount is signed and, in the steady state, non-negative.
type ANVRecord struct {
	AddressType AddressType
	PubKeyID    Address
	Amount      int64
}

// ChildAddresses is the ordered list of a beacon's children, in the
// order they were inserted.
type ChildAddresses []Address

func (c ChildAddresses) indexOf(addr Address) int {
	for i, a := range c {
		if a == addr {
			return i
		}
	}
	return -1
}

// without returns a copy of c with addr removed, preserving order of
// the remaining elements. If addr is not present c is returned
// unchanged.
func (c ChildAddresses) without(addr Address) ChildAddresses {
	i := c.indexOf(addr)
	if i < 0 {
		return c
	}
	out := make(ChildAddresses, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	return out
}
