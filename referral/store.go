// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package referral

import (
	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/referrald/fault"
	"github.com/bitmark-inc/referrald/storage"
)

// Columns of the referral subsystem.
const (
	columnReferrals storage.Column = 'r'
	columnParent    storage.Column = 'p'
	columnChildren  storage.Column = 'c'
	columnANV       storage.Column = 'a'
	columnByKeyID   storage.Column = 'k' // reserved, unused by this core
)

// Store is the persistent referral graph (C2), backed by a KV
// adapter. It is the sole writer of the five columns above.
type Store struct {
	kv  *storage.Store
	log *logger.L
}

// NewStore wires a Store onto an already-open KV adapter.
func NewStore(kv *storage.Store) *Store {
	return &Store{
		kv:  kv,
		log: logger.New("referral"),
	}
}

// GetReferral returns the referral beaconing addr, if one exists.
func (s *Store) GetReferral(addr Address) (Referral, bool) {
	value, found, err := s.kv.Get(columnReferrals, addr[:])
	fault.PanicIfError("referral.GetReferral", err)
	if !found {
		return Referral{}, false
	}
	var r Referral
	fault.PanicIfError("referral.GetReferral decode", decode(value, &r))
	return r, true
}

// GetReferrer returns the parent address of addr, if addr is a
// confirmed non-root beacon.
func (s *Store) GetReferrer(addr Address) (Address, bool) {
	value, found, err := s.kv.Get(columnParent, addr[:])
	fault.PanicIfError("referral.GetReferrer", err)
	if !found {
		return Address{}, false
	}
	var parent Address
	copy(parent[:], value)
	return parent, true
}

// GetChildren returns the children of addr, in insertion order. It
// never fails; an address with no children returns an empty list.
func (s *Store) GetChildren(addr Address) ChildAddresses {
	value, found, err := s.kv.Get(columnChildren, addr[:])
	fault.PanicIfError("referral.GetChildren", err)
	if !found {
		return ChildAddresses{}
	}
	var children ChildAddresses
	fault.PanicIfError("referral.GetChildren decode", decode(value, &children))
	return children
}

func (s *Store) putChildren(addr Address, children ChildAddresses) {
	fault.PanicIfError("referral.putChildren", s.kv.Put(columnChildren, addr[:], encode(children)))
}

// InsertReferral writes r into the store. If r's parent cannot be
// resolved, the insert is rejected unless allowNoParent is set (the
// genesis bootstrap path).
func (s *Store) InsertReferral(r Referral, allowNoParent bool) bool {
	s.log.Debugf("insert referral %s parent %s", r.Address, r.ParentAddress)

	if err := s.kv.Put(columnReferrals, r.Address[:], encode(r)); err != nil {
		fault.PanicWithError("referral.InsertReferral", err)
		return false
	}

	anv := ANVRecord{AddressType: r.AddressType, PubKeyID: r.PubKeyID, Amount: 0}
	if err := s.kv.Put(columnANV, r.PubKeyID[:], encode(anv)); err != nil {
		fault.PanicWithError("referral.InsertReferral anv", err)
		return false
	}

	parent, found := s.GetReferral(r.ParentAddress)
	if !found {
		if !allowNoParent {
			fault.Panic("referral.InsertReferral: " + fault.ErrParentNotFound.Error())
			return false
		}
		s.log.Warnf("parent missing for code %s, allowing genesis insert", r.PreviousReferral)
		return true
	}

	if err := s.kv.Put(columnParent, r.Address[:], parent.Address[:]); err != nil {
		fault.PanicWithError("referral.InsertReferral parent", err)
		return false
	}

	children := s.GetChildren(parent.Address)
	children = append(children, r.Address)
	s.putChildren(parent.Address, children)

	return true
}

// RemoveReferral deletes r from the store and unlinks it from its
// parent's child list. Callers must remove children before parents.
func (s *Store) RemoveReferral(r Referral) bool {
	s.log.Debugf("remove referral %s", r.Address)

	if err := s.kv.Erase(columnReferrals, r.Address[:]); err != nil {
		fault.PanicWithError("referral.RemoveReferral", err)
		return false
	}

	var parentAddress Address
	if parent, found := s.GetReferral(r.ParentAddress); found {
		parentAddress = parent.Address
	}

	if err := s.kv.Erase(columnParent, r.Address[:]); err != nil {
		fault.PanicWithError("referral.RemoveReferral parent", err)
		return false
	}

	children := s.GetChildren(parentAddress).without(r.Address)
	s.putChildren(parentAddress, children)

	return true
}

// ReferralAddressExists reports whether addr has a confirmed referral.
func (s *Store) ReferralAddressExists(addr Address) bool {
	found, err := s.kv.Has(columnReferrals, addr[:])
	fault.PanicIfError("referral.ReferralAddressExists", err)
	return found
}

// WalletIdExists reports whether addr has a confirmed parent pointer.
// A root inserted with allowNoParent never satisfies this query.
func (s *Store) WalletIdExists(addr Address) bool {
	found, err := s.kv.Has(columnParent, addr[:])
	fault.PanicIfError("referral.WalletIdExists", err)
	return found
}

// GetANV returns the ANVRecord keyed by pubKeyId, if one exists.
func (s *Store) GetANV(pubKeyID Address) (ANVRecord, bool) {
	value, found, err := s.kv.Get(columnANV, pubKeyID[:])
	fault.PanicIfError("referral.GetANV", err)
	if !found {
		return ANVRecord{}, false
	}
	var anv ANVRecord
	fault.PanicIfError("referral.GetANV decode", decode(value, &anv))
	return anv, true
}

// GetAllANVs returns every ANVRecord in the store.
func (s *Store) GetAllANVs() []ANVRecord {
	return s.scanANVs(func(ANVRecord) bool { return true })
}

// GetAllRewardableANVs returns every ANVRecord whose addressType is
// one of the rewardable kinds (1 or 2).
func (s *Store) GetAllRewardableANVs() []ANVRecord {
	return s.scanANVs(func(anv ANVRecord) bool { return anv.AddressType.IsRewardable() })
}

func (s *Store) scanANVs(keep func(ANVRecord) bool) []ANVRecord {
	it := s.kv.Iterator(columnANV)
	defer it.Release()

	var anvs []ANVRecord
	for it.Next() {
		var anv ANVRecord
		fault.PanicIfError("referral.scanANVs decode", decode(it.Value(), &anv))
		if keep(anv) {
			anvs = append(anvs, anv)
		}
	}
	return anvs
}
