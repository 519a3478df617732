// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package referral

// OrderReferrals permutes refs in place into a breadth-first
// topological order: every referral ends up after its parent, where
// a referral's parent is either already confirmed in the store or
// appears earlier in refs. It returns false, leaving refs in a
// partially permuted (and unusable) state, if the batch has no
// anchor into the confirmed store or contains referrals disconnected
// from every anchor.
//
// A referral is a root if its parent address already resolves to a
// confirmed referral in the store.
func (s *Store) OrderReferrals(refs []Referral) bool {
	return orderReferrals(refs, func(r Referral) bool {
		_, found := s.GetReferral(r.ParentAddress)
		return found
	})
}

// orderReferrals is the pure BFS core of OrderReferrals, factored out
// so it can be exercised with a fake "is root" predicate in tests
// without needing a live store.
func orderReferrals(refs []Referral, isRoot func(Referral) bool) bool {
	if len(refs) == 0 {
		return true
	}

	var roots, interior []Referral
	for _, r := range refs {
		if isRoot(r) {
			roots = append(roots, r)
		} else {
			interior = append(interior, r)
		}
	}

	if len(roots) == 0 {
		return false
	}

	graph := make(map[Hash][]Referral, len(refs))
	for _, r := range roots {
		graph[r.CodeHash] = nil
	}
	for _, r := range interior {
		graph[r.PreviousReferral] = append(graph[r.PreviousReferral], r)
	}

	queue := make([]Referral, len(roots))
	copy(queue, roots)

	out := make([]Referral, 0, len(refs))
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		out = append(out, r)
		queue = append(queue, graph[r.CodeHash]...)
	}

	if len(out) != len(refs) {
		return false
	}

	copy(refs, out)
	return true
}
