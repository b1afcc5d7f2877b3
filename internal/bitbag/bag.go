// Copyright (c) 2025 SciGo MarkTree Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package bitbag

import "github.com/scigolib/marktree/internal/utils"

// Bag is a set of 48-bit values in which each value may be present up to
// two times. Level i holds the values present at least i+1 times, so
// levels[1] is always a subset of levels[0].
//
// Two copies are enough because a ranged mark contributes exactly two keys
// to a subtree summary, one per endpoint.
type Bag struct {
	levels [2]Bitmap48
}

// Insert adds one occurrence of the value and returns its new multiplicity.
// Inserting a third occurrence is a caller bug and panics.
func (b *Bag) Insert(value uint64) int {
	for i := range b.levels {
		if b.levels[i].Insert(value) {
			return i + 1
		}
	}
	utils.Violate(utils.OpDuplicityOverflow, "value %d exists 2 times already", value)
	return 0
}

// Remove deletes one occurrence of the value, highest level first, and
// returns the new multiplicity. Reports false when the value is absent.
func (b *Bag) Remove(value uint64) (int, bool) {
	for i := len(b.levels) - 1; i >= 0; i-- {
		if b.levels[i].Remove(value) {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether the value is present at least once.
func (b *Bag) Contains(value uint64) bool {
	return b.levels[0].Contains(value)
}

// Get returns the multiplicity of the value.
func (b *Bag) Get(value uint64) int {
	for i := len(b.levels) - 1; i >= 0; i-- {
		if b.levels[i].Contains(value) {
			return i + 1
		}
	}
	return 0
}

// IsEmpty reports whether no value is present.
func (b *Bag) IsEmpty() bool {
	return b.levels[0].IsEmpty()
}

// Iterate calls f for every distinct value in ascending order with its
// multiplicity, until f returns false.
func (b *Bag) Iterate(f func(value uint64, multiplicity int) bool) {
	b.levels[0].Iterate(func(v uint64) bool {
		m := 1
		if b.levels[1].Contains(v) {
			m = 2
		}
		return f(v, m)
	})
}

// Clone returns a deep copy.
func (b *Bag) Clone() Bag {
	return Bag{levels: [2]Bitmap48{b.levels[0].Clone(), b.levels[1].Clone()}}
}

// Equals reports whether both bags hold the same values with the same
// multiplicities.
func (b *Bag) Equals(other *Bag) bool {
	return b.levels[0].Equals(&other.levels[0]) && b.levels[1].Equals(&other.levels[1])
}

// UnionWith adds every occurrence of other to b.
//
// The values that end up with multiplicity 2 are those that had
// multiplicity 1 on both sides, plus those that already had 2 on either
// side. Occurrences beyond 2 are a caller bug and are ignored here; the
// subset invariant still holds.
func (b *Bag) UnionWith(other *Bag) {
	both := intersect(&b.levels[0], &other.levels[0])
	b.levels[1].UnionWith(&both)
	b.levels[1].UnionWith(&other.levels[1])
	b.levels[0].UnionWith(&other.levels[0])
	utils.Assert(b.levels[1].isSubsetOf(&b.levels[0]), "duplicity level 1 must be a subset of level 0")
}

// DifferenceWith removes every occurrence of other from b. The caller
// guarantees other is a sub-multiset of b.
func (b *Bag) DifferenceWith(other *Bag) {
	drop := other.levels[0].Clone()
	drop.SubtractAll(&b.levels[1])
	drop.UnionWith(&other.levels[1])
	b.levels[0].SubtractAll(&drop)
	b.levels[1].SubtractAll(&other.levels[0])
	utils.Assert(b.levels[1].isSubsetOf(&b.levels[0]), "duplicity level 1 must be a subset of level 0")
}

// FromValues builds a bag from the given values, one occurrence each in
// order of appearance.
func FromValues(values ...uint64) Bag {
	var b Bag
	for _, v := range values {
		b.Insert(v)
	}
	return b
}
