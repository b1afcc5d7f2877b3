// Copyright (c) 2025 SciGo MarkTree Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package bitbag implements compressed bitmaps over 48-bit values, including
// a bounded-multiplicity variant used by tree summaries.
package bitbag

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/scigolib/marktree/internal/utils"
)

// Bitmap48 is a set of 48-bit values. It splits each value into a 16-bit
// high part and a 32-bit low part; low parts live in roaring containers
// keyed by the high part. Inserting a value with any of the upper 16 bits
// set panics, which catches id truncation bugs early.
type Bitmap48 struct {
	containers []container // sorted by hi
}

type container struct {
	hi uint16
	bm *roaring.Bitmap
}

func split(value uint64) (uint16, uint32) {
	if value>>48 != 0 {
		utils.Violate(utils.OpIDOverflow, "upper 16 bits of value %#x must be unused", value)
	}
	return uint16(value >> 32), uint32(value)
}

func combine(hi uint16, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// find returns the index of the container for hi, or the insertion index
// and false when it does not exist.
func (b *Bitmap48) find(hi uint16) (int, bool) {
	i := sort.Search(len(b.containers), func(i int) bool {
		return b.containers[i].hi >= hi
	})
	return i, i < len(b.containers) && b.containers[i].hi == hi
}

// Insert adds the value and reports whether it was absent.
func (b *Bitmap48) Insert(value uint64) bool {
	hi, lo := split(value)
	i, ok := b.find(hi)
	if !ok {
		b.containers = append(b.containers, container{})
		copy(b.containers[i+1:], b.containers[i:])
		b.containers[i] = container{hi: hi, bm: roaring.New()}
	}
	return b.containers[i].bm.CheckedAdd(lo)
}

// Remove deletes the value and reports whether it was present.
// Emptied containers are dropped so equality stays structural.
func (b *Bitmap48) Remove(value uint64) bool {
	hi, lo := split(value)
	i, ok := b.find(hi)
	if !ok {
		return false
	}
	if !b.containers[i].bm.CheckedRemove(lo) {
		return false
	}
	if b.containers[i].bm.IsEmpty() {
		b.containers = append(b.containers[:i], b.containers[i+1:]...)
	}
	return true
}

// Contains reports whether the value is present.
func (b *Bitmap48) Contains(value uint64) bool {
	hi, lo := split(value)
	i, ok := b.find(hi)
	return ok && b.containers[i].bm.Contains(lo)
}

// IsEmpty reports whether the set has no values.
func (b *Bitmap48) IsEmpty() bool {
	return len(b.containers) == 0
}

// Iterate calls f for every value in ascending order until f returns false.
func (b *Bitmap48) Iterate(f func(value uint64) bool) {
	for _, c := range b.containers {
		stopped := false
		c.bm.Iterate(func(lo uint32) bool {
			if !f(combine(c.hi, lo)) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
	}
}

// Values collects every value in ascending order.
func (b *Bitmap48) Values() []uint64 {
	var out []uint64
	b.Iterate(func(v uint64) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Clone returns a deep copy.
func (b *Bitmap48) Clone() Bitmap48 {
	out := Bitmap48{containers: make([]container, len(b.containers))}
	for i, c := range b.containers {
		out.containers[i] = container{hi: c.hi, bm: c.bm.Clone()}
	}
	return out
}

// Equals reports whether both sets hold exactly the same values.
func (b *Bitmap48) Equals(other *Bitmap48) bool {
	if len(b.containers) != len(other.containers) {
		return false
	}
	for i, c := range b.containers {
		o := other.containers[i]
		if c.hi != o.hi || !c.bm.Equals(o.bm) {
			return false
		}
	}
	return true
}

// UnionWith adds every value of other to b.
func (b *Bitmap48) UnionWith(other *Bitmap48) {
	for _, oc := range other.containers {
		i, ok := b.find(oc.hi)
		if !ok {
			b.containers = append(b.containers, container{})
			copy(b.containers[i+1:], b.containers[i:])
			b.containers[i] = container{hi: oc.hi, bm: oc.bm.Clone()}
			continue
		}
		b.containers[i].bm.Or(oc.bm)
	}
}

// SubtractAll removes every value of other from b.
func (b *Bitmap48) SubtractAll(other *Bitmap48) {
	for _, oc := range other.containers {
		i, ok := b.find(oc.hi)
		if !ok {
			continue
		}
		b.containers[i].bm.AndNot(oc.bm)
		if b.containers[i].bm.IsEmpty() {
			b.containers = append(b.containers[:i], b.containers[i+1:]...)
		}
	}
}

// intersect returns the values present in both a and b as a new set.
func intersect(a, b *Bitmap48) Bitmap48 {
	var out Bitmap48
	for _, ac := range a.containers {
		i, ok := b.find(ac.hi)
		if !ok {
			continue
		}
		bm := roaring.And(ac.bm, b.containers[i].bm)
		if !bm.IsEmpty() {
			out.containers = append(out.containers, container{hi: ac.hi, bm: bm})
		}
	}
	return out
}

// isSubsetOf reports whether every value of b is also in other.
func (b *Bitmap48) isSubsetOf(other *Bitmap48) bool {
	for _, c := range b.containers {
		i, ok := other.find(c.hi)
		if !ok {
			return false
		}
		if roaring.AndNot(c.bm, other.containers[i].bm).GetCardinality() != 0 {
			return false
		}
	}
	return true
}
