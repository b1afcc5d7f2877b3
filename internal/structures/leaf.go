// Copyright (c) 2025 SciGo MarkTree Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package structures

import "github.com/scigolib/marktree/internal/utils"

// Leaf is a bounded, ordered run of extents. The sum of the extent lengths
// is the leaf's contribution to the byte metric.
type Leaf struct {
	entries []Extent
}

// Entries exposes the extents for iteration.
func (l *Leaf) Entries() []Extent {
	return l.entries
}

// Summarize recomputes the leaf summary from scratch.
func (l *Leaf) Summarize() Summary {
	var s Summary
	for i := range l.entries {
		s.Bytes += l.entries[i].length
		for _, k := range l.entries[i].keys {
			s.IDs.Insert(k.ID())
		}
	}
	return s
}

// getLeft returns the leaf-relative offset of the id's left anchor: the
// start of the extent holding its start (or sole) key.
func (l *Leaf) getLeft(id uint64) (int, bool) {
	offset := 0
	for i := range l.entries {
		e := &l.entries[i]
		// Fast path: a key with no flags is its raw id.
		if e.containsRaw(Key(id)) {
			return offset, true
		}
		for _, k := range e.keys {
			if k.ID() == id && !k.Flags().Has(FlagEnd) {
				return offset, true
			}
		}
		offset += e.length
	}
	return 0, false
}

// getRight returns the distance from the leaf end to the start of the
// extent holding the id's right anchor: its end key, or its sole key for a
// mark without width.
func (l *Leaf) getRight(id uint64) (int, bool) {
	offset := 0
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := &l.entries[i]
		if e.containsRaw(Key(id)) {
			return offset + e.length, true
		}
		for _, k := range e.keys {
			if k.ID() != id {
				continue
			}
			// Skip the start key of a range pair; its end key may share
			// the extent after a collapsing shift.
			if k.Flags().Has(FlagEnd) || !k.Flags().Has(FlagRange) {
				return offset + e.length, true
			}
		}
		offset += e.length
	}
	return 0, false
}

// deleteKey removes one key carrying the id, start endpoint first, and
// keeps the leaf summary in sync. Returns the leaf-relative offset of the
// removed anchor.
func (l *Leaf) deleteKey(summary *Summary, id uint64) (int, bool) {
	offset := 0
	for i := range l.entries {
		e := &l.entries[i]
		if e.removeRaw(Key(id)) {
			_, ok := summary.IDs.Remove(id)
			utils.Assert(ok, "summary lost track of id %d", id)
			return offset, true
		}
		for j, k := range e.keys {
			if k.ID() != id {
				continue
			}
			e.removeAt(j)
			if k.Flags().Has(FlagRange) {
				// The pair endpoint may still live in this leaf, so the
				// duplicity count cannot be patched in place.
				*summary = l.Summarize()
			} else {
				_, ok := summary.IDs.Remove(id)
				utils.Assert(ok, "summary lost track of id %d", id)
			}
			return offset, true
		}
		offset += e.length
	}
	return 0, false
}

// Replacement is what a splice writes over the replaced byte range: either
// a gap of fresh empty bytes, or a single key stuck into a single byte.
type Replacement struct {
	gap   int
	key   Key
	isKey bool
}

// GapReplacement erases the spliced range and splices in n empty bytes.
func GapReplacement(n int) Replacement {
	return Replacement{gap: n}
}

// KeyReplacement anchors k at the (single-byte) spliced range.
func KeyReplacement(k Key) Replacement {
	return Replacement{key: k, isKey: true}
}

// replaceEntries rebuilds an extent run for the splice of repl over
// [start, end) and pushes the result into b. The run is the concatenation
// of every leaf the range touches; offsets are relative to its first byte.
func replaceEntries(b *extentBuilder, entries []Extent, start, end int, repl Replacement) {
	if repl.isKey {
		replaceEntriesKey(b, entries, start, end, repl.key)
	} else {
		replaceEntriesGap(b, entries, start, end, repl.gap)
	}
}

// replaceEntriesGap erases [start, end) and splices in a gap.
//
// Keys anchored strictly inside the erased range ride along in a pending
// set and land on the first byte after the gap. Keys anchored exactly at
// start are split by bias: left-biased ones stay at start, ahead of the
// gap, the rest ride right.
func replaceEntriesGap(b *extentBuilder, entries []Extent, start, end, gap int) {
	gapPending := true
	var pend []Key

	offset := 0
	for i := range entries {
		e := entries[i]
		entryEnd := offset + e.length

		if entryEnd < start || offset > end {
			b.pushExtent(e)
			offset = entryEnd
			continue
		}

		pend = append(pend, e.keys...)

		switch {
		case start > offset:
			// Re-emit the run preceding the erased range with every key
			// seen so far still anchored at offset.
			b.push(start-offset, takePending(&pend))
		case start == offset:
			if gapPending {
				gapPending = false
				if gap > 0 {
					var left []Key
					left, pend = partitionBias(pend)
					b.push(gap, sortKeys(left))
				}
			}
		default: // start < offset
			if gapPending {
				gapPending = false
				b.pushGap(gap)
			}
		}

		if entryEnd > end {
			if gapPending {
				gapPending = false
				b.pushGap(gap)
			}
			b.push(entryEnd-end, takePending(&pend))
		}

		offset = entryEnd
	}

	if gapPending {
		b.pushGap(gap)
	}
}

// replaceEntriesKey anchors key at the one-byte range [start, start+1).
func replaceEntriesKey(b *extentBuilder, entries []Extent, start, end int, key Key) {
	utils.Assert(start+1 == end, "a key replacement must span exactly one byte, got %d..%d", start, end)

	offset := 0
	for i := range entries {
		e := entries[i]
		entryEnd := offset + e.length

		if entryEnd <= start || offset >= end {
			b.pushExtent(e)
			offset = entryEnd
			continue
		}

		if start > offset {
			// Split the host extent: its own keys stay anchored at offset,
			// the new key gets a fresh one-byte extent at start.
			b.push(start-offset, e.keys)
			b.push(1, []Key{key})
		} else {
			// The key lands on the host extent's own anchor byte.
			e.insertKey(key)
			b.push(1, e.keys)
		}

		if entryEnd > end {
			b.pushGap(entryEnd - end)
		}

		offset = entryEnd
	}
}
