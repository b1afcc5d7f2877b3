package structures

// Scan walks the keys anchored in [start, end) in ascending anchor order.
// It follows the scanner pattern: call Next until it returns false.
//
// The walk descends only into subtrees that can contain an in-window
// anchor and visits each leaf at most once.
type Scan struct {
	start, end int
	frames     []scanFrame
	entries    []Extent
	entryIdx   int
	keyIdx     int
	offset     int // anchor of the current extent
	done       bool
}

type scanFrame struct {
	n      *node
	idx    int
	offset int // byte offset of child idx
}

// Scan returns a scanner over the keys anchored in [start, end).
func (t *Tree) Scan(start, end int) *Scan {
	s := &Scan{start: start, end: end}
	if t.empty() || start >= end {
		s.done = true
		return s
	}
	if t.root.height == 0 {
		s.entries = t.root.leaf.entries
	} else {
		s.frames = append(s.frames, scanFrame{n: t.root})
	}
	return s
}

// Next returns the next anchored key and its byte offset.
func (s *Scan) Next() (int, Key, bool) {
	for !s.done {
		for s.entryIdx < len(s.entries) {
			e := &s.entries[s.entryIdx]
			if s.offset >= s.end {
				s.done = true
				return 0, 0, false
			}
			if s.offset < s.start {
				s.offset += e.length
				s.entryIdx++
				s.keyIdx = 0
				continue
			}
			if s.keyIdx < len(e.keys) {
				k := e.keys[s.keyIdx]
				s.keyIdx++
				return s.offset, k, true
			}
			s.offset += e.length
			s.entryIdx++
			s.keyIdx = 0
		}
		s.entries = nil
		s.entryIdx = 0
		s.keyIdx = 0

		if len(s.frames) == 0 {
			s.done = true
			break
		}
		frame := &s.frames[len(s.frames)-1]
		if frame.idx >= len(frame.n.children) {
			s.frames = s.frames[:len(s.frames)-1]
			continue
		}
		c := frame.n.children[frame.idx]
		childStart := frame.offset
		childEnd := childStart + c.summary.Bytes
		frame.idx++
		frame.offset = childEnd

		if childEnd <= s.start {
			continue
		}
		if childStart >= s.end {
			// Nothing further right can be in the window either.
			s.done = true
			break
		}
		if c.height == 0 {
			s.entries = c.leaf.entries
			s.offset = childStart
		} else {
			s.frames = append(s.frames, scanFrame{n: c, offset: childStart})
		}
	}
	return 0, 0, false
}
