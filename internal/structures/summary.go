package structures

import "github.com/scigolib/marktree/internal/bitbag"

// Summary aggregates a subtree: the bytes it spans and a duplicity bag of
// every mark id anchored anywhere below. Bytes is the navigation metric;
// the bag lets descents skip subtrees that cannot contain an id.
type Summary struct {
	Bytes int
	IDs   bitbag.Bag
}

// Add folds other into s. Folding child summaries upward is associative.
func (s *Summary) Add(other *Summary) {
	s.Bytes += other.Bytes
	s.IDs.UnionWith(&other.IDs)
}

// Sub removes other from s. The caller guarantees other is a sub-summary
// of s, i.e. it describes content actually contained below s.
func (s *Summary) Sub(other *Summary) {
	s.Bytes -= other.Bytes
	s.IDs.DifferenceWith(&other.IDs)
}

// Equals reports whether both summaries describe the same content.
func (s *Summary) Equals(other *Summary) bool {
	return s.Bytes == other.Bytes && s.IDs.Equals(&other.IDs)
}

// Clone returns a deep copy.
func (s *Summary) Clone() Summary {
	return Summary{Bytes: s.Bytes, IDs: s.IDs.Clone()}
}
