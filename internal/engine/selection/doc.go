// Package selection models cursors and selections as intervals over
// character offsets.
//
// A Region is an inclusive interval [Begin, Last] with a direction flag. A
// unit region (Begin == Last) is a bare cursor. A Selection is a normalized
// set of regions: sorted, pairwise disjoint and never adjacent, because
// inserting a region merges it with every region it touches. A Set is an
// ordered, non-empty list of selections whose first element is the primary
// selection that editing commands act on.
package selection
