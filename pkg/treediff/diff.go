// Package treediff computes the structural difference between two expanded
// artifact trees with a single merge-join pass over their sorted listings.
package treediff

import "iter"

// Diff lists both trees and returns the merge of their listings. An empty
// tree on either side yields an *EmptyArtifactError.
func Diff(treeA, treeB string, order Order) (iter.Seq[Entry], error) {
	a, err := List(treeA, order)
	if err != nil {
		return nil, err
	}
	b, err := List(treeB, order)
	if err != nil {
		return nil, err
	}

	if len(a) == 0 || len(b) == 0 {
		return nil, &EmptyArtifactError{
			TreeA:  treeA,
			TreeB:  treeB,
			EmptyA: len(a) == 0,
			EmptyB: len(b) == 0,
		}
	}

	return Merge(a, b, order), nil
}

// Merge walks two listings sorted by order in lockstep. The yielded entries
// follow the same order.
func Merge(a, b Listing, order Order) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		i, j := 0, 0
		for i < len(a) && j < len(b) {
			var e Entry
			switch c := order.Compare(a[i], b[j]); {
			case c == 0:
				e = Entry{Kind: KindCommon, Path: a[i]}
				i++
				j++
			case c < 0:
				e = Entry{Kind: KindAdded, Path: a[i]}
				i++
			default:
				e = Entry{Kind: KindRemoved, Path: b[j]}
				j++
			}
			if !yield(e) {
				return
			}
		}

		for ; i < len(a); i++ {
			if !yield(Entry{Kind: KindAdded, Path: a[i]}) {
				return
			}
		}
		for ; j < len(b); j++ {
			if !yield(Entry{Kind: KindRemoved, Path: b[j]}) {
				return
			}
		}
	}
}
