// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package nfa

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// CharRange is an inclusive closed interval of code points [Min, Max].
type CharRange struct {
	Min, Max int
}

// CharSet is an immutable sorted sequence of disjoint, non-adjacent, non-empty
// closed intervals over [0, maximum]. The zero value is not valid; use
// EmptyCharSet or NewCharSet.
type CharSet struct {
	ranges  []CharRange
	maximum int
}

// EmptyCharSet returns the empty set over the given alphabet.
func EmptyCharSet(maximum int) CharSet {
	return CharSet{maximum: maximum}
}

// SingletonCharSet returns the set containing exactly cp.
func SingletonCharSet(maximum, cp int) (CharSet, error) {
	return NewCharSet(maximum, CharRange{cp, cp})
}

// NewCharSet builds a CharSet from a list of ranges over the given maximum,
// sorting and coalescing overlapping or adjacent ranges. Fails with
// invalid-range if any range has Min > Max or Max > maximum, or Min < 0.
func NewCharSet(maximum int, ranges ...CharRange) (CharSet, error) {
	for _, r := range ranges {
		if r.Min < 0 || r.Min > r.Max || r.Max > maximum {
			return CharSet{}, wrapf(ErrInvalidRange, "NewCharSet")
		}
	}
	cp := append([]CharRange(nil), ranges...)
	slices.SortFunc(cp, func(a, b CharRange) bool { return a.Min < b.Min })
	return CharSet{ranges: coalesce(cp), maximum: maximum}, nil
}

// Maximum returns the inclusive upper bound of the alphabet this set is over.
func (s CharSet) Maximum() int { return s.maximum }

// Has reports whether cp is a member of the set.
func (s CharSet) Has(cp int) bool {
	for _, r := range s.ranges {
		if cp < r.Min {
			return false
		}
		if cp <= r.Max {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no members.
func (s CharSet) IsEmpty() bool { return len(s.ranges) == 0 }

// IsAll reports whether the set is exactly [0, maximum].
func (s CharSet) IsAll() bool {
	return len(s.ranges) == 1 && s.ranges[0].Min == 0 && s.ranges[0].Max == s.maximum
}

// Ranges returns a copy of the sorted disjoint ranges backing this set.
func (s CharSet) Ranges() []CharRange {
	return append([]CharRange(nil), s.ranges...)
}

func (s CharSet) checkAlphabet(other CharSet, op string) error {
	if s.maximum != other.maximum {
		return wrapf(ErrAlphabetMismatch, op)
	}
	return nil
}

// Union returns the set union of s and other. Fails with alphabet-mismatch if
// the two sets are not over the same maximum.
func (s CharSet) Union(other CharSet) (CharSet, error) {
	if err := s.checkAlphabet(other, "Union"); err != nil {
		return CharSet{}, err
	}
	return CharSet{ranges: unionRanges(s.ranges, other.ranges), maximum: s.maximum}, nil
}

// UnionRanges returns the set union of s and the given ranges. Fails with
// invalid-range if any range is out of order or crosses the maximum.
func (s CharSet) UnionRanges(ranges []CharRange) (CharSet, error) {
	other, err := NewCharSet(s.maximum, ranges...)
	if err != nil {
		return CharSet{}, err
	}
	return s.Union(other)
}

// Intersect returns the set intersection of s and other.
func (s CharSet) Intersect(other CharSet) (CharSet, error) {
	if err := s.checkAlphabet(other, "Intersect"); err != nil {
		return CharSet{}, err
	}
	return CharSet{ranges: intersectRanges(s.ranges, other.ranges), maximum: s.maximum}, nil
}

// Without returns s with every member of other removed.
func (s CharSet) Without(other CharSet) (CharSet, error) {
	if err := s.checkAlphabet(other, "Without"); err != nil {
		return CharSet{}, err
	}
	return CharSet{ranges: subtractRanges(s.ranges, other.ranges), maximum: s.maximum}, nil
}

// Negate returns [0, maximum] \ s.
func (s CharSet) Negate() CharSet {
	var out []CharRange
	next := 0
	for _, r := range s.ranges {
		if r.Min > next {
			out = append(out, CharRange{next, r.Min - 1})
		}
		next = r.Max + 1
	}
	if next <= s.maximum {
		out = append(out, CharRange{next, s.maximum})
	}
	return CharSet{ranges: out, maximum: s.maximum}
}

// IsSupersetOf reports whether r is fully contained within s.
func (s CharSet) IsSupersetOf(r CharRange) bool {
	for _, own := range s.ranges {
		if r.Min >= own.Min && r.Max <= own.Max {
			return true
		}
	}
	return false
}

// Equals reports whether s and other contain exactly the same code points
// over the same alphabet.
func (s CharSet) Equals(other CharSet) bool {
	if s.maximum != other.maximum || len(s.ranges) != len(other.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r != other.ranges[i] {
			return false
		}
	}
	return true
}

// RangesString renders the set per the engine's toString convention: a
// comma-separated list of either "hh" (singleton) or "lo..hi" (range),
// lower-case hex, no padding.
func (s CharSet) RangesString() string {
	parts := make([]string, 0, len(s.ranges))
	for _, r := range s.ranges {
		if r.Min == r.Max {
			parts = append(parts, fmt.Sprintf("%x", r.Min))
		} else {
			parts = append(parts, fmt.Sprintf("%x..%x", r.Min, r.Max))
		}
	}
	return strings.Join(parts, ",")
}

func (s CharSet) String() string {
	if s.IsEmpty() {
		return "<empty>"
	}
	return s.RangesString()
}

// coalesce merges overlapping or adjacent ranges in a Min-sorted slice.
func coalesce(rs []CharRange) []CharRange {
	if len(rs) == 0 {
		return nil
	}
	out := make([]CharRange, 0, len(rs))
	out = append(out, rs[0])
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.Min <= last.Max+1 {
			if r.Max > last.Max {
				last.Max = r.Max
			}
		} else {
			out = append(out, r)
		}
	}
	return out
}

func unionRanges(a, b []CharRange) []CharRange {
	merged := make([]CharRange, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	slices.SortFunc(merged, func(a, b CharRange) bool { return a.Min < b.Min })
	return coalesce(merged)
}

// intersectRanges is the standard two-pointer sweep over two sorted disjoint
// interval lists, grounded on the teacher's overlapRange split math (here
// simplified to the overlap-only portion, since union and subtraction have
// their own helpers).
func intersectRanges(a, b []CharRange) []CharRange {
	var out []CharRange
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := maxInt(a[i].Min, b[j].Min)
		hi := minInt(a[i].Max, b[j].Max)
		if lo <= hi {
			out = append(out, CharRange{lo, hi})
		}
		if a[i].Max < b[j].Max {
			i++
		} else {
			j++
		}
	}
	return out
}

// subtractRanges removes every member of b from a, both sorted disjoint
// interval lists, via the same 5-case overlap analysis the teacher's
// symbolRangeSubtract2 performs one range at a time, generalized to a sweep
// across sorted lists.
func subtractRanges(a, b []CharRange) []CharRange {
	var out []CharRange
	bi := 0
	for _, ra := range a {
		cur := ra
		for bi < len(b) && b[bi].Max < cur.Min {
			bi++
		}
		j := bi
		for j < len(b) && b[j].Min <= cur.Max && cur.Min <= cur.Max {
			if b[j].Min > cur.Min {
				out = append(out, CharRange{cur.Min, b[j].Min - 1})
			}
			if b[j].Max+1 > cur.Min {
				cur.Min = b[j].Max + 1
			}
			j++
		}
		if cur.Min <= cur.Max {
			out = append(out, cur)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
