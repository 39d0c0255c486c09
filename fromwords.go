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
	"encoding/binary"

	"github.com/dchest/siphash"
)

// wordKey hashes a word for cheap duplicate-word skipping before trie
// insertion. A hash collision between two distinct words must never be
// mistaken for a duplicate, so every hit is confirmed with an exact
// elementwise comparison before the trie walk is skipped.
func wordKey(word []int) uint64 {
	buf := make([]byte, 8*len(word))
	for i, cp := range word {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(cp))
	}
	return siphash.Hash(0, 0, buf)
}

func sameWord(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FromWords builds a longest-common-prefix trie NFA accepting exactly the
// given finite set of words. Fails with invalid-codepoint if any code point
// falls outside [0, options.MaxCharacter].
func FromWords(words [][]int, options NFAOptions) (*NFA, error) {
	result := New(options)
	nl := result.nodes
	seen := map[uint64][][]int{}

	for _, word := range words {
		key := wordKey(word)
		duplicate := false
		for _, prior := range seen[key] {
			if sameWord(prior, word) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		seen[key] = append(seen[key], word)

		cur := nl.Initial()
		for _, cp := range word {
			if cp < 0 || cp > options.MaxCharacter {
				return nil, wrapf(ErrInvalidCodepoint, "FromWords")
			}
			next, err := followOrCreate(nl, cur, cp)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		nl.AddFinal(cur)
	}

	if err := baseOptimizationReuseFinalStates(nl, nl.root()); err != nil {
		return nil, err
	}
	return result, nil
}

// followOrCreate returns the child of from reached by code point cp,
// creating a fresh singleton-labelled edge if none of from's existing edges
// already cover cp.
func followOrCreate(nl *NodeList, from *Node, cp int) (*Node, error) {
	for _, to := range from.OutNeighbors() {
		chars, _ := from.EdgeTo(to)
		if chars.Has(cp) {
			return to, nil
		}
	}
	singleton, err := SingletonCharSet(nl.MaxCharacter(), cp)
	if err != nil {
		return nil, err
	}
	child := nl.createNode()
	if err := nl.LinkNodes(from, child, singleton); err != nil {
		return nil, err
	}
	return child, nil
}
