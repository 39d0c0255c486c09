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
	"iter"
	"strings"
)

// NFA wraps a NodeList and the options it was built under.
type NFA struct {
	nodes   *NodeList
	options NFAOptions
}

// New creates an NFA accepting the empty language over the given options.
func New(options NFAOptions) *NFA {
	return &NFA{nodes: NewNodeList(options.MaxCharacter), options: options}
}

// Options returns the options this NFA was built under.
func (a *NFA) Options() NFAOptions { return a.options }

// Nodes exposes the underlying NodeList for callers that must manipulate it
// directly.
func (a *NFA) Nodes() *NodeList { return a.nodes }

func (a *NFA) checkAlphabet(other *NFA, op string) error {
	if a.options.MaxCharacter != other.options.MaxCharacter {
		return wrapf(ErrAlphabetMismatch, op)
	}
	return nil
}

// IsEmpty reports whether the NFA accepts no words at all.
func (a *NFA) IsEmpty() bool {
	return len(a.nodes.FinalNodes()) == 0
}

// IsFinite reports whether the NFA accepts finitely many words: true iff
// IsEmpty, or no cycle reachable from initial participates in a path from
// initial to some final. Computed by forward DFS with coloring, restricted
// to nodes that can still reach a final.
func (a *NFA) IsFinite() bool {
	if a.IsEmpty() {
		return true
	}
	canReachFinal := a.nodes.backwardReachable()

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[nodeID]int{}
	hasCycle := false

	var dfs func(n *Node)
	dfs = func(n *Node) {
		if hasCycle {
			return
		}
		color[n.id] = gray
		for _, to := range n.OutNeighbors() {
			if !canReachFinal[to.id] {
				continue
			}
			switch color[to.id] {
			case white:
				dfs(to)
				if hasCycle {
					return
				}
			case gray:
				hasCycle = true
				return
			}
		}
		color[n.id] = black
	}
	dfs(a.nodes.Initial())
	return !hasCycle
}

// Copy returns a fresh NFA accepting the same language.
func (a *NFA) Copy() (*NFA, error) {
	result := New(a.options)
	if err := result.Union(a); err != nil {
		return nil, err
	}
	return result, nil
}

// Test is a brute-force recursive conformance check: word is accepted iff,
// from the current node, some outgoing edge accepts the current code point
// and the remainder matches from the target node. Not a performance path —
// see the recursive-test design note.
func (a *NFA) Test(word []int) bool {
	return testFrom(a.nodes, a.nodes.Initial(), word)
}

func testFrom(nl *NodeList, n *Node, word []int) bool {
	if len(word) == 0 {
		return nl.IsFinal(n)
	}
	cp := word[0]
	for _, to := range n.OutNeighbors() {
		chars, _ := n.EdgeTo(to)
		if chars.Has(cp) && testFrom(nl, to, word[1:]) {
			return true
		}
	}
	return false
}

// WordSets lazily enumerates every accepted path as a sequence of CharSets,
// one per transition taken. The sequence may be infinite; callers control
// termination by returning false from their yield function.
func (a *NFA) WordSets() iter.Seq[[]CharSet] {
	nl := a.nodes
	return func(yield func([]CharSet) bool) {
		var walk func(n *Node, prefix []CharSet) bool
		walk = func(n *Node, prefix []CharSet) bool {
			if nl.IsFinal(n) {
				out := append([]CharSet(nil), prefix...)
				if !yield(out) {
					return false
				}
			}
			for _, to := range n.OutNeighbors() {
				chars, _ := n.EdgeTo(to)
				if !walk(to, append(prefix, chars)) {
					return false
				}
			}
			return true
		}
		walk(nl.Initial(), nil)
	}
}

// Words lazily enumerates concrete accepted words, expanding each word-set's
// per-transition CharSets into every concrete code-point combination. The
// sequence may be infinite.
func (a *NFA) Words() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for ws := range a.WordSets() {
			for w := range expandWordSet(ws) {
				if !yield(w) {
					return
				}
			}
		}
	}
}

func expandWordSet(ws []CharSet) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		var rec func(i int, acc []int) bool
		rec = func(i int, acc []int) bool {
			if i == len(ws) {
				return yield(append([]int(nil), acc...))
			}
			for _, r := range ws[i].Ranges() {
				for cp := r.Min; cp <= r.Max; cp++ {
					if !rec(i+1, append(acc, cp)) {
						return false
					}
				}
			}
			return true
		}
		rec(0, nil)
	}
}

func nodeLabel(nl *NodeList, n *Node, num int) string {
	if nl.IsFinal(n) {
		return fmt.Sprintf("[%d]", num)
	}
	return fmt.Sprintf("(%d)", num)
}

// String renders the NFA deterministically: one stanza per node in BFS
// order from initial, each a node label followed by its outgoing edges (or
// "  -> none"), stanzas separated by a blank line. Nodes are numbered by
// their position in that BFS order (0 for initial), not by their arena id;
// edges are listed in the order they were created.
func (a *NFA) String() string {
	nl := a.nodes
	order := nl.Iterate()
	num := make(map[nodeID]int, len(order))
	for i, n := range order {
		num[n.id] = i
	}
	stanzas := make([]string, 0, len(order))
	for _, n := range order {
		lines := []string{nodeLabel(nl, n, num[n.id])}
		outs := n.OutNeighbors()
		if len(outs) == 0 {
			lines = append(lines, "  -> none")
		} else {
			for _, to := range outs {
				chars, _ := n.EdgeTo(to)
				lines = append(lines, fmt.Sprintf("-> %s : %s", nodeLabel(nl, to, num[to.id]), chars.RangesString()))
			}
		}
		stanzas = append(stanzas, strings.Join(lines, "\n"))
	}
	return strings.Join(stanzas, "\n\n")
}

// Union alters a to accept L(a) ∪ L(other). A no-op when other == a.
func (a *NFA) Union(other *NFA) error {
	if err := a.checkAlphabet(other, "Union"); err != nil {
		return err
	}
	if other == a {
		return nil
	}
	imported, err := localCopy(a.nodes, other.nodes.root())
	if err != nil {
		return err
	}
	return baseUnion(a.nodes, a.nodes.root(), imported)
}

// Concat alters a to accept L(a)·L(other).
func (a *NFA) Concat(other *NFA) error {
	if err := a.checkAlphabet(other, "Concat"); err != nil {
		return err
	}
	if other == a {
		return a.Quantify(2, 2)
	}
	imported, err := localCopy(a.nodes, other.nodes.root())
	if err != nil {
		return err
	}
	return baseConcat(a.nodes, a.nodes.root(), imported)
}

// Quantify alters a to accept L(a){min,max}. max may be Unbounded.
func (a *NFA) Quantify(min, max int) error {
	if min < 0 {
		return wrapf(ErrInvalidRange, "Quantify")
	}
	if max != Unbounded && max < min {
		return wrapf(ErrInvalidRange, "Quantify")
	}
	return baseQuantify(a.nodes, a.nodes.root(), min, max)
}

// Intersect builds a fresh NFA accepting L(left) ∩ L(right) via the standard
// product construction. Fails with alphabet-mismatch if the two operands are
// not over the same maxCharacter.
func Intersect(left, right *NFA) (*NFA, error) {
	if left.options.MaxCharacter != right.options.MaxCharacter {
		return nil, wrapf(ErrAlphabetMismatch, "Intersect")
	}

	result := New(left.options)
	leftNodes := left.nodes.Iterate()
	rightNodes := right.nodes.Iterate()
	leftIndex := make(map[nodeID]int, len(leftNodes))
	for i, n := range leftNodes {
		leftIndex[n.id] = i
	}
	rightIndex := make(map[nodeID]int, len(rightNodes))
	for i, n := range rightNodes {
		rightIndex[n.id] = i
	}
	key := func(i, j int) int { return i*len(rightNodes) + j }

	product := map[int]*Node{key(0, 0): result.nodes.Initial()}
	getOrCreate := func(i, j int) *Node {
		k := key(i, j)
		if n, ok := product[k]; ok {
			return n
		}
		n := result.nodes.createNode()
		product[k] = n
		return n
	}

	type pair struct{ i, j int }
	visited := map[int]bool{key(0, 0): true}
	queue := []pair{{0, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		la, rb := leftNodes[cur.i], rightNodes[cur.j]
		prodNode := getOrCreate(cur.i, cur.j)

		if left.nodes.IsFinal(la) && right.nodes.IsFinal(rb) {
			result.nodes.AddFinal(prodNode)
		}

		for _, ap := range la.OutNeighbors() {
			sa, _ := la.EdgeTo(ap)
			for _, bp := range rb.OutNeighbors() {
				sb, _ := rb.EdgeTo(bp)
				s, err := sa.Intersect(sb)
				if err != nil {
					return nil, err
				}
				if s.IsEmpty() {
					continue
				}
				ni, nj := leftIndex[ap.id], rightIndex[bp.id]
				k2 := key(ni, nj)
				if !visited[k2] {
					visited[k2] = true
					queue = append(queue, pair{ni, nj})
				}
				target := getOrCreate(ni, nj)
				if err := result.nodes.LinkNodes(prodNode, target, s); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := result.nodes.RemoveUnreachable(); err != nil {
		return nil, err
	}
	if err := baseOptimizationReuseFinalStates(result.nodes, result.nodes.root()); err != nil {
		return nil, err
	}
	return result, nil
}
