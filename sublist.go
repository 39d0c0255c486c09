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

// Unbounded is the sentinel value for an unbounded quantifier max.
const Unbounded = -1

// subList is a transient {initial, final} view into a NodeList describing a
// sub-automaton under construction. It is not a container of its own; final
// may alias a NodeList's own final set (see NodeList.root) or be a private
// set used only during compilation.
type subList struct {
	initial *Node
	final   *orderedSet[nodeID]
}

func newSubList(initial *Node) *subList {
	return &subList{initial: initial, final: newOrderedSet[nodeID]()}
}

func (sl *subList) isFinal(n *Node) bool { return sl.final.contains(n.id) }
func (sl *subList) addFinal(n *Node)     { sl.final.insert(n.id) }
func (sl *subList) removeFinal(n *Node)  { sl.final.erase(n.id) }

// finalsSnapshot returns the current finals as Node pointers, in insertion
// order, safe to range over while base.final is mutated.
func (sl *subList) finalsSnapshot() []*Node {
	ids := sl.final.items()
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = sl.initial.list.nodes[id]
	}
	return out
}

type edgeSnapshot struct {
	to    *Node
	chars CharSet
}

func outEdgeSnapshot(n *Node) []edgeSnapshot {
	neighbors := n.OutNeighbors()
	out := make([]edgeSnapshot, len(neighbors))
	for i, to := range neighbors {
		chars, _ := n.EdgeTo(to)
		out[i] = edgeSnapshot{to, chars}
	}
	return out
}

// baseMakeEmpty detaches every outgoing edge of base.initial and clears
// base.final: base now accepts the empty language.
func baseMakeEmpty(nl *NodeList, base *subList) error {
	for _, to := range base.initial.OutNeighbors() {
		if err := nl.UnlinkNodes(base.initial, to); err != nil {
			return err
		}
	}
	base.final.clear()
	return nil
}

// baseReplaceWith replaces base in place with replacement, destroying
// replacement.
func baseReplaceWith(nl *NodeList, base, replacement *subList) error {
	if err := baseMakeEmpty(nl, base); err != nil {
		return err
	}
	for _, f := range replacement.finalsSnapshot() {
		if f.id == replacement.initial.id {
			base.addFinal(base.initial)
		} else {
			base.addFinal(f)
		}
	}
	for _, e := range outEdgeSnapshot(replacement.initial) {
		if err := nl.UnlinkNodes(replacement.initial, e.to); err != nil {
			return err
		}
		if err := nl.LinkNodes(base.initial, e.to, e.chars); err != nil {
			return err
		}
	}
	return nil
}

// baseUnion alters base to accept L(base) ∪ L(alt), destroying alt.
func baseUnion(nl *NodeList, base, alt *subList) error {
	for _, f := range alt.finalsSnapshot() {
		if f.id == alt.initial.id {
			base.addFinal(base.initial)
		} else {
			base.addFinal(f)
		}
	}
	for _, e := range outEdgeSnapshot(alt.initial) {
		if err := nl.UnlinkNodes(alt.initial, e.to); err != nil {
			return err
		}
		if err := nl.LinkNodes(base.initial, e.to, e.chars); err != nil {
			return err
		}
	}
	return baseOptimizationReuseFinalStates(nl, base)
}

// baseConcat alters base to accept L(base)·L(after), destroying after.
func baseConcat(nl *NodeList, base, after *subList) error {
	if base.final.len() == 0 {
		return nil
	}
	if after.final.len() == 0 {
		return baseMakeEmpty(nl, base)
	}
	afterInitialWasFinal := after.isFinal(after.initial)
	snapshot := outEdgeSnapshot(after.initial)
	for _, f := range base.finalsSnapshot() {
		for _, e := range snapshot {
			if err := nl.LinkNodes(f, e.to, e.chars); err != nil {
				return err
			}
		}
	}
	for _, e := range snapshot {
		if err := nl.UnlinkNodes(after.initial, e.to); err != nil {
			return err
		}
	}
	if !afterInitialWasFinal {
		base.final.clear()
	}
	for _, f := range after.finalsSnapshot() {
		if f.id != after.initial.id {
			base.addFinal(f)
		}
	}
	return nil
}

// basePlus produces L(base)⁺ by copying base.initial's outgoing edges onto
// every non-initial final. It does not modify base.final.
func basePlus(nl *NodeList, base *subList) error {
	initialEdges := outEdgeSnapshot(base.initial)
	for _, f := range base.finalsSnapshot() {
		if f.id == base.initial.id {
			continue
		}
		for _, e := range initialEdges {
			if err := nl.LinkNodes(f, e.to, e.chars); err != nil {
				return err
			}
		}
	}
	return nil
}

// isEmptyLanguage reports L(base) = ∅.
func isEmptyLanguage(base *subList) bool {
	return base.final.len() == 0
}

// isEpsilonOnlyLanguage reports L(base) = {ε}: accepts exactly the empty
// word and nothing else.
func isEpsilonOnlyLanguage(base *subList) bool {
	return base.final.len() == 1 &&
		base.isFinal(base.initial) &&
		len(base.initial.OutNeighbors()) == 0
}

// baseRepeat produces L(base)ⁿ, n >= 0.
func baseRepeat(nl *NodeList, base *subList, n int) error {
	if n == 0 {
		if err := baseMakeEmpty(nl, base); err != nil {
			return err
		}
		base.addFinal(base.initial)
		return nil
	}
	if n == 1 {
		return nil
	}
	if isEmptyLanguage(base) || isEpsilonOnlyLanguage(base) {
		return nil
	}
	if !base.isFinal(base.initial) {
		copy, err := localCopy(nl, base)
		if err != nil {
			return err
		}
		for i := 0; i < n-2; i++ {
			c, err := localCopy(nl, copy)
			if err != nil {
				return err
			}
			if err := baseConcat(nl, base, c); err != nil {
				return err
			}
		}
		return baseConcat(nl, base, copy)
	}

	// base.initial is final: base accepts ε. Plain repeated concatenation of
	// a nullable automaton would re-derive O(n^2) redundant transitions, since
	// each concat step would otherwise need to preserve every intermediate
	// final state reached by stopping early. Instead accumulate the true
	// final-state set externally and strip epsilon-acceptance from the
	// working copy so each concat step only grows the graph, not the final
	// bookkeeping.
	realFinals := newOrderedSet[nodeID]()
	for _, f := range base.finalsSnapshot() {
		realFinals.insert(f.id)
	}
	base.removeFinal(base.initial)
	copy, err := localCopy(nl, base)
	if err != nil {
		return err
	}
	for i := 0; i < n-2; i++ {
		c, err := localCopy(nl, copy)
		if err != nil {
			return err
		}
		if err := baseConcat(nl, base, c); err != nil {
			return err
		}
		for _, f := range base.finalsSnapshot() {
			realFinals.insert(f.id)
		}
	}
	if err := baseConcat(nl, base, copy); err != nil {
		return err
	}
	for _, f := range base.finalsSnapshot() {
		realFinals.insert(f.id)
	}
	base.final.clear()
	for _, id := range realFinals.items() {
		base.addFinal(nl.node(id))
	}
	return nil
}

// baseQuantify produces L(base){min,max}, 0 <= min <= max (max may be
// Unbounded).
func baseQuantify(nl *NodeList, base *subList, min, max int) error {
	if max == 0 {
		if err := baseMakeEmpty(nl, base); err != nil {
			return err
		}
		base.addFinal(base.initial)
		return nil
	}
	if base.isFinal(base.initial) {
		min = 0
	}
	if min == 0 {
		base.addFinal(base.initial)
	}
	if max == 1 {
		return nil
	}
	if max != Unbounded && min == max {
		return baseRepeat(nl, base, min)
	}
	if max != Unbounded && min < max {
		copy, err := localCopy(nl, base)
		if err != nil {
			return err
		}
		copy.addFinal(copy.initial)
		if err := baseRepeat(nl, copy, max-min); err != nil {
			return err
		}
		if err := baseRepeat(nl, base, min); err != nil {
			return err
		}
		return baseConcat(nl, base, copy)
	}
	if max == Unbounded && min <= 1 {
		return basePlus(nl, base)
	}
	// max == Unbounded && min > 1
	copy, err := localCopy(nl, base)
	if err != nil {
		return err
	}
	if err := basePlus(nl, copy); err != nil {
		return err
	}
	if err := baseRepeat(nl, base, min-1); err != nil {
		return err
	}
	return baseConcat(nl, base, copy)
}

// baseOptimizationReuseFinalStates merges childless finals other than the
// initial into one shared sink. Does not change the accepted language.
func baseOptimizationReuseFinalStates(nl *NodeList, base *subList) error {
	var sinks []*Node
	for _, f := range base.finalsSnapshot() {
		if f.id == base.initial.id {
			continue
		}
		if len(f.OutNeighbors()) == 0 {
			sinks = append(sinks, f)
		}
	}
	if len(sinks) < 2 {
		return nil
	}
	rep := sinks[0]
	for _, extra := range sinks[1:] {
		for _, from := range extra.InNeighbors() {
			chars, _ := from.EdgeTo(extra)
			if err := nl.UnlinkNodes(from, extra); err != nil {
				return err
			}
			if err := nl.LinkNodes(from, rep, chars); err != nil {
				return err
			}
		}
		base.removeFinal(extra)
	}
	return nil
}

// localCopy depth-first clones the sub-automaton toCopy into nl, preserving
// edge labels. toCopy may belong to a different NodeList than nl, which is
// how NFA.Union/NFA.Concat import a foreign automaton's structure. The
// clone's initial is newly created with an empty in-map, satisfying
// normalization.
//
// Every label copied here came from an existing edge of toCopy, so it is
// non-empty by invariant 2, and every node involved was just created in nl,
// so LinkNodes cannot fail; the error return exists only so callers do not
// need a separate infallible variant.
func localCopy(nl *NodeList, toCopy *subList) (*subList, error) {
	mapping := map[nodeID]*Node{}
	visited := map[nodeID]bool{}

	newInitial := nl.createNode()
	mapping[toCopy.initial.id] = newInitial

	mapped := func(n *Node) *Node {
		if dst, ok := mapping[n.id]; ok {
			return dst
		}
		dst := nl.createNode()
		mapping[n.id] = dst
		return dst
	}

	var walkErr error
	var visit func(n *Node)
	visit = func(n *Node) {
		if visited[n.id] || walkErr != nil {
			return
		}
		visited[n.id] = true
		src := mapped(n)
		for _, e := range outEdgeSnapshot(n) {
			dst := mapped(e.to)
			if err := nl.LinkNodes(src, dst, e.chars); err != nil {
				walkErr = err
				return
			}
			visit(e.to)
		}
	}
	visit(toCopy.initial)
	if walkErr != nil {
		return nil, walkErr
	}

	result := newSubList(newInitial)
	for _, f := range toCopy.finalsSnapshot() {
		result.addFinal(mapped(f))
	}
	return result, nil
}
