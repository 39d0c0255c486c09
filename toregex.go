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

// Emitter produces a regex AST equivalent to a graph, given its entry
// points. The core makes no commitment about the shape of the returned tree
// beyond language equivalence; ToRegex only threads the graph's shape
// through to whichever Emitter the caller supplies.
type Emitter interface {
	Emit(initial *Node, outgoing func(*Node) []edgeSnapshot, isFinal func(*Node) bool) Expression
}

// ToRegex hands the automaton's entry points to emitter and returns the
// resulting AST.
func (a *NFA) ToRegex(emitter Emitter) Expression {
	nl := a.nodes
	outgoing := func(n *Node) []edgeSnapshot { return outEdgeSnapshot(n) }
	isFinal := func(n *Node) bool { return nl.IsFinal(n) }
	return emitter.Emit(nl.Initial(), outgoing, isFinal)
}

// stateElimEmitter is a reference Emitter used by this module's own
// round-trip tests. It eliminates states one at a time, rewriting every
// pair of surviving in/out edges through the eliminated state's self-loop
// (if any), then folds the resulting two-state graph into an Expression.
// Grounded on the classic state-elimination construction; not tuned for
// output compactness.
type stateElimEmitter struct{}

type elimEdge struct {
	to  int
	lbl Expression
}

func (stateElimEmitter) Emit(initial *Node, outgoing func(*Node) []edgeSnapshot, isFinal func(*Node) bool) Expression {
	order := []*Node{}
	seen := map[*Node]bool{}
	var collect func(n *Node)
	collect = func(n *Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		order = append(order, n)
		for _, e := range outgoing(n) {
			collect(e.to)
		}
	}
	collect(initial)

	index := map[*Node]int{}
	for i, n := range order {
		index[n] = i
	}
	const finalSink = -1
	n := len(order)

	edges := map[int][]elimEdge{}
	for i, node := range order {
		for _, e := range outgoing(node) {
			edges[i] = append(edges[i], elimEdge{index[e.to], charSetExpr(e.chars)})
		}
		if isFinal(node) {
			edges[i] = append(edges[i], elimEdge{finalSink, epsilonExpr()})
		}
	}

	// The initial state (index 0, since collect visits it first) is never
	// eliminated — elimination removes every other state until only direct
	// transitions from the start remain, which the pass below unwinds.
	for elim := 1; elim < n; elim++ {
		var selfLoop Expression
		hasSelfLoop := false
		var remaining []elimEdge
		for _, e := range edges[elim] {
			if e.to == elim {
				selfLoop = unionExprs(selfLoop, e.lbl, hasSelfLoop)
				hasSelfLoop = true
			} else {
				remaining = append(remaining, e)
			}
		}
		edges[elim] = remaining

		var starred *Expression
		if hasSelfLoop {
			s := starExpr(selfLoop)
			starred = &s
		}

		for from := range edges {
			if from == elim {
				continue
			}
			var throughs []elimEdge
			var rest []elimEdge
			for _, e := range edges[from] {
				if e.to == elim {
					throughs = append(throughs, e)
				} else {
					rest = append(rest, e)
				}
			}
			if len(throughs) == 0 {
				continue
			}
			for _, through := range throughs {
				for _, out := range edges[elim] {
					lbl := through.lbl
					if starred != nil {
						lbl = concatExpr(lbl, *starred)
					}
					lbl = concatExpr(lbl, out.lbl)
					rest = append(rest, elimEdge{out.to, lbl})
				}
			}
			edges[from] = rest
		}
		delete(edges, elim)
	}

	// Every other state is gone: edges[0] now contains only a possible
	// self-loop on the start state plus direct transitions to finalSink.
	var startSelfLoop Expression
	hasStartSelfLoop := false
	var toFinal []elimEdge
	startIdx := index[initial]
	for _, e := range edges[startIdx] {
		if e.to == startIdx {
			startSelfLoop = unionExprs(startSelfLoop, e.lbl, hasStartSelfLoop)
			hasStartSelfLoop = true
		} else {
			toFinal = append(toFinal, e)
		}
	}

	var alts []Concatenation
	for _, e := range toFinal {
		if e.to != finalSink {
			continue
		}
		lbl := e.lbl
		if hasStartSelfLoop {
			lbl = concatExpr(starExpr(startSelfLoop), lbl)
		}
		alts = append(alts, toConcatenation(lbl))
	}
	return Expression{Alternatives: alts}
}

func epsilonExpr() Expression {
	return Expression{Alternatives: []Concatenation{{}}}
}

func charSetExpr(cs CharSet) Expression {
	return Expression{Alternatives: []Concatenation{{Elements: []Element{
		{Kind: ElementCharacterClass, Characters: cs},
	}}}}
}

func starExpr(e Expression) Expression {
	return Expression{Alternatives: []Concatenation{{Elements: []Element{
		{Kind: ElementQuantifier, Alternatives: e.Alternatives, Min: 0, Max: Unbounded},
	}}}}
}

func concatExpr(a, b Expression) Expression {
	var elements []Element
	elements = append(elements, Element{Kind: ElementAlternation, Alternatives: a.Alternatives})
	elements = append(elements, Element{Kind: ElementAlternation, Alternatives: b.Alternatives})
	return Expression{Alternatives: []Concatenation{{Elements: elements}}}
}

func unionExprs(acc, next Expression, hasAcc bool) Expression {
	if !hasAcc {
		return next
	}
	return Expression{Alternatives: append(append([]Concatenation{}, acc.Alternatives...), next.Alternatives...)}
}

func toConcatenation(e Expression) Concatenation {
	if len(e.Alternatives) == 1 {
		return e.Alternatives[0]
	}
	return Concatenation{Elements: []Element{{Kind: ElementAlternation, Alternatives: e.Alternatives}}}
}
