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

// DFAState identifies one state of an external DFA collaborator. The core
// treats it as an opaque comparable token; callers typically use an integer
// state index.
type DFAState any

// DFATransition is one outgoing range-labelled transition of a DFA state.
type DFATransition struct {
	Min, Max int
	Target   DFAState
}

// DFA is the minimal black-box contract the core needs from an external DFA
// representation: its initial state, a per-state outgoing transition list,
// and a finality predicate. The core never constructs or minimizes a DFA
// itself.
type DFA interface {
	Initial() DFAState
	Transitions(s DFAState) []DFATransition
	IsFinal(s DFAState) bool
}

// FromDFA mirrors dfa's transition graph into a fresh NFA by inverting each
// state's outgoing range-keyed transitions into CharSet-keyed edges to the
// corresponding mirror node, accumulating ranges that share a target by
// union before linking.
func FromDFA(dfa DFA, options NFAOptions) (*NFA, error) {
	result := New(options)
	nl := result.nodes

	mirror := map[DFAState]*Node{}
	initial := dfa.Initial()
	mirror[initial] = nl.Initial()

	visited := map[DFAState]bool{}
	queue := []DFAState{initial}

	mirrorOf := func(s DFAState) *Node {
		if n, ok := mirror[s]; ok {
			return n
		}
		n := nl.createNode()
		mirror[s] = n
		return n
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if visited[s] {
			continue
		}
		visited[s] = true

		if dfa.IsFinal(s) {
			nl.AddFinal(mirrorOf(s))
		}

		byTarget := map[DFAState][]CharRange{}
		var order []DFAState
		for _, t := range dfa.Transitions(s) {
			if _, ok := byTarget[t.Target]; !ok {
				order = append(order, t.Target)
			}
			byTarget[t.Target] = append(byTarget[t.Target], CharRange{t.Min, t.Max})
		}

		from := mirrorOf(s)
		for _, target := range order {
			chars, err := NewCharSet(options.MaxCharacter, byTarget[target]...)
			if err != nil {
				return nil, err
			}
			to := mirrorOf(target)
			if err := nl.LinkNodes(from, to, chars); err != nil {
				return nil, err
			}
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	return result, nil
}
