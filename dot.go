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
	"log"
	"strings"
)

// Dot renders the automaton as a Graphviz "dot" graph for debugging. The
// graph is titled with the NodeList's build id so two renderings of the
// same automaton across a process's lifetime are identifiable.
func (a *NFA) Dot() string {
	nl := a.nodes
	log.Printf("6af9e7a9 rendering dot graph for build %s (%d nodes)", nl.buildID, nl.NumberOfNodes())
	var b strings.Builder
	fmt.Fprintf(&b, "digraph nfa_%s {\n", nl.buildID.String())
	b.WriteString("  rankdir=LR;\n")

	for _, n := range nl.Iterate() {
		shape := "circle"
		if nl.IsFinal(n) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  n%d [shape=%s,label=\"%d\"];\n", n.ID(), shape, n.ID())
	}
	fmt.Fprintf(&b, "  __start [shape=point];\n  __start -> n%d;\n", nl.Initial().ID())

	for _, n := range nl.Iterate() {
		for _, to := range n.OutNeighbors() {
			chars, _ := n.EdgeTo(to)
			fmt.Fprintf(&b, "  n%d -> n%d [label=%q];\n", n.ID(), to.ID(), chars.RangesString())
		}
	}
	b.WriteString("}\n")
	return b.String()
}
