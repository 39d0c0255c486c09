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
	"log"

	"github.com/google/uuid"
)

// nodeCountWarnThreshold is the node count past which createNode logs a
// construction-size warning. Chosen high enough that ordinary test-sized
// automata never trip it.
const nodeCountWarnThreshold = 100000

// nodeID is a node's identity, stable and unique within its owning NodeList.
type nodeID int32

// Node is one NFA state, owned by exactly one NodeList for its entire life.
type Node struct {
	id   nodeID
	list *NodeList
	out  *orderedMap[nodeID, CharSet]
	in   *orderedMap[nodeID, CharSet]
}

// ID returns the node's stable id within its owning NodeList.
func (n *Node) ID() int { return int(n.id) }

// OutNeighbors returns the nodes n has outgoing edges to, in the order those
// edges were created.
func (n *Node) OutNeighbors() []*Node {
	ids := n.out.keys()
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = n.list.nodes[id]
	}
	return out
}

// InNeighbors returns the nodes with outgoing edges into n, in the order
// those edges were created.
func (n *Node) InNeighbors() []*Node {
	ids := n.in.keys()
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = n.list.nodes[id]
	}
	return out
}

// EdgeTo returns the label of the edge from n to to, if one exists.
func (n *Node) EdgeTo(to *Node) (CharSet, bool) {
	return n.out.at(to.id)
}

// NodeList is the arena that owns every node of one NFA. It names a single
// initial node (created at construction) and a mutable set of final nodes.
type NodeList struct {
	buildID      uuid.UUID
	nextID       nodeID
	nodes        map[nodeID]*Node
	initial      nodeID
	final        *orderedSet[nodeID]
	maxCharacter int
}

// NewNodeList creates a NodeList with a single initial node and an empty
// final set over the given alphabet.
func NewNodeList(maxCharacter int) *NodeList {
	nl := &NodeList{
		buildID:      uuid.New(),
		nodes:        map[nodeID]*Node{},
		final:        newOrderedSet[nodeID](),
		maxCharacter: maxCharacter,
	}
	init := nl.createNode()
	nl.initial = init.id
	return nl
}

// MaxCharacter returns the inclusive alphabet upper bound shared by every
// edge label in this list.
func (nl *NodeList) MaxCharacter() int { return nl.maxCharacter }

func (nl *NodeList) createNode() *Node {
	id := nl.nextID
	nl.nextID++
	n := &Node{
		id:   id,
		list: nl,
		out:  newOrderedMap[nodeID, CharSet](),
		in:   newOrderedMap[nodeID, CharSet](),
	}
	nl.nodes[id] = n
	if len(nl.nodes) == nodeCountWarnThreshold {
		log.Printf("6af9e7a9 build %s has grown past %d nodes", nl.buildID, nodeCountWarnThreshold)
	}
	return n
}

// Initial returns the list's initial node.
func (nl *NodeList) Initial() *Node { return nl.nodes[nl.initial] }

// IsFinal reports whether n is a member of this list's final set.
func (nl *NodeList) IsFinal(n *Node) bool { return nl.final.contains(n.id) }

// AddFinal adds n to the final set.
func (nl *NodeList) AddFinal(n *Node) { nl.final.insert(n.id) }

// RemoveFinal removes n from the final set.
func (nl *NodeList) RemoveFinal(n *Node) { nl.final.erase(n.id) }

// FinalNodes returns a snapshot of the final set in insertion order.
func (nl *NodeList) FinalNodes() []*Node {
	ids := nl.final.items()
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = nl.nodes[id]
	}
	return out
}

func (nl *NodeList) node(id nodeID) *Node { return nl.nodes[id] }

// NumberOfNodes returns the number of live nodes in this list.
func (nl *NodeList) NumberOfNodes() int { return len(nl.nodes) }

// LinkNodes links from->to with chars, merging by union onto any existing
// edge between the two. Fails with cross-list-link if either node belongs to
// a different list, or empty-label if chars is empty.
func (nl *NodeList) LinkNodes(from, to *Node, chars CharSet) error {
	if from.list != nl || to.list != nl {
		return wrapf(ErrCrossListLink, "linkNodes")
	}
	if chars.IsEmpty() {
		return wrapf(ErrEmptyLabel, "linkNodes")
	}
	if existing, present := from.out.at(to.id); present {
		merged, err := existing.Union(chars)
		if err != nil {
			return wrapf(err, "linkNodes")
		}
		from.out.insert(to.id, merged)
		to.in.insert(from.id, merged)
		return nil
	}
	from.out.insert(to.id, chars)
	to.in.insert(from.id, chars)
	return nil
}

// UnlinkNodes removes the edge from->to. Fails with cross-list-link or
// missing-edge.
func (nl *NodeList) UnlinkNodes(from, to *Node) error {
	if from.list != nl || to.list != nl {
		return wrapf(ErrCrossListLink, "unlinkNodes")
	}
	if _, present := from.out.at(to.id); !present {
		return wrapf(ErrMissingEdge, "unlinkNodes")
	}
	from.out.erase(to.id)
	to.in.erase(from.id)
	return nil
}

// Iterate yields every node forward-reachable from initial, in breadth-first
// order. Used wherever deterministic enumeration is required (toString,
// Dot, intersect's index assignment).
func (nl *NodeList) Iterate() []*Node {
	visited := map[nodeID]bool{nl.initial: true}
	queue := []*Node{nl.Initial()}
	var order []*Node
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, to := range n.OutNeighbors() {
			if !visited[to.id] {
				visited[to.id] = true
				queue = append(queue, to)
			}
		}
	}
	return order
}

func (nl *NodeList) forwardReachable() map[nodeID]bool {
	visited := map[nodeID]bool{}
	var walk func(id nodeID)
	walk = func(id nodeID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, to := range nl.nodes[id].OutNeighbors() {
			walk(to.id)
		}
	}
	walk(nl.initial)
	return visited
}

func (nl *NodeList) backwardReachable() map[nodeID]bool {
	visited := map[nodeID]bool{}
	var walk func(id nodeID)
	walk = func(id nodeID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, from := range nl.nodes[id].InNeighbors() {
			walk(from.id)
		}
	}
	for _, id := range nl.final.items() {
		walk(id)
	}
	return visited
}

// RemoveUnreachable establishes invariant 6: every remaining node is both
// forward-reachable from initial and backward-reachable from some final,
// unless final is empty, in which case only initial survives with no
// outgoing edges.
func (nl *NodeList) RemoveUnreachable() error {
	if nl.final.len() == 0 {
		return nl.reduceToEmptyLanguage()
	}
	forward := nl.forwardReachable()
	for _, id := range nl.final.items() {
		if !forward[id] {
			nl.final.erase(id)
		}
	}
	if nl.final.len() == 0 {
		return nl.reduceToEmptyLanguage()
	}
	backward := nl.backwardReachable()
	var toDelete []nodeID
	for id := range nl.nodes {
		if id == nl.initial {
			continue
		}
		if !forward[id] || !backward[id] {
			toDelete = append(toDelete, id)
		}
	}
	for _, id := range toDelete {
		if err := nl.deleteNode(id); err != nil {
			return err
		}
	}
	return nil
}

func (nl *NodeList) reduceToEmptyLanguage() error {
	init := nl.Initial()
	for _, to := range init.OutNeighbors() {
		if err := nl.UnlinkNodes(init, to); err != nil {
			return err
		}
	}
	for id := range nl.nodes {
		if id != nl.initial {
			delete(nl.nodes, id)
		}
	}
	nl.final.clear()
	return nil
}

func (nl *NodeList) deleteNode(id nodeID) error {
	if id == nl.initial {
		return wrapf(ErrInitialRemoval, "deleteNode")
	}
	n := nl.nodes[id]
	for _, to := range n.OutNeighbors() {
		if err := nl.UnlinkNodes(n, to); err != nil {
			return err
		}
	}
	for _, from := range n.InNeighbors() {
		if err := nl.UnlinkNodes(from, n); err != nil {
			return err
		}
	}
	nl.final.erase(id)
	delete(nl.nodes, id)
	return nil
}

// root returns the SubList view of this NodeList's own initial/final pair,
// the "base" every facade-level operation (union, concat, quantify) rewrites
// in place.
func (nl *NodeList) root() *subList {
	return &subList{initial: nl.Initial(), final: nl.final}
}
