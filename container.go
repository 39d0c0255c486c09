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

// orderedSet is a set that remembers insertion order, so iteration over it is
// reproducible across runs with identical construction history.
type orderedSet[T comparable] struct {
	order []T
	has   map[T]struct{}
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{has: map[T]struct{}{}}
}

func (s *orderedSet[T]) contains(e T) bool {
	_, present := s.has[e]
	return present
}

func (s *orderedSet[T]) insert(e T) {
	if s.contains(e) {
		return
	}
	s.has[e] = struct{}{}
	s.order = append(s.order, e)
}

func (s *orderedSet[T]) erase(e T) {
	if !s.contains(e) {
		return
	}
	delete(s.has, e)
	for i, v := range s.order {
		if v == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *orderedSet[T]) clear() {
	s.order = nil
	s.has = map[T]struct{}{}
}

// items returns a snapshot of the set contents in insertion order.
func (s *orderedSet[T]) items() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

func (s *orderedSet[T]) len() int {
	return len(s.order)
}

// orderedMap is a map that remembers insertion order of its keys.
type orderedMap[K comparable, V any] struct {
	order []K
	data  map[K]V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{data: map[K]V{}}
}

func (m *orderedMap[K, V]) at(k K) (V, bool) {
	v, present := m.data[k]
	return v, present
}

func (m *orderedMap[K, V]) insert(k K, v V) {
	if _, present := m.data[k]; !present {
		m.order = append(m.order, k)
	}
	m.data[k] = v
}

func (m *orderedMap[K, V]) erase(k K) {
	if _, present := m.data[k]; !present {
		return
	}
	delete(m.data, k)
	for i, key := range m.order {
		if key == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// keys returns a snapshot of the map's keys in insertion order.
func (m *orderedMap[K, V]) keys() []K {
	out := make([]K, len(m.order))
	copy(out, m.order)
	return out
}

func (m *orderedMap[K, V]) len() int {
	return len(m.order)
}
