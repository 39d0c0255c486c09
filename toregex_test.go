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

import "testing"

func TestRoundTripSingleCharacter(t *testing.T) {
	opts := NFAOptions{MaxCharacter: testMaxCharacter}
	original, err := FromRegex(singleCharExpr(t, 0x61), opts)
	if err != nil {
		t.Fatal(err)
	}

	ast := original.ToRegex(stateElimEmitter{})
	recompiled, err := FromRegex(ast, opts)
	if err != nil {
		t.Fatalf("recompiling emitted AST: %v", err)
	}

	for _, word := range [][]int{{0x61}, {}, {0x62}, {0x61, 0x61}} {
		if original.Test(word) != recompiled.Test(word) {
			t.Errorf("word %v: original accepts=%v, recompiled accepts=%v", word, original.Test(word), recompiled.Test(word))
		}
	}
}

func TestRoundTripKleeneStar(t *testing.T) {
	opts := NFAOptions{MaxCharacter: testMaxCharacter}
	star := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, 0x61), 0, Unbounded),
	}}}}
	original, err := FromRegex(star, opts)
	if err != nil {
		t.Fatal(err)
	}

	ast := original.ToRegex(stateElimEmitter{})
	recompiled, err := FromRegex(ast, opts)
	if err != nil {
		t.Fatalf("recompiling emitted AST: %v", err)
	}

	for _, n := range []int{0, 1, 2, 3, 5} {
		word := make([]int, n)
		for i := range word {
			word[i] = 0x61
		}
		if original.Test(word) != recompiled.Test(word) {
			t.Errorf("word %v: original accepts=%v, recompiled accepts=%v", word, original.Test(word), recompiled.Test(word))
		}
	}
	if recompiled.Test([]int{0x62}) {
		t.Errorf("expected recompiled automaton to reject unrelated character")
	}
}
