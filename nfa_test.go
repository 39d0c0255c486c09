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

const testMaxCharacter = 0xffff

func charClassElement(t *testing.T, cp int) Element {
	t.Helper()
	cs, err := SingletonCharSet(testMaxCharacter, cp)
	if err != nil {
		t.Fatal(err)
	}
	return Element{Kind: ElementCharacterClass, Characters: cs}
}

func singleCharExpr(t *testing.T, cp int) Expression {
	return Expression{Alternatives: []Concatenation{{Elements: []Element{charClassElement(t, cp)}}}}
}

func quantified(alt Expression, min, max int) Element {
	return Element{Kind: ElementQuantifier, Alternatives: alt.Alternatives, Min: min, Max: max}
}

func TestFromRegexPlusQuantifier(t *testing.T) {
	a := 0x61
	expr := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, a), 1, Unbounded),
	}}}}
	nfa, err := FromRegex(expr, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	want := "(0)\n-> [1] : 61\n\n[1]\n-> [1] : 61"
	if got := nfa.String(); got != want {
		t.Errorf("a+ toString =\n%q\nwant\n%q", got, want)
	}
}

func TestFromRegexQuantifierBounded(t *testing.T) {
	a := 0x61
	expr := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, a), 2, 4),
	}}}}
	nfa, err := FromRegex(expr, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	for _, word := range [][]int{{a, a}, {a, a, a}, {a, a, a, a}} {
		if !nfa.Test(word) {
			t.Errorf("expected %v to be accepted", word)
		}
	}
	for _, word := range [][]int{{a}, {a, a, a, a, a}} {
		if nfa.Test(word) {
			t.Errorf("expected %v to be rejected", word)
		}
	}
}

func TestFromRegexEmptyQuantifierRange(t *testing.T) {
	epsilon := Expression{Alternatives: []Concatenation{{}}}
	expr := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(epsilon, 100, 1000),
	}}}}
	nfa, err := FromRegex(expr, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := nfa.String(), "[0]\n  -> none"; got != want {
		t.Errorf("toString =\n%q\nwant\n%q", got, want)
	}
	if !nfa.Test(nil) {
		t.Errorf("expected empty word to be accepted")
	}
}

func TestFromRegexEmptyCharacterClass(t *testing.T) {
	empty := EmptyCharSet(testMaxCharacter)
	expr := Expression{Alternatives: []Concatenation{{Elements: []Element{
		{Kind: ElementCharacterClass, Characters: empty},
	}}}}
	nfa, err := FromRegex(expr, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := nfa.String(), "(0)\n  -> none"; got != want {
		t.Errorf("toString =\n%q\nwant\n%q", got, want)
	}
	if !nfa.IsEmpty() {
		t.Errorf("expected empty language")
	}
}

func TestFromRegexAssertionRejected(t *testing.T) {
	expr := Expression{Alternatives: []Concatenation{{Elements: []Element{
		{Kind: ElementAssertion, AssertionKind: "lookahead"},
	}}}}
	_, err := FromRegex(expr, NFAOptions{MaxCharacter: testMaxCharacter})
	if err == nil {
		t.Fatal("expected unsupported-construct error")
	}
}

func TestNFAUnionAcceptsEitherLanguage(t *testing.T) {
	a := 0x61
	b := 0x62
	left, err := FromRegex(singleCharExpr(t, a), NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	right, err := FromRegex(singleCharExpr(t, b), NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	if err := left.Union(right); err != nil {
		t.Fatal(err)
	}
	if !left.Test([]int{a}) || !left.Test([]int{b}) {
		t.Errorf("expected union to accept both characters")
	}
	if left.Test([]int{0x63}) {
		t.Errorf("expected union to reject unrelated character")
	}
}

func TestNFAUnionWithEmptyIsIdentity(t *testing.T) {
	a := 0x61
	left, err := FromRegex(singleCharExpr(t, a), NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	empty := New(NFAOptions{MaxCharacter: testMaxCharacter})
	if err := left.Union(empty); err != nil {
		t.Fatal(err)
	}
	if !left.Test([]int{a}) {
		t.Errorf("expected union(A, empty) to still accept L(A)")
	}
}

func TestNFAConcatWithEmptyIsEmpty(t *testing.T) {
	a := 0x61
	left, err := FromRegex(singleCharExpr(t, a), NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	empty := New(NFAOptions{MaxCharacter: testMaxCharacter})
	if err := empty.Concat(left); err != nil {
		t.Fatal(err)
	}
	if !empty.IsEmpty() {
		t.Errorf("expected concat(empty, A) to remain empty")
	}
}

func TestNFAIntersectSelfIsIdentity(t *testing.T) {
	a, b := 0x61, 0x62
	expr := Expression{Alternatives: []Concatenation{{Elements: []Element{
		charClassElement(t, a), charClassElement(t, b),
	}}}}
	nfa, err := FromRegex(expr, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	result, err := Intersect(nfa, nfa)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Test([]int{a, b}) {
		t.Errorf("expected intersect(A,A) to accept L(A)")
	}
	if result.Test([]int{a}) || result.Test([]int{b, a}) {
		t.Errorf("expected intersect(A,A) to reject non-members")
	}
}

// TestNFAIntersectWorkedExample replicates the documented product-
// construction example: intersect(/b*(ab+)*a/, /a*(ba+)*/) accepts exactly
// L(/b?(ab)*a/), checked by enumerating every word up to length 10 over
// {a,b} and comparing membership against the target language.
func TestNFAIntersectWorkedExample(t *testing.T) {
	a, b := 0x61, 0x62
	opts := NFAOptions{MaxCharacter: testMaxCharacter}

	abPlus := Expression{Alternatives: []Concatenation{{Elements: []Element{
		charClassElement(t, a), quantified(singleCharExpr(t, b), 1, Unbounded),
	}}}}
	bStarAbPlusStarA := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, b), 0, Unbounded),
		quantified(abPlus, 0, Unbounded),
		charClassElement(t, a),
	}}}}
	left, err := FromRegex(bStarAbPlusStarA, opts)
	if err != nil {
		t.Fatal(err)
	}

	baPlus := Expression{Alternatives: []Concatenation{{Elements: []Element{
		charClassElement(t, b), quantified(singleCharExpr(t, a), 1, Unbounded),
	}}}}
	aStarBaPlusStar := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, a), 0, Unbounded),
		quantified(baPlus, 0, Unbounded),
	}}}}
	right, err := FromRegex(aStarBaPlusStar, opts)
	if err != nil {
		t.Fatal(err)
	}

	ab := Expression{Alternatives: []Concatenation{{Elements: []Element{
		charClassElement(t, a), charClassElement(t, b),
	}}}}
	bOptAbStarA := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, b), 0, 1),
		quantified(ab, 0, Unbounded),
		charClassElement(t, a),
	}}}}
	target, err := FromRegex(bOptAbStarA, opts)
	if err != nil {
		t.Fatal(err)
	}

	result, err := Intersect(left, right)
	if err != nil {
		t.Fatal(err)
	}

	for _, word := range enumerateWords([]int{a, b}, 10) {
		got, want := result.Test(word), target.Test(word)
		if got != want {
			t.Errorf("word %v: intersect accepts=%v, target accepts=%v", word, got, want)
		}
	}
}

// enumerateWords returns every word over alphabet of length 0 through
// maxLen inclusive, shortest first.
func enumerateWords(alphabet []int, maxLen int) [][]int {
	var out [][]int
	out = append(out, nil)
	frontier := [][]int{{}}
	for n := 1; n <= maxLen; n++ {
		var next [][]int
		for _, w := range frontier {
			for _, cp := range alphabet {
				word := append(append([]int{}, w...), cp)
				out = append(out, word)
				next = append(next, word)
			}
		}
		frontier = next
	}
	return out
}

func TestFromWordsTrie(t *testing.T) {
	opts := NFAOptions{MaxCharacter: testMaxCharacter}
	words := [][]int{
		{0x66, 0x6f, 0x6f},       // foo
		{0x62, 0x61, 0x72},       // bar
		{0x62, 0x61, 0x7a},       // baz
		{0x66, 0x6f, 0x6f, 0x64}, // food
	}
	nfa, err := FromWords(words, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range words {
		if !nfa.Test(w) {
			t.Errorf("expected %v to be accepted", w)
		}
	}
	if nfa.Test([]int{0x66, 0x6f}) {
		t.Errorf("expected prefix-only word to be rejected")
	}
}

func TestFromWordsInvalidCodepoint(t *testing.T) {
	opts := NFAOptions{MaxCharacter: 0xff}
	_, err := FromWords([][]int{{0x100}}, opts)
	if err == nil {
		t.Fatal("expected invalid-codepoint error")
	}
}

func TestIsFiniteDetectsCycles(t *testing.T) {
	a := 0x61
	star := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, a), 0, Unbounded),
	}}}}
	nfa, err := FromRegex(star, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	if nfa.IsFinite() {
		t.Errorf("expected a* to be infinite")
	}

	bounded := Expression{Alternatives: []Concatenation{{Elements: []Element{
		quantified(singleCharExpr(t, a), 2, 4),
	}}}}
	nfa2, err := FromRegex(bounded, NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	if !nfa2.IsFinite() {
		t.Errorf("expected a{2,4} to be finite")
	}
}

func TestWordsEnumeratesFiniteLanguage(t *testing.T) {
	opts := NFAOptions{MaxCharacter: testMaxCharacter}
	nfa, err := FromWords([][]int{{0x61}, {0x62}}, opts)
	if err != nil {
		t.Fatal(err)
	}
	var got [][]int
	for w := range nfa.Words() {
		got = append(got, w)
	}
	if len(got) != 2 {
		t.Errorf("Words() produced %d words, want 2", len(got))
	}
}

func TestCopyProducesIndependentNFA(t *testing.T) {
	a := 0x61
	orig, err := FromRegex(singleCharExpr(t, a), NFAOptions{MaxCharacter: testMaxCharacter})
	if err != nil {
		t.Fatal(err)
	}
	clone, err := orig.Copy()
	if err != nil {
		t.Fatal(err)
	}
	if err := clone.Quantify(0, Unbounded); err != nil {
		t.Fatal(err)
	}
	if !orig.Test([]int{a}) || orig.Test([]int{a, a}) {
		t.Errorf("expected original to remain unaffected by mutating the copy")
	}
	if !clone.Test([]int{a, a, a}) {
		t.Errorf("expected clone to accept repeated characters after quantify")
	}
}
