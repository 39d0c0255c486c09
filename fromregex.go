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

// Expression is a set of alternative concatenations, any one of which
// matches.
type Expression struct {
	Alternatives []Concatenation
}

// Concatenation is an ordered sequence of elements, all of which must match
// in order.
type Concatenation struct {
	Elements []Element
}

// ElementKind discriminates the variants of Element. Exactly one of the
// corresponding fields is populated for a given kind.
type ElementKind int

const (
	// ElementAlternation nests an Expression inline within a Concatenation.
	ElementAlternation ElementKind = iota
	// ElementQuantifier repeats a nested Expression between Min and Max times.
	ElementQuantifier
	// ElementCharacterClass matches a single code point drawn from Characters.
	ElementCharacterClass
	// ElementAssertion is unsupported; compiling one always fails.
	ElementAssertion
)

// Element is one tagged-variant step of a Concatenation.
type Element struct {
	Kind ElementKind

	// Alternation, Quantifier
	Alternatives []Concatenation

	// Quantifier
	Min, Max int

	// CharacterClass
	Characters CharSet

	// Assertion
	AssertionKind string
	Negate        bool
}

// FromRegex compiles a regex AST into a fresh NFA over the given options.
// Fails with alphabet-mismatch if any CharacterClass's alphabet differs from
// options.MaxCharacter, or unsupported-construct if an Assertion is present.
func FromRegex(expr Expression, options NFAOptions) (*NFA, error) {
	result := New(options)
	sub, err := compileExpression(result.nodes, expr, options)
	if err != nil {
		return nil, err
	}
	if err := baseReplaceWith(result.nodes, result.nodes.root(), sub); err != nil {
		return nil, err
	}
	return result, nil
}

func compileExpression(nl *NodeList, expr Expression, options NFAOptions) (*subList, error) {
	if len(expr.Alternatives) == 0 {
		return newSubList(nl.createNode()), nil
	}
	base, err := compileConcatenation(nl, expr.Alternatives[0], options)
	if err != nil {
		return nil, err
	}
	for _, alt := range expr.Alternatives[1:] {
		altSub, err := compileConcatenation(nl, alt, options)
		if err != nil {
			return nil, err
		}
		if err := baseUnion(nl, base, altSub); err != nil {
			return nil, err
		}
	}
	return base, nil
}

func compileConcatenation(nl *NodeList, c Concatenation, options NFAOptions) (*subList, error) {
	base := newSubList(nl.createNode())
	base.addFinal(base.initial)
	for _, el := range c.Elements {
		if base.final.len() == 0 {
			break
		}
		if err := compileElement(nl, base, el, options); err != nil {
			return nil, err
		}
	}
	return base, nil
}

func compileElement(nl *NodeList, base *subList, el Element, options NFAOptions) error {
	switch el.Kind {
	case ElementCharacterClass:
		if el.Characters.Maximum() != options.MaxCharacter {
			return wrapf(ErrAlphabetMismatch, "compileElement")
		}
		if el.Characters.IsEmpty() {
			return baseMakeEmpty(nl, base)
		}
		s := nl.createNode()
		for _, f := range base.finalsSnapshot() {
			if err := nl.LinkNodes(f, s, el.Characters); err != nil {
				return err
			}
		}
		base.final.clear()
		base.addFinal(s)
		return nil

	case ElementAlternation:
		sub, err := compileExpression(nl, Expression{Alternatives: el.Alternatives}, options)
		if err != nil {
			return err
		}
		return baseConcat(nl, base, sub)

	case ElementQuantifier:
		sub, err := compileExpression(nl, Expression{Alternatives: el.Alternatives}, options)
		if err != nil {
			return err
		}
		if err := baseQuantify(nl, sub, el.Min, el.Max); err != nil {
			return err
		}
		return baseConcat(nl, base, sub)

	case ElementAssertion:
		return wrapf(ErrUnsupportedConstruct, "compileElement")

	default:
		return wrapf(ErrUnsupportedConstruct, "compileElement")
	}
}
