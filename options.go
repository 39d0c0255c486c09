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

import "sigs.k8s.io/yaml"

// NFAOptions carries build-time configuration shared by every node of one
// automaton, currently just the alphabet bound.
type NFAOptions struct {
	// MaxCharacter is the inclusive upper bound of every CharSet's alphabet.
	MaxCharacter int `json:"maxCharacter"`
}

// DefaultOptions covers the full Unicode code point range.
func DefaultOptions() NFAOptions {
	return NFAOptions{MaxCharacter: 0x10FFFF}
}

// MarshalYAML renders the options as YAML, for persisting alongside a
// snapshot or a compiled pattern set.
func (o NFAOptions) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(o)
}

// UnmarshalOptionsYAML parses options previously produced by MarshalYAML.
func UnmarshalOptionsYAML(data []byte) (NFAOptions, error) {
	var o NFAOptions
	if err := yaml.Unmarshal(data, &o); err != nil {
		return NFAOptions{}, wrapf(err, "UnmarshalOptionsYAML")
	}
	return o, nil
}
