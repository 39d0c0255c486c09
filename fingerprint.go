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

import "golang.org/x/crypto/blake2b"

// Fingerprint returns a content hash of the automaton's deterministic
// textual rendering. Two NFAs built from identical construction histories
// produce identical fingerprints; this is a structural, not a language,
// equivalence check.
func (a *NFA) Fingerprint() [blake2b.Size256]byte {
	return blake2b.Sum256([]byte(a.String()))
}
