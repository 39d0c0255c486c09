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
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// Snapshot returns a compressed dump of the automaton's textual rendering,
// suitable for storing alongside a test fixture or attaching to a bug
// report without the size cost of the raw text.
func (a *NFA) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, wrapf(err, "Snapshot")
	}
	if _, err := w.Write([]byte(a.String())); err != nil {
		return nil, wrapf(err, "Snapshot")
	}
	if err := w.Close(); err != nil {
		return nil, wrapf(err, "Snapshot")
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot reverses Snapshot, returning the original textual
// rendering for comparison against a freshly rendered NFA.
func DecodeSnapshot(data []byte) (string, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", wrapf(err, "DecodeSnapshot")
	}
	return string(out), nil
}
