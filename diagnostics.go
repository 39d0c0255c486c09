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

import "golang.org/x/sys/cpu"

// Diagnostics reports host CPU capability flags for inclusion in bug
// reports and debug logs. Purely informational: nothing in this package
// branches on it, since the engine makes no performance claims.
type Diagnostics struct {
	X86SSE42 bool
	X86AVX2  bool
	ARM64    bool
}

// ReadDiagnostics samples the current host's capability flags.
func ReadDiagnostics() Diagnostics {
	return Diagnostics{
		X86SSE42: cpu.X86.HasSSE42,
		X86AVX2:  cpu.X86.HasAVX2,
		ARM64:    cpu.ARM64.HasASIMD,
	}
}
