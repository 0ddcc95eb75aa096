// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package machine

import (
	"fmt"
	"io"

	"rv32i/decode"
)

// Dump writes a purely observational textual snapshot of the machine's
// state: the program counter followed by all 32 registers, four per line.
// This is the one concession the core makes to the excluded CLI's register
// dump — everything else about printing or disassembling a program lives
// in cmd/rv32i.
func (m *Machine) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "PC : %08X\n", m.PC); err != nil {
		return err
	}
	for i := 0; i < 32; i++ {
		v := m.GetReg(decode.Reg(i))
		if _, err := fmt.Fprintf(w, "R%-2d: %08X   ", i, v); err != nil {
			return err
		}
		if i%4 == 3 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
