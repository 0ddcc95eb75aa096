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

// Package rv32i holds the error vocabulary shared by the decode and machine
// packages: the closed, flat set of failures an RV32I core can report.
package rv32i

import "errors"

// The following errors may be returned by decode.Decode, decode.NewReg and
// the machine package's load/store operations. They are sentinels: wrap
// them with fmt.Errorf("%w: ...") for detail and unwrap with errors.Is.
var (
	// ErrBadOpcode indicates that bits[6:0] of an instruction word is not
	// one of the 10 recognized RV32I primary opcodes.
	ErrBadOpcode = errors.New("rv32i: bad opcode")

	// ErrBadFunct indicates that the opcode was recognized but its
	// funct3/funct7 combination is not a supported mnemonic.
	ErrBadFunct = errors.New("rv32i: bad funct")

	// ErrBadRegister indicates a register index >= 32. This can't arise
	// from decoding a 32-bit word (rd/rs1/rs2 are always 5 bits) but can
	// arise from the public register constructor.
	ErrBadRegister = errors.New("rv32i: bad register index")

	// ErrMemoryOutOfBounds indicates that an access's footprint (including
	// any address overflow) exits the machine's allocated memory.
	ErrMemoryOutOfBounds = errors.New("rv32i: memory access out of bounds")
)
