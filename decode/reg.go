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

package decode

import (
	"fmt"

	"rv32i"
)

// Reg identifies one of the 32 general-purpose integer registers. The zero
// value is x0, the hardwired-zero register.
type Reg uint8

// NewReg builds a Reg from a raw index. It fails with rv32i.ErrBadRegister
// for n >= 32; decoding a 32-bit instruction word never hits that path,
// since rd/rs1/rs2 are always 5-bit fields, but the public constructor must
// still guard against out-of-range callers.
func NewReg(n uint32) (Reg, error) {
	if n >= 32 {
		return 0, fmt.Errorf("%w: x%d", rv32i.ErrBadRegister, n)
	}
	return Reg(n), nil
}

// Num returns the register's numeric index in [0, 31].
func (r Reg) Num() uint8 { return uint8(r) }

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return fmt.Sprintf("x%d", uint8(r))
}

// ABI register names. riscv-spec-v2.2; Table 20.1; Page 109. These are
// convenience constructors only: they carry no semantic distinction from
// the numeric form.
const (
	Zero = Reg(0) // hard-wired zero
	RA   = Reg(1) // return address
	SP   = Reg(2) // stack pointer
	GP   = Reg(3) // global pointer
	TP   = Reg(4) // thread pointer
	T0   = Reg(5)
	T1   = Reg(6)
	T2   = Reg(7)
	S0   = Reg(8) // also known as FP
	FP   = Reg(8)
	S1   = Reg(9)
	A0   = Reg(10)
	A1   = Reg(11)
	A2   = Reg(12)
	A3   = Reg(13)
	A4   = Reg(14)
	A5   = Reg(15)
	A6   = Reg(16)
	A7   = Reg(17)
	S2   = Reg(18)
	S3   = Reg(19)
	S4   = Reg(20)
	S5   = Reg(21)
	S6   = Reg(22)
	S7   = Reg(23)
	S8   = Reg(24)
	S9   = Reg(25)
	S10  = Reg(26)
	S11  = Reg(27)
	T3   = Reg(28)
	T4   = Reg(29)
	T5   = Reg(30)
	T6   = Reg(31)
)

var regNames = [32]string{
	0: "zero", 1: "ra", 2: "sp", 3: "gp", 4: "tp",
	5: "t0", 6: "t1", 7: "t2",
	8: "s0", 9: "s1",
	10: "a0", 11: "a1", 12: "a2", 13: "a3", 14: "a4", 15: "a5", 16: "a6", 17: "a7",
	18: "s2", 19: "s3", 20: "s4", 21: "s5", 22: "s6", 23: "s7", 24: "s8", 25: "s9", 26: "s10", 27: "s11",
	28: "t3", 29: "t4", 30: "t5", 31: "t6",
}
