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

// Package decode turns a 32-bit RV32I instruction word into a typed,
// tagged Instruction. It is pure and total: every uint32 input either
// yields a recognized Instruction or one of rv32i.ErrBadOpcode /
// rv32i.ErrBadFunct. It never panics.
package decode

import (
	"fmt"

	"rv32i"
)

// opcode is the 7-bit primary opcode field (bits[6:0]).
type opcode uint32

// riscv-spec-v2.2; Table 19.1; Page 103. Ten primary opcodes are
// recognized; the base ISA's low two bits are always 0b11 for 32-bit
// instructions, so no separate length check is needed: any other pattern
// falls through to ErrBadOpcode below.
const (
	opLoad   = opcode(0b0000011)
	opOpImm  = opcode(0b0010011)
	opAuipc  = opcode(0b0010111)
	opStore  = opcode(0b0100011)
	opOp     = opcode(0b0110011)
	opLui    = opcode(0b0110111)
	opBranch = opcode(0b1100011)
	opJalr   = opcode(0b1100111)
	opJal    = opcode(0b1101111)
	opSystem = opcode(0b1110011)
)

// Decode decodes bits into a tagged Instruction. It is pure, deterministic,
// and allocates nothing beyond the returned value.
func Decode(bits uint32) (Instruction, error) {
	op := opcode(bits & 0x7f)
	rd := regField(bits >> 7)
	rs1 := regField(bits >> 15)
	rs2 := regField(bits >> 20)
	funct3 := (bits >> 12) & 0x7
	funct7 := (bits >> 25) & 0x7f

	switch op {
	case opOpImm:
		imm := signExtend(bits>>20, 12)
		switch {
		case funct3 == 0:
			return IInstruction{Op: ADDI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 2:
			return IInstruction{Op: SLTI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 3:
			return IInstruction{Op: SLTIU, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 4:
			return IInstruction{Op: XORI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 6:
			return IInstruction{Op: ORI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 7:
			return IInstruction{Op: ANDI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 1 && funct7 == 0x00:
			return IInstruction{Op: SLLI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 5 && funct7 == 0x00:
			return IInstruction{Op: SRLI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case funct3 == 5 && funct7 == 0x20:
			return IInstruction{Op: SRAI, Rd: rd, Rs1: rs1, Imm: imm}, nil
		default:
			return nil, badFunct(bits, op, funct3, funct7)
		}

	case opOp:
		switch {
		case funct3 == 0 && funct7 == 0x00:
			return RInstruction{Op: ADD, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 0 && funct7 == 0x20:
			return RInstruction{Op: SUB, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 1 && funct7 == 0x00:
			return RInstruction{Op: SLL, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 2 && funct7 == 0x00:
			return RInstruction{Op: SLT, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 3 && funct7 == 0x00:
			return RInstruction{Op: SLTU, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 4 && funct7 == 0x00:
			return RInstruction{Op: XOR, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 5 && funct7 == 0x00:
			return RInstruction{Op: SRL, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 5 && funct7 == 0x20:
			return RInstruction{Op: SRA, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 6 && funct7 == 0x00:
			return RInstruction{Op: OR, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		case funct3 == 7 && funct7 == 0x00:
			return RInstruction{Op: AND, Rd: rd, Rs1: rs1, Rs2: rs2}, nil
		default:
			return nil, badFunct(bits, op, funct3, funct7)
		}

	case opLui:
		return UInstruction{Op: LUI, Rd: rd, Imm: bits & 0xFFFFF000}, nil

	case opAuipc:
		return UInstruction{Op: AUIPC, Rd: rd, Imm: bits & 0xFFFFF000}, nil

	case opJal:
		imm := signExtend(
			(bits&0x000FF000)| // imm[19:12]
				((bits>>9)&0x800)| // imm[11]
				((bits>>20)&0x7FE)| // imm[10:1]
				((bits>>11)&0x100000), // imm[20]
			21)
		return JInstruction{Op: JAL, Rd: rd, Imm: imm}, nil

	case opJalr:
		// No funct3 check is performed: every funct3 value decodes to
		// JALR. See SPEC_FULL.md / DESIGN.md for why this divergence from
		// the ISA's reserved-encoding rule is preserved rather than fixed.
		imm := signExtend(bits>>20, 12)
		return IInstruction{Op: JALR, Rd: rd, Rs1: rs1, Imm: imm}, nil

	case opBranch:
		imm := signExtend(
			((bits>>7)&0x1E)| // imm[4:1]
				((bits>>20)&0x7E0)| // imm[10:5]
				((bits<<4)&0x800)| // imm[11]
				((bits>>19)&0x1000), // imm[12]
			13)
		switch funct3 {
		case 0:
			return BInstruction{Op: BEQ, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 1:
			return BInstruction{Op: BNE, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 4:
			return BInstruction{Op: BLT, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 5:
			return BInstruction{Op: BGE, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 6:
			return BInstruction{Op: BLTU, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 7:
			return BInstruction{Op: BGEU, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		default:
			return nil, badFunct(bits, op, funct3, funct7)
		}

	case opLoad:
		imm := signExtend(bits>>20, 12)
		switch funct3 {
		case 0:
			return IInstruction{Op: LB, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case 1:
			return IInstruction{Op: LH, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case 2:
			return IInstruction{Op: LW, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case 4:
			return IInstruction{Op: LBU, Rd: rd, Rs1: rs1, Imm: imm}, nil
		case 5:
			return IInstruction{Op: LHU, Rd: rd, Rs1: rs1, Imm: imm}, nil
		default:
			return nil, badFunct(bits, op, funct3, funct7)
		}

	case opStore:
		imm := signExtend(
			((bits>>7)&0x1F)|((bits>>20)&0xFE0),
			12)
		switch funct3 {
		case 0:
			return SInstruction{Op: SB, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 1:
			return SInstruction{Op: SH, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		case 2:
			return SInstruction{Op: SW, Rs1: rs1, Rs2: rs2, Imm: imm}, nil
		default:
			return nil, badFunct(bits, op, funct3, funct7)
		}

	case opSystem:
		imm := bits >> 20 & 0xfff
		if funct3 == 0 && rs1 == Zero && rd == Zero {
			switch imm {
			case 0:
				return SystemInstruction{Op: ECALL}, nil
			case 1:
				return SystemInstruction{Op: EBREAK}, nil
			}
		}
		return nil, badFunct(bits, op, funct3, funct7)

	default:
		return nil, fmt.Errorf("%w: %#02x", rv32i.ErrBadOpcode, uint32(op))
	}
}

// regField extracts a 5-bit register index. It is always in range, so this
// never produces rv32i.ErrBadRegister: that error is reserved for the
// public NewReg constructor.
func regField(bits uint32) Reg {
	return Reg(bits & 0x1f)
}

func badFunct(bits uint32, op opcode, funct3, funct7 uint32) error {
	return fmt.Errorf("%w: opcode %#02x funct3 %#x funct7 %#x (word %#08x)",
		rv32i.ErrBadFunct, uint32(op), funct3, funct7, bits)
}
