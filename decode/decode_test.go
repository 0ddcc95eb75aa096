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
	"errors"
	"testing"

	"rv32i"
)

// encodeR assembles an R-format word: funct7 rs2 rs1 funct3 rd opcode.
func encodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// encodeI assembles an I-format word: imm[11:0] rs1 funct3 rd opcode.
func encodeI(opcode, funct3, rd, rs1, imm uint32) uint32 {
	return (imm&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// encodeS assembles an S-format word.
func encodeS(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	return (imm>>5&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (imm&0x1f)<<7 | opcode
}

// encodeB assembles a B-format word. imm's bit 0 must be 0.
func encodeB(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	return (imm>>12&1)<<31 | (imm>>5&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 |
		(imm>>1&0xf)<<8 | (imm>>11&1)<<7 | opcode
}

// encodeU assembles a U-format word. imm holds the full 32-bit value; only
// its upper 20 bits are used.
func encodeU(opcode, rd, imm uint32) uint32 {
	return (imm & 0xFFFFF000) | rd<<7 | opcode
}

// encodeJ assembles a J-format word. imm's bit 0 must be 0.
func encodeJ(opcode, rd, imm uint32) uint32 {
	return (imm>>20&1)<<31 | (imm>>1&0x3ff)<<21 | (imm>>11&1)<<20 |
		(imm>>12&0xff)<<12 | rd<<7 | opcode
}

func TestDecodeOpImm(t *testing.T) {
	tests := []struct {
		desc         string
		funct3       uint32
		funct7       uint32
		want         Mnemonic
	}{
		{"addi", 0, 0, ADDI},
		{"slti", 2, 0, SLTI},
		{"sltiu", 3, 0, SLTIU},
		{"xori", 4, 0, XORI},
		{"ori", 6, 0, ORI},
		{"andi", 7, 0, ANDI},
		{"slli", 1, 0x00, SLLI},
		{"srli", 5, 0x00, SRLI},
		{"srai", 5, 0x20, SRAI},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			word := encodeR(0b0010011, tt.funct3, tt.funct7, 5, 6, 0)
			in, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode(%#x) = _, %v; want no error", word, err)
			}
			i, ok := in.(IInstruction)
			if !ok {
				t.Fatalf("Decode(%#x) = %T; want IInstruction", word, in)
			}
			if i.Op != tt.want {
				t.Errorf("Op = %v; want %v", i.Op, tt.want)
			}
			if i.Rd != Reg(5) || i.Rs1 != Reg(6) {
				t.Errorf("rd/rs1 = %v/%v; want 5/6", i.Rd, i.Rs1)
			}
		})
	}
}

func TestDecodeOpImmBadShiftFunct(t *testing.T) {
	// SRLI/SRAI require funct7 to exactly match 0x00 or 0x20; anything
	// else is a malformed shift-immediate encoding.
	word := encodeR(0b0010011, 5, 0x01, 5, 6, 0)
	if _, err := Decode(word); !errors.Is(err, rv32i.ErrBadFunct) {
		t.Errorf("Decode(%#x) error = %v; want ErrBadFunct", word, err)
	}
}

func TestDecodeOp(t *testing.T) {
	tests := []struct {
		desc   string
		funct3 uint32
		funct7 uint32
		want   Mnemonic
	}{
		{"add", 0, 0x00, ADD},
		{"sub", 0, 0x20, SUB},
		{"sll", 1, 0x00, SLL},
		{"slt", 2, 0x00, SLT},
		{"sltu", 3, 0x00, SLTU},
		{"xor", 4, 0x00, XOR},
		{"srl", 5, 0x00, SRL},
		{"sra", 5, 0x20, SRA},
		{"or", 6, 0x00, OR},
		{"and", 7, 0x00, AND},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			word := encodeR(0b0110011, tt.funct3, tt.funct7, 1, 2, 3)
			in, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode(%#x) = _, %v; want no error", word, err)
			}
			r, ok := in.(RInstruction)
			if !ok {
				t.Fatalf("Decode(%#x) = %T; want RInstruction", word, in)
			}
			if r.Op != tt.want {
				t.Errorf("Op = %v; want %v", r.Op, tt.want)
			}
		})
	}
}

func TestDecodeLuiAuipc(t *testing.T) {
	word := encodeU(0b0110111, 9, 0xABCDE000)
	in, err := Decode(word)
	if err != nil {
		t.Fatal(err)
	}
	u, ok := in.(UInstruction)
	if !ok || u.Op != LUI || u.Rd != Reg(9) || u.Imm != 0xABCDE000 {
		t.Errorf("Decode(LUI) = %#v", in)
	}

	word = encodeU(0b0010111, 9, 0x00001000)
	in, err = Decode(word)
	if err != nil {
		t.Fatal(err)
	}
	u, ok = in.(UInstruction)
	if !ok || u.Op != AUIPC || u.Imm != 0x1000 {
		t.Errorf("Decode(AUIPC) = %#v", in)
	}
}

func TestDecodeJal(t *testing.T) {
	word := encodeJ(0b1101111, 1, 0xFFFFF000) // -4096, exercises sign extension
	in, err := Decode(word)
	if err != nil {
		t.Fatal(err)
	}
	j, ok := in.(JInstruction)
	if !ok {
		t.Fatalf("Decode(%#x) = %T; want JInstruction", word, in)
	}
	if j.Op != JAL || j.Rd != Reg(1) || int32(j.Imm) != -4096 {
		t.Errorf("Decode(JAL) = %#v", j)
	}
}

func TestDecodeJalrIgnoresFunct3(t *testing.T) {
	// §9: JALR performs no funct3 check; every funct3 decodes to JALR.
	for funct3 := uint32(0); funct3 < 8; funct3++ {
		word := encodeI(0b1100111, funct3, 1, 2, 4)
		in, err := Decode(word)
		if err != nil {
			t.Fatalf("Decode(%#x) = _, %v; want no error", word, err)
		}
		if in.Mnemonic() != JALR {
			t.Errorf("funct3=%d: Mnemonic() = %v; want JALR", funct3, in.Mnemonic())
		}
	}
}

func TestDecodeBranch(t *testing.T) {
	tests := []struct {
		funct3 uint32
		want   Mnemonic
	}{
		{0, BEQ}, {1, BNE}, {4, BLT}, {5, BGE}, {6, BLTU}, {7, BGEU},
	}
	for _, tt := range tests {
		word := encodeB(0b1100011, tt.funct3, 1, 2, 16)
		in, err := Decode(word)
		if err != nil {
			t.Fatal(err)
		}
		b, ok := in.(BInstruction)
		if !ok || b.Op != tt.want || b.Imm != 16 {
			t.Errorf("funct3=%d: Decode = %#v; want %v imm=16", tt.funct3, in, tt.want)
		}
	}
}

func TestDecodeLoadStore(t *testing.T) {
	loads := []struct {
		funct3 uint32
		want   Mnemonic
	}{{0, LB}, {1, LH}, {2, LW}, {4, LBU}, {5, LHU}}
	for _, tt := range loads {
		word := encodeI(0b0000011, tt.funct3, 1, 2, 8)
		in, err := Decode(word)
		if err != nil {
			t.Fatal(err)
		}
		if in.Mnemonic() != tt.want {
			t.Errorf("load funct3=%d: Mnemonic = %v; want %v", tt.funct3, in.Mnemonic(), tt.want)
		}
	}

	stores := []struct {
		funct3 uint32
		want   Mnemonic
	}{{0, SB}, {1, SH}, {2, SW}}
	for _, tt := range stores {
		word := encodeS(0b0100011, tt.funct3, 1, 2, 8)
		in, err := Decode(word)
		if err != nil {
			t.Fatal(err)
		}
		if in.Mnemonic() != tt.want {
			t.Errorf("store funct3=%d: Mnemonic = %v; want %v", tt.funct3, in.Mnemonic(), tt.want)
		}
	}
}

func TestDecodeEcallEbreak(t *testing.T) {
	in, err := Decode(0x00000073) // ECALL
	if err != nil || in.Mnemonic() != ECALL {
		t.Errorf("Decode(ECALL) = %#v, %v", in, err)
	}
	in, err = Decode(0x00100073) // EBREAK
	if err != nil || in.Mnemonic() != EBREAK {
		t.Errorf("Decode(EBREAK) = %#v, %v", in, err)
	}
}

func TestDecodeSystemBadFunct(t *testing.T) {
	// SYSTEM with funct3=0 but an imm other than 0/1, or nonzero rs1/rd,
	// has no assigned mnemonic in this core.
	word := encodeI(0b1110011, 0, 0, 0, 2)
	if _, err := Decode(word); !errors.Is(err, rv32i.ErrBadFunct) {
		t.Errorf("Decode(%#x) error = %v; want ErrBadFunct", word, err)
	}
}

func TestDecodeBadOpcode(t *testing.T) {
	tests := []uint32{0x00000000, 0xFFFFFFFF, 0b1111111}
	for _, word := range tests {
		if _, err := Decode(word); !errors.Is(err, rv32i.ErrBadOpcode) {
			t.Errorf("Decode(%#x) error = %v; want ErrBadOpcode", word, err)
		}
	}
}

func TestDecodeTotalityNeverPanics(t *testing.T) {
	// Decoder totality (§8): every uint32 either decodes or yields
	// BadOpcode/BadFunct; it never panics. Walk opcode/funct3/funct7
	// combinations exhaustively rather than every 32-bit value.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Decode panicked: %v", r)
		}
	}()
	for op := uint32(0); op < 128; op++ {
		for f3 := uint32(0); f3 < 8; f3++ {
			for f7 := uint32(0); f7 < 128; f7++ {
				word := f7<<25 | f3<<12 | op
				if _, err := Decode(word); err != nil {
					if !errors.Is(err, rv32i.ErrBadOpcode) && !errors.Is(err, rv32i.ErrBadFunct) {
						t.Fatalf("Decode(%#x) returned unexpected error: %v", word, err)
					}
				}
			}
		}
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v, width, want uint32
	}{
		{0, 5, 0},
		{0b00011, 5, 0b00011},
		{0b10000, 5, ^uint32(0b1111)},
		{0b10011, 5, ^uint32(0b1100)},
		{0xFFF, 12, 0xFFFFFFFF}, // -1 in 12 bits stays -1 in 32 bits
		{0x800, 12, 0xFFFFF800}, // -2048 in 12 bits
	}
	for _, tt := range tests {
		if got := signExtend(tt.v, int(tt.width)); got != tt.want {
			t.Errorf("signExtend(%#x, %d) = %#x; want %#x", tt.v, tt.width, got, tt.want)
		}
	}
}

func TestNewRegBounds(t *testing.T) {
	for n := uint32(0); n < 32; n++ {
		r, err := NewReg(n)
		if err != nil {
			t.Errorf("NewReg(%d) error = %v; want nil", n, err)
		}
		if r.Num() != uint8(n) {
			t.Errorf("NewReg(%d).Num() = %d; want %d", n, r.Num(), n)
		}
	}
	if _, err := NewReg(32); !errors.Is(err, rv32i.ErrBadRegister) {
		t.Errorf("NewReg(32) error = %v; want ErrBadRegister", err)
	}
	if _, err := NewReg(1000); !errors.Is(err, rv32i.ErrBadRegister) {
		t.Errorf("NewReg(1000) error = %v; want ErrBadRegister", err)
	}
}

func TestABIAliases(t *testing.T) {
	if Zero.Num() != 0 || A0.Num() != 10 || SP.Num() != 2 || RA.Num() != 1 || FP != S0 {
		t.Errorf("ABI aliases don't match riscv-spec-v2.2 Table 20.1")
	}
}
