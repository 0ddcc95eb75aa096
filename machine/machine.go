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

// Package machine holds RV32I architectural state — PC, 32 integer
// registers, a flat byte memory — and advances it one instruction at a
// time. It is strictly single-threaded and synchronous: a Machine is owned
// exclusively by its caller, and Step performs at most one fetch, one
// decode, and one data memory access.
package machine

import (
	"fmt"

	"rv32i"
	"rv32i/decode"
)

// Machine is an RV32I machine: program counter, general-purpose registers,
// and byte-addressable memory. The zero value is not usable; construct one
// with NewMachine.
type Machine struct {
	PC   uint32
	regs [31]uint32 // regs[n-1] holds x(n) for n in [1, 31]; x0 is never stored
	mem  []byte
}

// NewMachine returns a Machine with a memSize-byte, zero-filled memory,
// PC=0, and all registers 0.
func NewMachine(memSize int) *Machine {
	return &Machine{mem: make([]byte, memSize)}
}

// MemSize returns the machine's memory capacity in bytes.
func (m *Machine) MemSize() int { return len(m.mem) }

// GetReg returns the value of register r. Register 0 always reads 0.
func (m *Machine) GetReg(r decode.Reg) uint32 {
	n := r.Num()
	if n == 0 {
		return 0
	}
	return m.regs[n-1]
}

// SetReg writes val to register r. Writes to register 0 are silently
// discarded: callers never need to special-case rd==0 themselves.
func (m *Machine) SetReg(r decode.Reg, val uint32) {
	n := r.Num()
	if n == 0 {
		return
	}
	m.regs[n-1] = val
}

// bounds reports whether an access of the given size starting at addr
// fits strictly within the machine's memory, detecting address overflow.
func (m *Machine) bounds(addr uint32, size uint32) error {
	last := addr + size - 1
	if last < addr || uint64(last) >= uint64(len(m.mem)) {
		return fmt.Errorf("%w: addr %#x size %d (mem size %d)",
			rv32i.ErrMemoryOutOfBounds, addr, size, len(m.mem))
	}
	return nil
}

// Load8 reads one byte at addr.
func (m *Machine) Load8(addr uint32) (uint32, error) {
	if err := m.bounds(addr, 1); err != nil {
		return 0, err
	}
	return uint32(m.mem[addr]), nil
}

// Load16 reads two little-endian bytes at addr.
func (m *Machine) Load16(addr uint32) (uint32, error) {
	if err := m.bounds(addr, 2); err != nil {
		return 0, err
	}
	return uint32(m.mem[addr]) | uint32(m.mem[addr+1])<<8, nil
}

// Load32 reads four little-endian bytes at addr.
func (m *Machine) Load32(addr uint32) (uint32, error) {
	if err := m.bounds(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.mem[addr]) |
		uint32(m.mem[addr+1])<<8 |
		uint32(m.mem[addr+2])<<16 |
		uint32(m.mem[addr+3])<<24, nil
}

// Store8 writes the low byte of val at addr.
func (m *Machine) Store8(addr uint32, val uint32) error {
	if err := m.bounds(addr, 1); err != nil {
		return err
	}
	m.mem[addr] = byte(val)
	return nil
}

// Store16 writes the low two bytes of val, little-endian, at addr.
func (m *Machine) Store16(addr uint32, val uint32) error {
	if err := m.bounds(addr, 2); err != nil {
		return err
	}
	m.mem[addr] = byte(val)
	m.mem[addr+1] = byte(val >> 8)
	return nil
}

// Store32 writes val, little-endian, at addr.
func (m *Machine) Store32(addr uint32, val uint32) error {
	if err := m.bounds(addr, 4); err != nil {
		return err
	}
	m.mem[addr] = byte(val)
	m.mem[addr+1] = byte(val >> 8)
	m.mem[addr+2] = byte(val >> 16)
	m.mem[addr+3] = byte(val >> 24)
	return nil
}
