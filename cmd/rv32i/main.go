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

// Command rv32i is the external driver for the rv32i core: it loads a program,
// runs it to completion, and can decode a single instruction word. None of
// this lives in the decode or machine packages — they only ever see a
// program through the public Machine/Decode API, exactly as an external
// collaborator would.
package main

import (
	"debug/elf"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rv32i/decode"
	"rv32i/machine"
)

// fibonacci is the 15-word program from the project's Fibonacci
// walkthrough: it computes fib(a0) into a0, then signals completion with
// ECALL.
var fibonacci = []uint32{
	0x02050663, // beqz  a0, .Lzero
	0xfff50793, // addi  a5, a0, -1
	0x02078663, // beqz  a5, .Lone
	0x00100713, // li    a4, 1
	0x00000693, // li    a3, 0
	0x00e68533, // add   a0, a3, a4
	0xfff78793, // addi  a5, a5, -1
	0x00070693, // mv    a3, a4
	0x00050713, // mv    a4, a0
	0xfe0798e3, // bnez  a5, .Lloop
	0x00000073, // ecall
	0x00000513, // .Lzero: li a0, 0
	0x00000073, // ecall
	0x00100513, // .Lone: li a0, 1
	0x00000073, // ecall
}

func main() {
	root := &cobra.Command{
		Use:   "rv32i",
		Short: "A minimal RV32I core: run programs, decode instructions",
	}
	root.AddCommand(newRunCmd(), newDecodeWordCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		memSize  int
		a0       uint32
		maxSteps int
		elfPath  string
		trace    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the built-in Fibonacci program (or an ELF binary) to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := machine.NewMachine(memSize)

			if elfPath != "" {
				if err := loadELF(m, elfPath); err != nil {
					return fmt.Errorf("loading %s: %w", elfPath, err)
				}
			} else {
				for i, word := range fibonacci {
					if err := m.Store32(uint32(4*i), word); err != nil {
						return fmt.Errorf("loading built-in program: %w", err)
					}
				}
			}
			m.SetReg(decode.A0, a0)

			for step := 0; maxSteps == 0 || step < maxSteps; step++ {
				if trace {
					if err := m.Dump(os.Stdout); err != nil {
						return err
					}
					fmt.Fprintln(os.Stdout)
				}

				outcome, err := m.Step()
				if err != nil {
					return fmt.Errorf("step %d: %w", step, err)
				}
				if outcome != machine.Running {
					fmt.Printf("%v after %d steps, a0 = %d (%#x)\n",
						outcome, step+1, m.GetReg(decode.A0), m.GetReg(decode.A0))
					return nil
				}
			}
			return fmt.Errorf("did not halt within %d steps", maxSteps)
		},
	}

	cmd.Flags().IntVar(&memSize, "mem", 64*1024, "Memory size in bytes")
	cmd.Flags().Uint32Var(&a0, "a0", 10, "Initial value of a0")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "Maximum instructions to execute (0 = unbounded)")
	cmd.Flags().StringVar(&elfPath, "elf", "", "Path to an RV32I ELF binary to run instead of the built-in program")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the register dump before every step")
	return cmd
}

func newDecodeWordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode-word <hex>",
		Short: "Decode a single 32-bit instruction word and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var word uint32
			if _, err := fmt.Sscanf(args[0], "%x", &word); err != nil {
				return fmt.Errorf("parsing %q as hex: %w", args[0], err)
			}
			in, err := decode.Decode(word)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "word\t%#08x\n", word)
			fmt.Fprintf(w, "mnemonic\t%v\n", in.Mnemonic())
			fmt.Fprintf(w, "operands\t%#v\n", in)
			return w.Flush()
		},
	}
	return cmd
}

// loadELF loads the allocatable sections of an RV32I ELF binary into the
// machine's memory and positions PC at the entry point.
func loadELF(m *machine.Machine, path string) error {
	f, err := elf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 || s.Size == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return fmt.Errorf("reading section %s: %w", s.Name, err)
		}
		for i, b := range data {
			if err := m.Store8(uint32(s.Addr)+uint32(i), uint32(b)); err != nil {
				return fmt.Errorf("loading section %s: %w", s.Name, err)
			}
		}
	}
	m.PC = uint32(f.Entry)
	return nil
}
