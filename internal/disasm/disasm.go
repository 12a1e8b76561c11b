// Package disasm decodes raw section bytes into instructions and
// classifies padding. Decoding is delegated to golang.org/x/arch; this
// package only shapes the results for reporting.
package disasm

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Instruction is one decoded instruction in Intel syntax, split into
// mnemonic and operand text.
type Instruction struct {
	Offset   uint64 // offset from the start of the decoded slice
	Len      int
	Mnemonic string
	OpText   string
	Bytes    []byte
}

// Text returns the full Intel-syntax form of the instruction.
func (i Instruction) Text() string {
	if i.OpText == "" {
		return i.Mnemonic
	}
	return i.Mnemonic + " " + i.OpText
}

// Disassemble decodes the whole byte slice in 32- or 64-bit x86 mode.
// Undecodable bytes become a one-byte "(bad)" instruction so a report
// over corrupt or non-code sections never aborts.
func Disassemble(code []byte, is64 bool) []Instruction {
	mode := 32
	if is64 {
		mode = 64
	}

	var instructions []Instruction

	for offset := 0; offset < len(code); {
		inst, err := x86asm.Decode(code[offset:], mode)
		if err != nil || inst.Len == 0 {
			instructions = append(instructions, Instruction{
				Offset:   uint64(offset),
				Len:      1,
				Mnemonic: "(bad)",
				Bytes:    code[offset : offset+1],
			})
			offset++
			continue
		}

		text := x86asm.IntelSyntax(inst, uint64(offset), nil)
		mnemonic, opText, _ := strings.Cut(text, " ")

		instructions = append(instructions, Instruction{
			Offset:   uint64(offset),
			Len:      inst.Len,
			Mnemonic: mnemonic,
			OpText:   opText,
			Bytes:    code[offset : offset+inst.Len],
		})
		offset += inst.Len
	}

	return instructions
}
