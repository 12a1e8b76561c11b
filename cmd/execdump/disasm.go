package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romainaugier/execdump/internal/disasm"
	"github.com/romainaugier/execdump/pe"
)

var (
	disasmSection     string
	disasmShowPadding bool
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <pe-file>",
	Short: "Disassemble a code section",
	Long: `Disassemble the raw bytes of a section (by default .text) in the
image's bitness. Padding instructions between functions are elided
unless --padding-insns is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisasm,
}

func init() {
	disasmCmd.Flags().StringVar(&disasmSection, "section", ".text", "section to disassemble")
	disasmCmd.Flags().BoolVar(&disasmShowPadding, "padding-insns", false, "include padding instructions in the listing")
}

func runDisasm(cmd *cobra.Command, args []string) error {
	f, err := pe.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open PE: %w", err)
	}
	defer f.Close()

	section := f.Section(disasmSection)
	if section == nil {
		return fmt.Errorf("no such section: %q", disasmSection)
	}

	data, err := f.SectionData(disasmSection)
	if err != nil {
		return fmt.Errorf("failed to read section %q: %w", disasmSection, err)
	}

	instructions := disasm.Disassemble(data, f.Is64Bit())

	elided := 0
	for _, inst := range instructions {
		if !disasmShowPadding && disasm.IsPadding(inst) {
			elided++
			continue
		}
		fmt.Fprintf(output, "%08X  %-24s %s\n",
			section.VirtualAddress+uint32(inst.Offset), hexBytes(inst.Bytes), inst.Text())
	}

	if elided > 0 {
		fmt.Fprintf(output, "\n(%d padding instructions elided)\n", elided)
	}

	return nil
}

func hexBytes(b []byte) string {
	s := ""
	for i, c := range b {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%02x", c)
	}
	return s
}
