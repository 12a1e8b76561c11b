package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/romainaugier/execdump/internal/dump"
	"github.com/romainaugier/execdump/pe"
)

var (
	headersDOS      bool
	headersNT       bool
	headersOptional bool
)

var headersCmd = &cobra.Command{
	Use:   "headers <pe-file>",
	Short: "Display PE headers",
	Long: `Display the decoded headers of a PE file.

By default all headers are shown; use --dos, --nt or --optional to
restrict the output.`,
	Args: cobra.ExactArgs(1),
	RunE: runHeaders,
}

func init() {
	headersCmd.Flags().BoolVar(&headersDOS, "dos", false, "dump the legacy MS-DOS compatible header")
	headersCmd.Flags().BoolVar(&headersNT, "nt", false, "dump the NT/COFF header")
	headersCmd.Flags().BoolVar(&headersOptional, "optional", false, "dump the optional (32/64) header")
}

func runHeaders(cmd *cobra.Command, args []string) error {
	f, err := pe.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open PE: %w", err)
	}
	defer f.Close()

	all := !headersDOS && !headersNT && !headersOptional

	if all || headersDOS {
		dosNode(f).Print(output, indentSize)
	}
	if all || headersNT {
		ntNode(f).Print(output, indentSize)
	}
	if all || headersOptional {
		optionalNode(f).Print(output, indentSize)
	}

	return nil
}

func dosNode(f *pe.File) *dump.Node {
	h := f.DOSHeader()

	n := dump.New("DOS Header")
	n.AddFieldf("e_magic", "0x%04X", h.EMagic)
	n.AddFieldf("e_lfanew", "0x%08X", h.ELfanew)
	return n
}

func ntNode(f *pe.File) *dump.Node {
	nt := f.NTHeader()
	coff := &nt.COFF

	n := dump.New("NT Header")
	n.AddFieldf("Signature", "0x%08X", nt.Signature)

	c := n.AddChild("COFF Header")
	c.AddComment("Machine", fmt.Sprintf("0x%04X", coff.Machine), pe.MachineName(coff.Machine))
	c.AddFieldf("NumberOfSections", "%d", coff.NumberOfSections)
	c.AddComment("TimeDateStamp", fmt.Sprintf("0x%08X", coff.TimeDateStamp), formatTimestamp(coff.TimeDateStamp))
	c.AddFieldf("PointerToSymbolTable", "0x%08X", coff.PointerToSymbolTable)
	c.AddFieldf("NumberOfSymbols", "%d", coff.NumberOfSymbols)
	c.AddFieldf("SizeOfOptionalHeader", "%d", coff.SizeOfOptionalHeader)
	c.AddComment("Characteristics", fmt.Sprintf("0x%04X", coff.Characteristics),
		strings.Join(pe.CharacteristicsNames(coff.Characteristics), " | "))
	return n
}

func optionalNode(f *pe.File) *dump.Node {
	h := f.OptionalHeader()

	variant := "PE32"
	if h.Is64Bit() {
		variant = "PE32+"
	}

	n := dump.New("Optional Header")
	n.AddComment("Magic", fmt.Sprintf("0x%04X", h.Magic), variant)
	n.AddFieldf("LinkerVersion", "%d.%d", h.MajorLinkerVersion, h.MinorLinkerVersion)
	n.AddFieldf("SizeOfCode", "0x%X", h.SizeOfCode)
	n.AddFieldf("SizeOfInitializedData", "0x%X", h.SizeOfInitializedData)
	n.AddFieldf("SizeOfUninitializedData", "0x%X", h.SizeOfUninitializedData)
	n.AddFieldf("AddressOfEntryPoint", "0x%08X", h.AddressOfEntryPoint)
	n.AddFieldf("BaseOfCode", "0x%08X", h.BaseOfCode)
	if !h.Is64Bit() {
		n.AddFieldf("BaseOfData", "0x%08X", h.BaseOfData)
	}
	n.AddFieldf("ImageBase", "0x%X", h.ImageBase)
	n.AddFieldf("SectionAlignment", "0x%X", h.SectionAlignment)
	n.AddFieldf("FileAlignment", "0x%X", h.FileAlignment)
	n.AddFieldf("OperatingSystemVersion", "%d.%d", h.MajorOperatingSystemVersion, h.MinorOperatingSystemVersion)
	n.AddFieldf("ImageVersion", "%d.%d", h.MajorImageVersion, h.MinorImageVersion)
	n.AddFieldf("SubsystemVersion", "%d.%d", h.MajorSubsystemVersion, h.MinorSubsystemVersion)
	n.AddFieldf("SizeOfImage", "0x%X", h.SizeOfImage)
	n.AddFieldf("SizeOfHeaders", "0x%X", h.SizeOfHeaders)
	n.AddFieldf("CheckSum", "0x%08X", h.CheckSum)
	n.AddComment("Subsystem", fmt.Sprintf("%d", h.Subsystem), pe.SubsystemName(h.Subsystem))
	n.AddFieldf("DLLCharacteristics", "0x%04X", h.DLLCharacteristics)
	n.AddFieldf("SizeOfStackReserve", "0x%X", h.SizeOfStackReserve)
	n.AddFieldf("SizeOfStackCommit", "0x%X", h.SizeOfStackCommit)
	n.AddFieldf("SizeOfHeapReserve", "0x%X", h.SizeOfHeapReserve)
	n.AddFieldf("SizeOfHeapCommit", "0x%X", h.SizeOfHeapCommit)
	n.AddFieldf("NumberOfRvaAndSizes", "%d", h.NumberOfRvaAndSizes)

	d := n.AddChild("Data Directories")
	for i, name := range pe.DirectoryNames {
		directory := h.Directory(i)
		if !directory.IsPresent() {
			continue
		}
		d.AddFieldf(name, "rva=0x%08X size=0x%X", directory.VirtualAddress, directory.Size)
	}
	if len(d.Fields) == 0 {
		d.AddField("", "(none)")
	}

	return n
}
