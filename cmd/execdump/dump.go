package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/romainaugier/execdump/pe"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump <pe-file>",
	Short: "Dump all PE information",
	Long: `Dump headers, sections and imports in structured format.

Supported formats:
  - text: Human-readable text (default)
  - json: JSON format`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json)")
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]

	switch dumpFormat {
	case "json":
		return dumpJSON(path)
	case "text":
		return dumpText(path)
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
}

type PEDump struct {
	File     string        `json:"file"`
	Machine  string        `json:"machine"`
	Is64Bit  bool          `json:"is_64_bit"`
	Sections []SectionDump `json:"sections"`
	Imports  []ImportDump  `json:"imports"`
}

type SectionDump struct {
	Name             string `json:"name"`
	VirtualSize      uint32 `json:"virtual_size"`
	VirtualAddress   uint32 `json:"virtual_address"`
	SizeOfRawData    uint32 `json:"size_of_raw_data"`
	PointerToRawData uint32 `json:"pointer_to_raw_data"`
	Characteristics  uint32 `json:"characteristics"`
}

type ImportDump struct {
	DLL       string         `json:"dll"`
	Functions []FunctionDump `json:"functions"`
}

type FunctionDump struct {
	Name      string `json:"name,omitempty"`
	Hint      uint16 `json:"hint,omitempty"`
	Ordinal   uint16 `json:"ordinal,omitempty"`
	ByOrdinal bool   `json:"by_ordinal,omitempty"`
}

func dumpJSON(path string) error {
	f, err := pe.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open PE: %w", err)
	}
	defer f.Close()

	d := &PEDump{
		File:    path,
		Machine: f.Machine(),
		Is64Bit: f.Is64Bit(),
	}

	names := f.SectionNames()
	sort.Strings(names)
	for _, name := range names {
		s := f.Section(name)
		d.Sections = append(d.Sections, SectionDump{
			Name:             name,
			VirtualSize:      s.VirtualSize,
			VirtualAddress:   s.VirtualAddress,
			SizeOfRawData:    s.SizeOfRawData,
			PointerToRawData: s.PointerToRawData,
			Characteristics:  s.Characteristics,
		})
	}

	for _, dll := range f.Imports().DLLs {
		imp := ImportDump{DLL: dll.Name}
		for _, fn := range dll.Functions {
			imp.Functions = append(imp.Functions, FunctionDump{
				Name:      fn.Name,
				Hint:      fn.Hint,
				Ordinal:   fn.Ordinal,
				ByOrdinal: fn.ByOrdinal,
			})
		}
		d.Imports = append(d.Imports, imp)
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

func dumpText(path string) error {
	fmt.Fprintln(output, "=== Headers ===")
	if err := runHeaders(nil, []string{path}); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "=== Sections ===")
	sectionsFilter = ".*"
	sectionsData = false
	if err := runSections(nil, []string{path}); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "=== Imports ===")
	importsVerbose = false
	return runImports(nil, []string{path})
}
