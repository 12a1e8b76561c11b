package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/romainaugier/execdump/internal/dump"
	"github.com/romainaugier/execdump/pe"
)

var (
	sectionsFilter string
	sectionsData   bool
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <pe-file>",
	Short: "Display the section table",
	Long: `Display the decoded section table of a PE file.

Sections can be filtered by name with a regular expression, and the raw
section bytes can be dumped alongside the headers.`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func init() {
	sectionsCmd.Flags().StringVar(&sectionsFilter, "filter", ".*", "regular expression to filter sections by name")
	sectionsCmd.Flags().BoolVar(&sectionsData, "data", false, "dump the raw section data along with the headers")
}

func runSections(cmd *cobra.Command, args []string) error {
	filter, err := regexp.Compile(sectionsFilter)
	if err != nil {
		return fmt.Errorf("invalid section filter: %w", err)
	}

	f, err := pe.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open PE: %w", err)
	}
	defer f.Close()

	names := f.SectionNames()
	sort.Strings(names)

	for _, name := range names {
		if !filter.MatchString(name) {
			continue
		}

		section := f.Section(name)
		node := sectionNode(name, section)

		if sectionsData && section.SizeOfRawData > 0 {
			data, err := f.SectionData(name)
			if err != nil {
				return fmt.Errorf("failed to read section %q: %w", name, err)
			}
			node.Code = strings.Split(strings.TrimRight(hexDump(section.PointerToRawData, data), "\n"), "\n")
		}

		node.Print(output, indentSize)
	}

	return nil
}

func sectionNode(name string, s *pe.SectionHeader) *dump.Node {
	label := name
	if label == "" {
		label = "(empty)"
	}

	n := dump.New(fmt.Sprintf("Section %s", label))
	n.AddFieldf("VirtualSize", "0x%X", s.VirtualSize)
	n.AddFieldf("VirtualAddress", "0x%08X", s.VirtualAddress)
	n.AddFieldf("SizeOfRawData", "0x%X", s.SizeOfRawData)
	n.AddFieldf("PointerToRawData", "0x%08X", s.PointerToRawData)
	n.AddFieldf("PointerToRelocations", "0x%08X", s.PointerToRelocations)
	n.AddFieldf("PointerToLinenumbers", "0x%08X", s.PointerToLinenumbers)
	n.AddFieldf("NumberOfRelocations", "%d", s.NumberOfRelocations)
	n.AddFieldf("NumberOfLinenumbers", "%d", s.NumberOfLinenumbers)
	n.AddComment("Characteristics", fmt.Sprintf("0x%08X", s.Characteristics),
		strings.Join(pe.SectionFlagNames(s.Characteristics), " | "))
	return n
}
