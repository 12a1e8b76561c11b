package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/romainaugier/execdump/pe"
)

var importsVerbose bool

var importsCmd = &cobra.Command{
	Use:   "imports <pe-file>",
	Short: "Display the import table",
	Long:  `Display imported DLLs and the functions resolved from each import lookup table.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImports,
}

func init() {
	importsCmd.Flags().BoolVarP(&importsVerbose, "verbose", "v", false, "show descriptor fields and import hints")
}

func runImports(cmd *cobra.Command, args []string) error {
	f, err := pe.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open PE: %w", err)
	}
	defer f.Close()

	imports := f.Imports()
	if len(imports.DLLs) == 0 {
		fmt.Fprintln(output, "No imports")
		return nil
	}

	for _, dll := range imports.DLLs {
		fmt.Fprintf(output, "%s (%d functions)\n", dll.Name, len(dll.Functions))

		if importsVerbose {
			d := dll.Descriptor
			fmt.Fprintf(output, "  ImportLookupTableRVA : 0x%08X\n", d.ImportLookupTableRVA)
			fmt.Fprintf(output, "  ImportAddressTableRVA: 0x%08X\n", d.ImportAddressTableRVA)
			fmt.Fprintf(output, "  TimeDateStamp        : 0x%08X\n", d.TimeDateStamp)
			fmt.Fprintf(output, "  ForwarderChain       : 0x%08X\n", d.ForwarderChain)
			fmt.Fprintf(output, "%s\n", strings.Repeat("-", 40))
		}

		for _, fn := range dll.Functions {
			if fn.ByOrdinal {
				fmt.Fprintf(output, "  ordinal #%d\n", fn.Ordinal)
			} else if importsVerbose {
				fmt.Fprintf(output, "  %s (hint %d)\n", fn.Name, fn.Hint)
			} else {
				fmt.Fprintf(output, "  %s\n", fn.Name)
			}
		}
	}

	fmt.Fprintf(output, "\nTotal: %d DLLs\n", len(imports.DLLs))
	return nil
}
