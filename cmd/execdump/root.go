package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFile string
	output     io.Writer
	indentSize int
)

var rootCmd = &cobra.Command{
	Use:   "execdump",
	Short: "Parser/Dumper for portable executable files on Windows",
	Long: `execdump is a command-line tool for inspecting Windows Portable
Executable (PE) files without executing them.

It can display the DOS, NT and optional headers, the section table,
the import table, and a disassembly of code sections.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().IntVar(&indentSize, "padding", 4, "indent size used when dumping information")

	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(dumpCmd)
}
