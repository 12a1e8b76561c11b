package main

import (
	"fmt"
	"strings"
	"time"
)

// formatTimestamp renders a COFF TimeDateStamp as a UTC date.
func formatTimestamp(stamp uint32) string {
	return time.Unix(int64(stamp), 0).UTC().Format("02/01/2006 15:04")
}

// hexDump renders data as rows of 16 hex bytes with file offsets and an
// ASCII column.
func hexDump(baseOffset uint32, data []byte) string {
	var b strings.Builder

	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}

		fmt.Fprintf(&b, "%08X  ", baseOffset+uint32(i))

		for j := 0; j < 16; j++ {
			if i+j < len(data) {
				fmt.Fprintf(&b, "%02X ", data[i+j])
			} else {
				b.WriteString("   ")
			}
		}

		b.WriteString(" ")
		for _, c := range data[i:end] {
			if c >= 32 && c <= 126 {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
