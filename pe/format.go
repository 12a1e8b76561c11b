package pe

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Format identifies the executable container format of a file.
type Format int

const (
	FormatUnknown Format = iota
	FormatPE
	FormatELF
)

func (f Format) String() string {
	switch f {
	case FormatPE:
		return "PE"
	case FormatELF:
		return "ELF"
	default:
		return "unknown"
	}
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// DetectFormat sniffs the first bytes of the file at path and
// classifies the executable format. ELF images are recognized but not
// parsed; callers get ErrUnsupportedFeature when they try.
func DetectFormat(path string) (Format, error) {
	handle, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("pe: failed to open file: %w", err)
	}
	defer handle.Close()

	magic := make([]byte, 8)
	if _, err := io.ReadFull(handle, magic); err != nil {
		return FormatUnknown, fmt.Errorf("pe: failed to read magic: %w", err)
	}

	if bytes.Equal(magic[:4], elfMagic) {
		return FormatELF, nil
	}

	if magic[0] == 'M' && magic[1] == 'Z' {
		return FormatPE, nil
	}

	return FormatUnknown, nil
}
