// Package pe provides read-only parsing and querying of Windows
// Portable Executable (PE) images.
package pe

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrFileNotFound indicates the input path does not exist.
	ErrFileNotFound = errors.New("pe: file not found")

	// ErrNotPEFile indicates the input path is not a .exe or .dll file.
	ErrNotPEFile = errors.New("pe: not a portable executable (.exe | .dll)")

	// ErrInvalidDOSMagic indicates the file does not start with "MZ".
	ErrInvalidDOSMagic = errors.New("pe: invalid DOS magic number")

	// ErrInvalidPESignature indicates the NT header signature is not "PE\0\0".
	ErrInvalidPESignature = errors.New("pe: invalid PE signature in NT header")

	// ErrUnknownOptionalMagic indicates an unrecognized optional header magic.
	ErrUnknownOptionalMagic = errors.New("pe: unknown optional header magic")

	// ErrMalformedOptionalHeader indicates SizeOfOptionalHeader is smaller
	// than the decoded optional header variant.
	ErrMalformedOptionalHeader = errors.New("pe: declared optional header size smaller than decoded size")

	// ErrUnsupportedFeature indicates a valid but unimplemented construct,
	// such as string-table-indirect section names.
	ErrUnsupportedFeature = errors.New("pe: unsupported feature")

	// ErrDanglingRVA indicates an RVA the format requires to resolve
	// does not fall within any section.
	ErrDanglingRVA = errors.New("pe: RVA does not map to any section")

	// ErrImportScanLimit indicates the import descriptor scan reached its
	// hard cap without finding an all-zero terminator.
	ErrImportScanLimit = errors.New("pe: import descriptor limit reached without terminator")
)

// ParseError provides detailed information about parsing failures.
type ParseError struct {
	Structure string // Structure being decoded when the error occurred
	Offset    int    // Byte offset within the file
	Message   string // Description of the error
	Err       error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pe: parse error in %s at offset 0x%x: %s: %v",
			e.Structure, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("pe: parse error in %s at offset 0x%x: %s",
		e.Structure, e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(structure string, offset int, message string, err error) *ParseError {
	return &ParseError{Structure: structure, Offset: offset, Message: message, Err: err}
}
