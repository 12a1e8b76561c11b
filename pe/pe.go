package pe

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/romainaugier/execdump/internal/stream"
)

// File represents a parsed PE image. It owns the underlying buffer;
// nothing is mutated after Open/NewFile returns, so a File is safe for
// concurrent read access.
type File struct {
	path     string
	data     []byte
	mapped   mmap.MMap // non-nil when the buffer is a read-only file mapping
	header   *Header
	sections map[string]*SectionHeader
	imports  *ImportTable
}

// Open maps the file at path read-only and parses it as a PE image.
// The path must exist and carry a .exe or .dll extension; both checks
// run before any byte is interpreted.
func Open(path string) (*File, error) {
	handle, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("pe: failed to open file: %w", err)
	}
	defer handle.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".dll":
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPEFile, path)
	}

	mapped, err := mmap.Map(handle, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("pe: failed to map file: %w", err)
	}

	f := &File{path: path, data: mapped, mapped: mapped}
	if err := f.parse(); err != nil {
		_ = mapped.Unmap()
		return nil, err
	}

	return f, nil
}

// NewFile parses a PE image from an in-memory buffer. The buffer must
// stay immutable for the lifetime of the File.
func NewFile(data []byte) (*File, error) {
	f := &File{data: data}
	if err := f.parse(); err != nil {
		return nil, err
	}
	return f, nil
}

// Close unmaps the underlying buffer when it was mapped by Open.
func (f *File) Close() error {
	if f.mapped == nil {
		return nil
	}
	err := f.mapped.Unmap()
	f.mapped = nil
	f.data = nil
	return err
}

// parse runs the single top-to-bottom decoding pass: headers, section
// table, then the import walk if the import directory is present.
func (f *File) parse() error {
	r := stream.NewReader(f.data)

	header, err := decodeHeader(r)
	if err != nil {
		return err
	}
	f.header = header

	if n := header.Optional.NumberOfRvaAndSizes; n != dataDirectoryCount {
		log.Printf("pe: suspicious NumberOfRvaAndSizes in the optional header: 0x%x", n)
	}

	sections, err := decodeSectionTable(r, int(header.NT.COFF.NumberOfSections))
	if err != nil {
		return err
	}
	f.sections = sections

	imports, err := f.walkImports(r)
	if err != nil {
		return err
	}
	f.imports = imports

	return nil
}

// Path returns the file path, or the empty string for in-memory images.
func (f *File) Path() string {
	return f.path
}

// Size returns the size of the underlying buffer in bytes.
func (f *File) Size() int {
	return len(f.data)
}

// DOSHeader returns the decoded MS-DOS header.
func (f *File) DOSHeader() *DOSHeader {
	return &f.header.DOS
}

// NTHeader returns the decoded NT header (signature and COFF header).
func (f *File) NTHeader() *NTHeader {
	return &f.header.NT
}

// COFFHeader returns the decoded COFF header.
func (f *File) COFFHeader() *COFFHeader {
	return &f.header.NT.COFF
}

// OptionalHeader returns the decoded optional header.
func (f *File) OptionalHeader() *OptionalHeader {
	return &f.header.Optional
}

// Is64Bit reports whether the image uses the PE32+ optional header.
func (f *File) Is64Bit() bool {
	return f.header.Optional.Is64Bit()
}

// Machine returns the display name of the COFF machine type.
func (f *File) Machine() string {
	return MachineName(f.header.NT.COFF.Machine)
}

// Sections returns the decoded section table keyed by section name.
func (f *File) Sections() map[string]*SectionHeader {
	return f.sections
}

// Section returns the named section, or nil.
func (f *File) Section(name string) *SectionHeader {
	return f.sections[name]
}

// SectionNames returns all section names in unspecified order.
func (f *File) SectionNames() []string {
	names := make([]string, 0, len(f.sections))
	for name := range f.sections {
		names = append(names, name)
	}
	return names
}

// SectionData returns the raw bytes of the named section, the slice
// between PointerToRawData and PointerToRawData+SizeOfRawData. The
// slice aliases the file buffer and must not be modified.
func (f *File) SectionData(name string) ([]byte, error) {
	section := f.sections[name]
	if section == nil {
		return nil, fmt.Errorf("pe: no such section: %q", name)
	}

	start := int64(section.PointerToRawData)
	end := start + int64(section.SizeOfRawData)
	if end > int64(len(f.data)) {
		return nil, parseErr("section data", int(start), "raw data past end of file", stream.ErrUnexpectedEOF)
	}

	return f.data[start:end], nil
}

// Imports returns the walked import table, empty when the image has no
// import directory.
func (f *File) Imports() *ImportTable {
	return f.imports
}

// DLLNames returns the names of all imported DLLs in descriptor order.
func (f *File) DLLNames() []string {
	return f.imports.DLLNames()
}
