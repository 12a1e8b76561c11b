package pe

import (
	"fmt"

	"github.com/romainaugier/execdump/internal/stream"
)

// SectionHeader is a decoded 40-byte section table record.
// An empty Name means the record started with a NUL byte; the remaining
// fields of such a record are left zero.
type SectionHeader struct {
	Name                 string
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// Contains reports whether the section's virtual range covers the RVA.
// The end of the range is not computed in uint32, so a section ending
// at the 4 GiB boundary does not wrap.
func (s *SectionHeader) Contains(rva uint32) bool {
	return rva >= s.VirtualAddress && rva-s.VirtualAddress < s.VirtualSize
}

// decodeSectionHeader decodes one section record. The cursor always
// advances exactly 40 bytes on success.
func decodeSectionHeader(r *stream.Reader) (*SectionHeader, error) {
	var h SectionHeader
	var err error

	start := r.Offset()

	first, err := r.ReadU8()
	if err != nil {
		return nil, parseErr("section header", start, "truncated record", err)
	}

	switch {
	case first == 0x00:
		// Nameless record; the rest is not interpreted.
		if err := r.Skip(sectionHeaderSize - 1); err != nil {
			return nil, parseErr("section header", start, "truncated record", err)
		}
		return &h, nil
	case first == '/':
		// Name lives in the COFF string table, which is not modeled.
		return nil, fmt.Errorf("%w: string-table-indirect section name", ErrUnsupportedFeature)
	}

	// The name stops at the first embedded NUL, but the record layout
	// fixes the name field at 8 bytes, so the cursor consumes them all.
	name := make([]byte, 1, 8)
	name[0] = first
	terminated := false
	for i := 0; i < 7; i++ {
		c, err := r.ReadU8()
		if err != nil {
			return nil, parseErr("section header", start, "truncated name", err)
		}
		if c == 0 {
			terminated = true
		}
		if !terminated {
			name = append(name, c)
		}
	}
	h.Name = string(name)

	read16 := func(dst *uint16) {
		if err == nil {
			*dst, err = r.ReadU16()
		}
	}
	read32 := func(dst *uint32) {
		if err == nil {
			*dst, err = r.ReadU32()
		}
	}

	read32(&h.VirtualSize)
	read32(&h.VirtualAddress)
	read32(&h.SizeOfRawData)
	read32(&h.PointerToRawData)
	read32(&h.PointerToRelocations)
	read32(&h.PointerToLinenumbers)
	read16(&h.NumberOfRelocations)
	read16(&h.NumberOfLinenumbers)
	read32(&h.Characteristics)

	if err != nil {
		return nil, parseErr("section header", start, "truncated record", err)
	}

	return &h, nil
}

// decodeSectionTable decodes count section records starting at the
// current cursor position. Sections are keyed by name; on a name
// collision the last record wins. Raw-data bounds are not validated
// here, consumers check them when slicing section data.
func decodeSectionTable(r *stream.Reader, count int) (map[string]*SectionHeader, error) {
	sections := make(map[string]*SectionHeader, count)

	for i := 0; i < count; i++ {
		section, err := decodeSectionHeader(r)
		if err != nil {
			return nil, err
		}
		sections[section.Name] = section
	}

	return sections, nil
}

// RVAToOffset translates a relative virtual address to a file offset
// using the section table. The second return value is false when no
// section contains the RVA; a data directory with VirtualAddress zero
// legitimately translates to nothing, so this is not an error.
func (f *File) RVAToOffset(rva uint32) (uint32, bool) {
	for _, section := range f.sections {
		if section.Contains(rva) {
			return section.PointerToRawData + (rva - section.VirtualAddress), true
		}
	}
	return 0, false
}
