package pe

import (
	"github.com/romainaugier/execdump/internal/stream"
)

// DOSHeader is the legacy MS-DOS compatible header present in every PE
// file. Only EMagic and ELfanew are interpreted downstream; the remaining
// fields are retained as raw values.
type DOSHeader struct {
	EMagic    uint16 // Magic number: 0x5A4D, "MZ"
	ECblp     uint16 // Bytes on last page of file
	ECp       uint16 // Pages in file
	ECrlc     uint16 // Relocations
	ECparhdr  uint16 // Size of header, in paragraphs
	EMinalloc uint16 // Min extra paragraphs needed
	EMaxalloc uint16 // Max extra paragraphs needed
	ESS       uint16 // Initial (relative) SS value
	ESP       uint16 // Initial SP value
	ECsum     uint16 // Checksum
	EIP       uint16 // Initial IP value
	ECS       uint16 // Initial (relative) CS value
	ELfarlc   uint16 // File address of relocation table
	EOvno     uint16 // Overlay number
	ELfanew   uint32 // File offset of the NT header
}

func decodeDOSHeader(r *stream.Reader) (*DOSHeader, error) {
	var h DOSHeader
	var err error

	if h.EMagic, err = r.ReadU16(); err != nil {
		return nil, parseErr("DOS header", 0, "reading e_magic", err)
	}

	if h.EMagic != DOSMagic {
		return nil, ErrInvalidDOSMagic
	}

	if err = r.SetOffset(lfanewOffset); err != nil {
		return nil, err
	}

	if h.ELfanew, err = r.ReadU32(); err != nil {
		return nil, parseErr("DOS header", lfanewOffset, "reading e_lfanew", err)
	}

	return &h, nil
}

// COFFHeader is the fixed 20-byte file header following the NT signature.
type COFFHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

func decodeCOFFHeader(r *stream.Reader) (*COFFHeader, error) {
	var h COFFHeader
	var err error

	start := r.Offset()

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

	read16(&h.Machine)
	read16(&h.NumberOfSections)
	read32(&h.TimeDateStamp)
	read32(&h.PointerToSymbolTable)
	read32(&h.NumberOfSymbols)
	read16(&h.SizeOfOptionalHeader)
	read16(&h.Characteristics)

	if err != nil {
		return nil, parseErr("COFF header", start, "truncated header", err)
	}

	return &h, nil
}

// NTHeader groups the "PE\0\0" signature and the COFF header.
type NTHeader struct {
	Signature uint32
	COFF      COFFHeader
}

func decodeNTHeader(r *stream.Reader) (*NTHeader, error) {
	var h NTHeader
	var err error

	start := r.Offset()

	if h.Signature, err = r.ReadU32(); err != nil {
		return nil, parseErr("NT header", start, "reading signature", err)
	}

	if h.Signature != NTSignature {
		return nil, ErrInvalidPESignature
	}

	coff, err := decodeCOFFHeader(r)
	if err != nil {
		return nil, err
	}
	h.COFF = *coff

	return &h, nil
}

// DataDirectory locates an optional table in the image. A zero
// VirtualAddress means the table is absent.
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// IsPresent reports whether the directory points at an actual table.
func (d DataDirectory) IsPresent() bool {
	return d.VirtualAddress != 0
}

func decodeDataDirectory(r *stream.Reader) (DataDirectory, error) {
	var d DataDirectory
	var err error

	if d.VirtualAddress, err = r.ReadU32(); err != nil {
		return d, err
	}
	d.Size, err = r.ReadU32()
	return d, err
}

// OptionalHeader is the decoded 32- or 64-bit optional header. The two
// variants differ only in the width of ImageBase and the four stack/heap
// reserve/commit fields, so a single struct with 64-bit fields carries
// both; Magic records which variant was decoded.
type OptionalHeader struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32 // PE32 only; zero for PE32+
	ImageBase                   uint64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32 // reserved
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DLLCharacteristics          uint16
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32 // reserved
	NumberOfRvaAndSizes         uint32
	DataDirectories             [dataDirectoryCount]DataDirectory
}

// Is64Bit reports whether the header is the PE32+ variant.
func (h *OptionalHeader) Is64Bit() bool {
	return h.Magic == OptionalMagic64
}

// Directory returns the data directory at the given index.
func (h *OptionalHeader) Directory(index int) DataDirectory {
	if index < 0 || index >= dataDirectoryCount {
		return DataDirectory{}
	}
	return h.DataDirectories[index]
}

// decodeOptionalHeader decodes either optional header variant. The
// two-byte magic is peeked first so the matching variant can be decoded
// from its start; this is bounded look-ahead, not general rewinding.
func decodeOptionalHeader(r *stream.Reader) (*OptionalHeader, error) {
	start := r.Offset()

	magic, err := r.PeekU16()
	if err != nil {
		return nil, parseErr("optional header", start, "reading magic", err)
	}

	switch magic {
	case OptionalMagic32, OptionalMagic64:
	default:
		return nil, ErrUnknownOptionalMagic
	}

	h, err := decodeOptionalFields(r, magic == OptionalMagic64)
	if err != nil {
		return nil, parseErr("optional header", start, "truncated header", err)
	}

	for i := 0; i < dataDirectoryCount; i++ {
		h.DataDirectories[i], err = decodeDataDirectory(r)
		if err != nil {
			return nil, parseErr("optional header", start, "truncated data directories", err)
		}
	}

	return h, nil
}

func decodeOptionalFields(r *stream.Reader, is64 bool) (*OptionalHeader, error) {
	var h OptionalHeader
	var err error

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
	read8 := func(dst *uint8) {
		if err == nil {
			*dst, err = r.ReadU8()
		}
	}
	// image base and the stack/heap fields are the only width-dependent reads
	readAddr := func(dst *uint64) {
		if err != nil {
			return
		}
		if is64 {
			*dst, err = r.ReadU64()
		} else {
			var v uint32
			v, err = r.ReadU32()
			*dst = uint64(v)
		}
	}

	read16(&h.Magic)
	read8(&h.MajorLinkerVersion)
	read8(&h.MinorLinkerVersion)
	read32(&h.SizeOfCode)
	read32(&h.SizeOfInitializedData)
	read32(&h.SizeOfUninitializedData)
	read32(&h.AddressOfEntryPoint)
	read32(&h.BaseOfCode)
	if !is64 {
		read32(&h.BaseOfData)
	}
	readAddr(&h.ImageBase)
	read32(&h.SectionAlignment)
	read32(&h.FileAlignment)
	read16(&h.MajorOperatingSystemVersion)
	read16(&h.MinorOperatingSystemVersion)
	read16(&h.MajorImageVersion)
	read16(&h.MinorImageVersion)
	read16(&h.MajorSubsystemVersion)
	read16(&h.MinorSubsystemVersion)
	read32(&h.Win32VersionValue)
	read32(&h.SizeOfImage)
	read32(&h.SizeOfHeaders)
	read32(&h.CheckSum)
	read16(&h.Subsystem)
	read16(&h.DLLCharacteristics)
	readAddr(&h.SizeOfStackReserve)
	readAddr(&h.SizeOfStackCommit)
	readAddr(&h.SizeOfHeapReserve)
	readAddr(&h.SizeOfHeapCommit)
	read32(&h.LoaderFlags)
	read32(&h.NumberOfRvaAndSizes)

	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Header groups all decoded PE headers.
type Header struct {
	DOS      DOSHeader
	NT       NTHeader
	Optional OptionalHeader
}

// decodeHeader runs the full header pass: DOS header, NT/COFF header,
// optional header variant with its data directories. On return the
// reader is positioned at the start of the section table.
func decodeHeader(r *stream.Reader) (*Header, error) {
	var h Header

	dos, err := decodeDOSHeader(r)
	if err != nil {
		return nil, err
	}
	h.DOS = *dos

	if err := r.SetOffset(int(dos.ELfanew)); err != nil {
		return nil, err
	}
	if r.Remaining() == 0 {
		return nil, parseErr("NT header", int(dos.ELfanew), "e_lfanew past end of file", stream.ErrUnexpectedEOF)
	}

	nt, err := decodeNTHeader(r)
	if err != nil {
		return nil, err
	}
	h.NT = *nt

	optionalStart := r.Offset()

	opt, err := decodeOptionalHeader(r)
	if err != nil {
		return nil, err
	}
	h.Optional = *opt

	// The section table begins SizeOfOptionalHeader bytes after the
	// optional header start, whatever the decoded variant consumed. A
	// declared size smaller than the decoded variant would require a
	// backward seek into already-decoded fields, which can only come
	// from a corrupt header.
	declared := int(nt.COFF.SizeOfOptionalHeader)
	consumed := r.Offset() - optionalStart
	if declared < consumed {
		return nil, ErrMalformedOptionalHeader
	}
	if declared > consumed {
		if err := r.Skip(declared - consumed); err != nil {
			return nil, parseErr("optional header", optionalStart, "declared size past end of file", err)
		}
	}

	return &h, nil
}
