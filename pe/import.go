package pe

import (
	"fmt"

	"github.com/romainaugier/execdump/internal/stream"
)

// MaxImportDescriptors bounds the import descriptor scan. A well-formed
// import table ends with an all-zero record; corrupt or hostile input
// may not, so the walk reports ErrImportScanLimit when a record past
// this many is still not the terminator.
const MaxImportDescriptors = 256

// ImportDescriptor is a decoded IMAGE_IMPORT_DESCRIPTOR record.
type ImportDescriptor struct {
	ImportLookupTableRVA  uint32
	TimeDateStamp         uint32
	ForwarderChain        uint32
	NameRVA               uint32
	ImportAddressTableRVA uint32
}

// isZero reports whether the record is the array terminator.
func (d *ImportDescriptor) isZero() bool {
	return d.ImportLookupTableRVA == 0 &&
		d.TimeDateStamp == 0 &&
		d.ForwarderChain == 0 &&
		d.NameRVA == 0 &&
		d.ImportAddressTableRVA == 0
}

func decodeImportDescriptor(r *stream.Reader) (*ImportDescriptor, error) {
	var d ImportDescriptor
	var err error

	read32 := func(dst *uint32) {
		if err == nil {
			*dst, err = r.ReadU32()
		}
	}

	read32(&d.ImportLookupTableRVA)
	read32(&d.TimeDateStamp)
	read32(&d.ForwarderChain)
	read32(&d.NameRVA)
	read32(&d.ImportAddressTableRVA)

	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportedFunction is one import lookup entry, resolved by ordinal or
// by name through the Hint/Name table.
type ImportedFunction struct {
	ByOrdinal bool
	Ordinal   uint16
	Hint      uint16
	Name      string
	Padded    bool // Hint/Name record needed an alignment byte
}

// ImportedDLL groups one import descriptor with its DLL name and the
// functions resolved from its lookup table.
type ImportedDLL struct {
	Name       string
	Descriptor ImportDescriptor
	Functions  []ImportedFunction
}

// ImportTable is the fully walked import directory. It is empty, not
// nil or an error, when the image has no import directory.
type ImportTable struct {
	DLLs []ImportedDLL
}

// DLLNames returns the imported DLL names in descriptor order.
func (t *ImportTable) DLLNames() []string {
	names := make([]string, len(t.DLLs))
	for i := range t.DLLs {
		names[i] = t.DLLs[i].Name
	}
	return names
}

// decodeLookupEntry decodes one import lookup entry. The entry width
// follows the image bitness; the top bit selects ordinal import (low
// 16 bits) versus name import (low 31 bits are a Hint/Name table RVA).
func decodeLookupEntry(r *stream.Reader, is64 bool) (raw uint64, err error) {
	if is64 {
		return r.ReadU64()
	}
	v, err := r.ReadU32()
	return uint64(v), err
}

func lookupByOrdinal(raw uint64, is64 bool) bool {
	if is64 {
		return raw&0x8000000000000000 != 0
	}
	return raw&0x80000000 != 0
}

// decodeHintName decodes a Hint/Name table record: a 16-bit hint and a
// null-terminated ASCII name. Entries are 2-byte aligned, so a name
// whose encoded length including the terminator is odd is followed by
// exactly one padding byte.
func decodeHintName(r *stream.Reader) (hint uint16, name string, padded bool, err error) {
	if hint, err = r.ReadU16(); err != nil {
		return 0, "", false, err
	}

	if name, err = r.ReadCString(); err != nil {
		return 0, "", false, err
	}

	if (len(name)+1)%2 != 0 {
		if _, err = r.ReadU8(); err != nil {
			return 0, "", false, err
		}
		padded = true
	}

	return hint, name, padded, nil
}

// walkImports walks the import directory: descriptors, DLL names, lookup
// tables and Hint/Name records. The reader must cover the whole file.
func (f *File) walkImports(r *stream.Reader) (*ImportTable, error) {
	table := &ImportTable{}

	directory := f.header.Optional.Directory(DirectoryImport)
	if !directory.IsPresent() {
		return table, nil
	}

	offset, ok := f.RVAToOffset(directory.VirtualAddress)
	if !ok {
		// A directory that points outside every section translates to
		// nothing; that yields an empty table, not an error.
		return table, nil
	}

	if err := r.SetOffset(int(offset)); err != nil {
		return nil, err
	}

	var descriptors []ImportDescriptor
	for {
		start := r.Offset()
		descriptor, err := decodeImportDescriptor(r)
		if err != nil {
			return nil, parseErr("import descriptor", start, "truncated record", err)
		}
		if descriptor.isZero() {
			break
		}
		if len(descriptors) == MaxImportDescriptors {
			return nil, ErrImportScanLimit
		}
		descriptors = append(descriptors, *descriptor)
	}

	is64 := f.Is64Bit()

	for _, descriptor := range descriptors {
		dll := ImportedDLL{Descriptor: descriptor}

		nameOffset, ok := f.RVAToOffset(descriptor.NameRVA)
		if !ok {
			return nil, fmt.Errorf("%w: import descriptor name RVA 0x%x", ErrDanglingRVA, descriptor.NameRVA)
		}
		if err := r.SetOffset(int(nameOffset)); err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, parseErr("import name", int(nameOffset), "truncated DLL name", err)
		}
		dll.Name = name

		// Some linkers leave the lookup table RVA zero and keep the
		// unbound entries only in the import address table.
		lookupRVA := descriptor.ImportLookupTableRVA
		if lookupRVA == 0 {
			lookupRVA = descriptor.ImportAddressTableRVA
		}
		if lookupRVA != 0 {
			functions, err := f.walkLookupTable(r, lookupRVA, is64)
			if err != nil {
				return nil, err
			}
			dll.Functions = functions
		}

		table.DLLs = append(table.DLLs, dll)
	}

	return table, nil
}

func (f *File) walkLookupTable(r *stream.Reader, rva uint32, is64 bool) ([]ImportedFunction, error) {
	offset, ok := f.RVAToOffset(rva)
	if !ok {
		return nil, fmt.Errorf("%w: import lookup table RVA 0x%x", ErrDanglingRVA, rva)
	}
	if err := r.SetOffset(int(offset)); err != nil {
		return nil, err
	}

	var rawEntries []uint64
	for {
		start := r.Offset()
		raw, err := decodeLookupEntry(r, is64)
		if err != nil {
			return nil, parseErr("import lookup table", start, "truncated entry", err)
		}
		if raw == 0 {
			break
		}
		rawEntries = append(rawEntries, raw)
	}

	// Hint/Name records are decoded after the full lookup table so the
	// cursor moves strictly forward within each table.
	var functions []ImportedFunction
	for _, raw := range rawEntries {
		if lookupByOrdinal(raw, is64) {
			functions = append(functions, ImportedFunction{
				ByOrdinal: true,
				Ordinal:   uint16(raw & 0xffff),
			})
			continue
		}

		hintNameRVA := uint32(raw & 0x7fffffff)
		hintNameOffset, ok := f.RVAToOffset(hintNameRVA)
		if !ok {
			return nil, fmt.Errorf("%w: hint/name RVA 0x%x", ErrDanglingRVA, hintNameRVA)
		}
		if err := r.SetOffset(int(hintNameOffset)); err != nil {
			return nil, err
		}

		hint, name, padded, err := decodeHintName(r)
		if err != nil {
			return nil, parseErr("hint/name table", int(hintNameOffset), "truncated entry", err)
		}

		functions = append(functions, ImportedFunction{
			Hint:   hint,
			Name:   name,
			Padded: padded,
		})
	}

	return functions, nil
}
