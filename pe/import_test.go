package pe

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/romainaugier/execdump/internal/stream"
)

// importFixture builds a PE32 image with one .text section at RVA
// 0x1000 (file offset 0x400) hosting an import table:
//
//	0x400  descriptor for KERNEL32.dll + terminator
//	0x500  import lookup table
//	0x600  DLL name
//	0x610  hint/name records
func importFixture(t *testing.T, lookups []uint32, hintNames []blob) []byte {
	t.Helper()

	le := binary.LittleEndian

	descriptors := make([]byte, 40)
	le.PutUint32(descriptors[0:], 0x1100)  // ImportLookupTableRVA
	le.PutUint32(descriptors[12:], 0x1200) // NameRVA
	le.PutUint32(descriptors[16:], 0x1300) // ImportAddressTableRVA

	lookupTable := make([]byte, (len(lookups)+1)*4)
	for i, v := range lookups {
		le.PutUint32(lookupTable[i*4:], v)
	}

	blobs := []blob{
		{offset: 0x400, data: descriptors},
		{offset: 0x500, data: lookupTable},
		{offset: 0x600, data: append([]byte("KERNEL32.dll"), 0)},
	}
	blobs = append(blobs, hintNames...)

	return buildImage(t, imageConfig{
		sections: []sectionCfg{
			{name: ".text", vsize: 0x1000, vaddr: 0x1000, rawSize: 0x400, rawPtr: 0x400},
		},
		importVA:   0x1000,
		importSize: 40,
		fileSize:   0x800,
		blobs:      blobs,
	})
}

func hintNameBlob(offset int, hint uint16, name string) blob {
	data := make([]byte, 2, 2+len(name)+1)
	binary.LittleEndian.PutUint16(data, hint)
	data = append(data, name...)
	data = append(data, 0)
	return blob{offset: offset, data: data}
}

func TestImportWalk(t *testing.T) {
	img := importFixture(t,
		[]uint32{
			0x1210,     // by name: ExitProcess
			0x1230,     // by name: Beep
			0x80000007, // by ordinal: 7
		},
		[]blob{
			hintNameBlob(0x610, 0x12, "ExitProcess"),
			hintNameBlob(0x630, 0x34, "Beep"),
		},
	)

	f, err := NewFile(img)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	imports := f.Imports()
	if len(imports.DLLs) != 1 {
		t.Fatalf("DLLs = %d, want 1", len(imports.DLLs))
	}

	dll := imports.DLLs[0]
	if dll.Name != "KERNEL32.dll" {
		t.Errorf("DLL name = %q", dll.Name)
	}
	if got := f.DLLNames(); len(got) != 1 || got[0] != "KERNEL32.dll" {
		t.Errorf("DLLNames = %v", got)
	}

	if len(dll.Functions) != 3 {
		t.Fatalf("functions = %d, want 3", len(dll.Functions))
	}

	if fn := dll.Functions[0]; fn.ByOrdinal || fn.Name != "ExitProcess" || fn.Hint != 0x12 {
		t.Errorf("function 0 = %+v", fn)
	}
	// "ExitProcess" is 11 bytes, 12 with the terminator: no padding.
	if dll.Functions[0].Padded {
		t.Error("even-length hint/name entry should not be padded")
	}

	if fn := dll.Functions[1]; fn.Name != "Beep" || !fn.Padded {
		t.Errorf("function 1 = %+v; odd-length entry should be padded", fn)
	}

	if fn := dll.Functions[2]; !fn.ByOrdinal || fn.Ordinal != 7 {
		t.Errorf("function 2 = %+v", fn)
	}
}

func TestAbsentImportDirectory(t *testing.T) {
	f, err := NewFile(minimalPE32(t))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	imports := f.Imports()
	if imports == nil {
		t.Fatal("import table should be empty, not nil")
	}
	if len(imports.DLLs) != 0 {
		t.Errorf("DLLs = %d, want 0", len(imports.DLLs))
	}
}

func TestUntranslatableImportDirectory(t *testing.T) {
	// Directory VA points outside every section: clean empty table.
	img := buildImage(t, imageConfig{
		sections: []sectionCfg{
			{name: ".text", vsize: 0x1000, vaddr: 0x1000, rawSize: 0x200, rawPtr: 0x400},
		},
		importVA:   0x9000,
		importSize: 40,
		fileSize:   0x600,
	})

	f, err := NewFile(img)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if len(f.Imports().DLLs) != 0 {
		t.Error("untranslatable import directory should yield an empty table")
	}
}

func TestImportLookupTableInIATOnly(t *testing.T) {
	// Some linkers emit descriptors with a zero lookup table RVA and
	// keep the unbound entries only in the import address table.
	le := binary.LittleEndian

	descriptors := make([]byte, 40)
	le.PutUint32(descriptors[12:], 0x1200) // NameRVA
	le.PutUint32(descriptors[16:], 0x1100) // ImportAddressTableRVA

	lookupTable := make([]byte, 8)
	le.PutUint32(lookupTable[0:], 0x1210)

	img := buildImage(t, imageConfig{
		sections: []sectionCfg{
			{name: ".text", vsize: 0x1000, vaddr: 0x1000, rawSize: 0x400, rawPtr: 0x400},
		},
		importVA:   0x1000,
		importSize: 40,
		fileSize:   0x800,
		blobs: []blob{
			{offset: 0x400, data: descriptors},
			{offset: 0x500, data: lookupTable},
			{offset: 0x600, data: append([]byte("KERNEL32.dll"), 0)},
			hintNameBlob(0x610, 0x12, "ExitProcess"),
		},
	})

	f, err := NewFile(img)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	dll := f.Imports().DLLs[0]
	if dll.Name != "KERNEL32.dll" {
		t.Errorf("DLL name = %q", dll.Name)
	}
	if len(dll.Functions) != 1 {
		t.Fatalf("functions = %d, want 1", len(dll.Functions))
	}
	if fn := dll.Functions[0]; fn.Name != "ExitProcess" || fn.Hint != 0x12 {
		t.Errorf("function 0 = %+v", fn)
	}
}

func TestImportDescriptorScanAtCap(t *testing.T) {
	// Exactly MaxImportDescriptors records followed by a clean
	// terminator is legal, not cap-exceeded.
	descriptors := make([]byte, (MaxImportDescriptors+1)*importDescriptorSize)
	for i := 0; i < MaxImportDescriptors; i++ {
		binary.LittleEndian.PutUint32(descriptors[i*importDescriptorSize+12:], 0x2800)
	}

	img := buildImage(t, imageConfig{
		sections: []sectionCfg{
			{name: ".text", vsize: 0x2000, vaddr: 0x1000, rawSize: 0x2000, rawPtr: 0x400},
		},
		importVA:   0x1000,
		importSize: uint32(len(descriptors)),
		fileSize:   0x2400,
		blobs: []blob{
			{offset: 0x400, data: descriptors},
			{offset: 0x1c00, data: append([]byte("KERNEL32.dll"), 0)},
		},
	})

	f, err := NewFile(img)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if got := len(f.Imports().DLLs); got != MaxImportDescriptors {
		t.Errorf("DLLs = %d, want %d", got, MaxImportDescriptors)
	}
}

func TestImportDescriptorScanLimit(t *testing.T) {
	// More than MaxImportDescriptors non-zero records, no terminator.
	descriptors := make([]byte, (MaxImportDescriptors+8)*importDescriptorSize)
	for i := 0; i < MaxImportDescriptors+8; i++ {
		binary.LittleEndian.PutUint32(descriptors[i*importDescriptorSize+12:], 0x1200)
	}

	img := buildImage(t, imageConfig{
		sections: []sectionCfg{
			{name: ".text", vsize: 0x2000, vaddr: 0x1000, rawSize: 0x2000, rawPtr: 0x400},
		},
		importVA:   0x1000,
		importSize: uint32(len(descriptors)),
		fileSize:   0x400 + len(descriptors) + 0x100,
		blobs:      []blob{{offset: 0x400, data: descriptors}},
	})

	_, err := NewFile(img)
	if !errors.Is(err, ErrImportScanLimit) {
		t.Fatalf("err = %v, want ErrImportScanLimit", err)
	}
}

func TestDanglingNameRVA(t *testing.T) {
	le := binary.LittleEndian

	descriptors := make([]byte, 40)
	le.PutUint32(descriptors[0:], 0x1100)
	le.PutUint32(descriptors[12:], 0x8000) // outside every section

	img := buildImage(t, imageConfig{
		sections: []sectionCfg{
			{name: ".text", vsize: 0x1000, vaddr: 0x1000, rawSize: 0x400, rawPtr: 0x400},
		},
		importVA:   0x1000,
		importSize: 40,
		fileSize:   0x800,
		blobs:      []blob{{offset: 0x400, data: descriptors}},
	})

	_, err := NewFile(img)
	if !errors.Is(err, ErrDanglingRVA) {
		t.Fatalf("err = %v, want ErrDanglingRVA", err)
	}
}

func TestDecodeHintNameCursor(t *testing.T) {
	tests := []struct {
		name    string
		padded  bool
		advance int
	}{
		// "Beep" + NUL is 5 bytes: hint(2) + 5 + 1 pad = 8.
		{"Beep", true, 8},
		// "Sleep" + NUL is 6 bytes: hint(2) + 6 = 8, no pad.
		{"Sleep", false, 8},
		// "A" + NUL is 2 bytes: hint(2) + 2 = 4, no pad.
		{"A", false, 4},
	}

	for _, tt := range tests {
		data := make([]byte, 2, 16)
		binary.LittleEndian.PutUint16(data, 0x99)
		data = append(data, tt.name...)
		data = append(data, 0)
		if tt.padded {
			data = append(data, 0)
		}
		// Trailing bytes to prove the cursor stops exactly after the entry.
		data = append(data, 0xee, 0xee)

		r := stream.NewReader(data)
		hint, name, padded, err := decodeHintName(r)
		if err != nil {
			t.Fatalf("%q: decodeHintName: %v", tt.name, err)
		}
		if hint != 0x99 || name != tt.name {
			t.Errorf("%q: got hint=%#x name=%q", tt.name, hint, name)
		}
		if padded != tt.padded {
			t.Errorf("%q: padded = %v, want %v", tt.name, padded, tt.padded)
		}
		if r.Offset() != tt.advance {
			t.Errorf("%q: cursor advanced %d bytes, want %d", tt.name, r.Offset(), tt.advance)
		}
	}
}

func TestImportWalk64BitLookups(t *testing.T) {
	le := binary.LittleEndian

	descriptors := make([]byte, 40)
	le.PutUint32(descriptors[0:], 0x1100)
	le.PutUint32(descriptors[12:], 0x1200)

	lookupTable := make([]byte, 24)
	le.PutUint64(lookupTable[0:], 0x8000000000000003) // ordinal 3
	le.PutUint64(lookupTable[8:], 0x1210)             // by name

	img := buildImage(t, imageConfig{
		is64: true,
		sections: []sectionCfg{
			{name: ".text", vsize: 0x1000, vaddr: 0x1000, rawSize: 0x400, rawPtr: 0x400},
		},
		importVA:   0x1000,
		importSize: 40,
		fileSize:   0x800,
		blobs: []blob{
			{offset: 0x400, data: descriptors},
			{offset: 0x500, data: lookupTable},
			{offset: 0x600, data: append([]byte("ntdll.dll"), 0)},
			hintNameBlob(0x610, 1, "NtClose"),
		},
	})

	f, err := NewFile(img)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	dll := f.Imports().DLLs[0]
	if dll.Name != "ntdll.dll" {
		t.Errorf("DLL name = %q", dll.Name)
	}
	if len(dll.Functions) != 2 {
		t.Fatalf("functions = %d, want 2", len(dll.Functions))
	}
	if fn := dll.Functions[0]; !fn.ByOrdinal || fn.Ordinal != 3 {
		t.Errorf("function 0 = %+v", fn)
	}
	if fn := dll.Functions[1]; fn.ByOrdinal || fn.Name != "NtClose" {
		t.Errorf("function 1 = %+v", fn)
	}
}
