package stream

import (
	"errors"
	"testing"
)

func TestReaderSequentialReads(t *testing.T) {
	data := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}
	r := NewReader(data)

	if v, err := r.ReadU8(); err != nil || v != 0x01 {
		t.Fatalf("ReadU8 = %#x, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != 0x0302 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
	if v, err := r.ReadU32(); err != nil || v != 0x07060504 {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}
	if v, err := r.ReadU64(); err != nil || v != 0x0f0e0d0c0b0a0908 {
		t.Fatalf("ReadU64 = %#x, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", r.Remaining())
	}
	if _, err := r.ReadU8(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("ReadU8 past end = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReaderBigEndian(t *testing.T) {
	r := NewBigEndianReader([]byte{0x01, 0x02, 0x03, 0x04})

	if v, err := r.ReadU16(); err != nil || v != 0x0102 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != 0x0304 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
}

func TestReaderSeekAndPeek(t *testing.T) {
	r := NewReader([]byte{0xaa, 0xbb, 0xcc, 0xdd})

	if err := r.SetOffset(2); err != nil {
		t.Fatalf("SetOffset: %v", err)
	}
	if v, err := r.PeekU16(); err != nil || v != 0xddcc {
		t.Fatalf("PeekU16 = %#x, %v", v, err)
	}
	if r.Offset() != 2 {
		t.Fatalf("Offset after peek = %d, want 2", r.Offset())
	}
	if err := r.SetOffset(-1); !errors.Is(err, ErrNegativeOffset) {
		t.Fatalf("SetOffset(-1) = %v, want ErrNegativeOffset", err)
	}
}

func TestReaderSkip(t *testing.T) {
	r := NewReader(make([]byte, 8))

	if err := r.Skip(8); err != nil {
		t.Fatalf("Skip(8): %v", err)
	}
	if err := r.Skip(1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("Skip past end = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadCString(t *testing.T) {
	r := NewReader([]byte{'a', 'b', 'c', 0, 'd'})

	s, err := r.ReadCString()
	if err != nil || s != "abc" {
		t.Fatalf("ReadCString = %q, %v", s, err)
	}
	if r.Offset() != 4 {
		t.Fatalf("Offset after ReadCString = %d, want 4", r.Offset())
	}

	// No terminator before end of data
	if _, err := r.ReadCString(); err == nil {
		t.Fatal("ReadCString without terminator should fail")
	}
}

func TestReadFixedString(t *testing.T) {
	r := NewReader([]byte{'.', 't', 'e', 'x', 't', 0, 0, 0})

	s, err := r.ReadFixedString(8)
	if err != nil || s != ".text" {
		t.Fatalf("ReadFixedString = %q, %v", s, err)
	}
	if r.Offset() != 8 {
		t.Fatalf("Offset = %d, want 8", r.Offset())
	}
}

func TestReadBytesRefAliases(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	r := NewReader(data)

	ref, err := r.ReadBytesRef(2)
	if err != nil {
		t.Fatalf("ReadBytesRef: %v", err)
	}
	if &ref[0] != &data[0] {
		t.Fatal("ReadBytesRef should alias the underlying buffer")
	}

	cp, err := r.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if &cp[0] == &data[2] {
		t.Fatal("ReadBytes should copy")
	}
}

func TestSlice(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})

	sub, err := r.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if v, _ := sub.ReadU8(); v != 2 {
		t.Fatalf("sub ReadU8 = %d, want 2", v)
	}
	if sub.Remaining() != 2 {
		t.Fatalf("sub Remaining = %d, want 2", sub.Remaining())
	}

	if _, err := r.Slice(3, 10); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("out-of-range Slice = %v, want ErrUnexpectedEOF", err)
	}
}
