package dump

import (
	"strings"
	"testing"
)

func TestPrintAlignsFields(t *testing.T) {
	n := New("Header")
	n.AddField("Magic", "0x5A4D")
	n.AddField("NumberOfSections", "3")

	var b strings.Builder
	n.Print(&b, 2)

	want := "Header\n" +
		"  Magic            : 0x5A4D\n" +
		"  NumberOfSections : 3\n"
	if b.String() != want {
		t.Errorf("output:\n%q\nwant:\n%q", b.String(), want)
	}
}

func TestPrintChildrenIndent(t *testing.T) {
	n := New("Root")
	child := n.AddChild("Child")
	child.AddField("Key", "value")

	var b strings.Builder
	n.Print(&b, 4)

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != "Root" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    Child") {
		t.Errorf("child label should be indented one level: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "        Key") {
		t.Errorf("child field should be indented two levels: %q", lines[2])
	}
}

func TestPrintComment(t *testing.T) {
	n := New("COFF")
	n.AddComment("Machine", "0x8664", "x64")

	var b strings.Builder
	n.Print(&b, 2)

	if !strings.Contains(b.String(), "0x8664  ; x64") {
		t.Errorf("comment missing: %q", b.String())
	}
}

func TestPrintBareValueAndCode(t *testing.T) {
	n := New("Section .text")
	n.Fields = append(n.Fields, Field{Value: "(none)"})
	n.Code = []string{"00000000  90 c3"}

	var b strings.Builder
	n.Print(&b, 2)

	out := b.String()
	if !strings.Contains(out, "  (none)\n") {
		t.Errorf("bare value missing: %q", out)
	}
	if !strings.Contains(out, "  00000000  90 c3\n") {
		t.Errorf("code line missing: %q", out)
	}
}
