package disasm

// paddingOps lists (mnemonic, operand-text) pairs emitted by compilers
// and linkers as inter-function filler. An empty operand text matches
// any operands.
var paddingOps = map[string]string{
	"nop":  "",
	"int3": "",
	"ud2":  "",
	"hlt":  "",
	"mov":  "eax, eax",
	"sub":  "rsp, 0",
	"add":  "byte ptr [rax], al",
}

// IsPadding reports whether the instruction is alignment or
// inter-function padding rather than reachable code.
func IsPadding(i Instruction) bool {
	want, ok := paddingOps[i.Mnemonic]
	if !ok {
		return false
	}
	return want == "" || want == i.OpText
}
