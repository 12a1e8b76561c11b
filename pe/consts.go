package pe

// Magic values at the three format checkpoints.
const (
	// DOSMagic is the "MZ" signature at file offset 0.
	DOSMagic uint16 = 0x5a4d

	// NTSignature is the "PE\0\0" signature located at e_lfanew.
	NTSignature uint32 = 0x4550

	// OptionalMagic32 selects the PE32 optional header variant.
	OptionalMagic32 uint16 = 0x10b

	// OptionalMagic64 selects the PE32+ optional header variant.
	OptionalMagic64 uint16 = 0x20b
)

// Fixed structure sizes defined by the PE/COFF layout.
const (
	coffHeaderSize       = 20
	dataDirectoryCount   = 16
	sectionHeaderSize    = 40
	importDescriptorSize = 20
	lfanewOffset         = 0x3c
)

// Data directory indices in the optional header.
const (
	DirectoryExport = iota
	DirectoryImport
	DirectoryResource
	DirectoryException
	DirectoryCertificate
	DirectoryBaseRelocation
	DirectoryDebug
	DirectoryArchitecture // reserved
	DirectoryGlobalPtr
	DirectoryTLS
	DirectoryLoadConfig
	DirectoryBoundImport
	DirectoryIAT
	DirectoryDelayImport
	DirectoryCLRRuntime
	DirectoryReserved
)

// DirectoryNames maps data directory indices to display names.
var DirectoryNames = [dataDirectoryCount]string{
	"Export Table",
	"Import Table",
	"Resource Table",
	"Exception Table",
	"Certificate Table",
	"Base Relocation Table",
	"Debug",
	"Architecture",
	"Global Ptr",
	"TLS Table",
	"Load Config Table",
	"Bound Import",
	"Import Address Table",
	"Delay Import Descriptor",
	"CLR Runtime Header",
	"Reserved",
}

// Machine types (Machine field in the COFF header).
const (
	MachineUnknown     uint16 = 0x0
	MachineAlpha       uint16 = 0x184
	MachineAlpha64     uint16 = 0x284
	MachineAM33        uint16 = 0x1d3
	MachineAMD64       uint16 = 0x8664
	MachineARM         uint16 = 0x1c0
	MachineARM64       uint16 = 0xaa64
	MachineARM64EC     uint16 = 0xa641
	MachineARM64X      uint16 = 0xa64e
	MachineARMNT       uint16 = 0x1c4
	MachineEBC         uint16 = 0xebc
	MachineI386        uint16 = 0x14c
	MachineIA64        uint16 = 0x200
	MachineLoongArch32 uint16 = 0x6232
	MachineLoongArch64 uint16 = 0x6264
	MachineM32R        uint16 = 0x9041
	MachineMIPS16      uint16 = 0x266
	MachineMIPSFPU     uint16 = 0x366
	MachineMIPSFPU16   uint16 = 0x466
	MachinePowerPC     uint16 = 0x1f0
	MachinePowerPCFP   uint16 = 0x1f1
	MachineR3000BE     uint16 = 0x160
	MachineR3000       uint16 = 0x162
	MachineR4000       uint16 = 0x166
	MachineR10000      uint16 = 0x168
	MachineRISCV32     uint16 = 0x5032
	MachineRISCV64     uint16 = 0x5064
	MachineRISCV128    uint16 = 0x5128
	MachineSH3         uint16 = 0x1a2
	MachineSH3DSP      uint16 = 0x1a3
	MachineSH4         uint16 = 0x1a6
	MachineSH5         uint16 = 0x1a8
	MachineThumb       uint16 = 0x1c2
	MachineWCEMIPSV2   uint16 = 0x169
)

var machineNames = map[uint16]string{
	MachineUnknown:     "Unknown",
	MachineAlpha:       "Alpha AXP",
	MachineAlpha64:     "Alpha 64",
	MachineAM33:        "Matsushita AM33",
	MachineAMD64:       "x64",
	MachineARM:         "ARM",
	MachineARM64:       "ARM64",
	MachineARM64EC:     "ARM64EC",
	MachineARM64X:      "ARM64X",
	MachineARMNT:       "ARM Thumb-2",
	MachineEBC:         "EFI byte code",
	MachineI386:        "Intel 386",
	MachineIA64:        "Intel Itanium",
	MachineLoongArch32: "LoongArch 32-bit",
	MachineLoongArch64: "LoongArch 64-bit",
	MachineM32R:        "Mitsubishi M32R",
	MachineMIPS16:      "MIPS16",
	MachineMIPSFPU:     "MIPS with FPU",
	MachineMIPSFPU16:   "MIPS16 with FPU",
	MachinePowerPC:     "Power PC",
	MachinePowerPCFP:   "Power PC with FP",
	MachineR3000BE:     "MIPS I 32-bit BE",
	MachineR3000:       "MIPS I 32-bit",
	MachineR4000:       "MIPS III 64-bit",
	MachineR10000:      "MIPS IV 64-bit",
	MachineRISCV32:     "RISC-V 32-bit",
	MachineRISCV64:     "RISC-V 64-bit",
	MachineRISCV128:    "RISC-V 128-bit",
	MachineSH3:         "Hitachi SH3",
	MachineSH3DSP:      "Hitachi SH3 DSP",
	MachineSH4:         "Hitachi SH4",
	MachineSH5:         "Hitachi SH5",
	MachineThumb:       "Thumb",
	MachineWCEMIPSV2:   "MIPS WCE v2",
}

// MachineName returns a display name for a COFF machine type code.
func MachineName(machine uint16) string {
	if name, ok := machineNames[machine]; ok {
		return name
	}
	return "Unknown"
}

// COFF characteristics flags (Characteristics field in the COFF header).
const (
	FileRelocsStripped       uint16 = 0x0001
	FileExecutableImage      uint16 = 0x0002
	FileLineNumsStripped     uint16 = 0x0004
	FileLocalSymsStripped    uint16 = 0x0008
	FileAggressiveWSTrim     uint16 = 0x0010
	FileLargeAddressAware    uint16 = 0x0020
	FileBytesReversedLo      uint16 = 0x0080
	File32BitMachine         uint16 = 0x0100
	FileDebugStripped        uint16 = 0x0200
	FileRemovableRunFromSwap uint16 = 0x0400
	FileNetRunFromSwap       uint16 = 0x0800
	FileSystem               uint16 = 0x1000
	FileDLL                  uint16 = 0x2000
	FileUPSystemOnly         uint16 = 0x4000
	FileBytesReversedHi      uint16 = 0x8000
)

var characteristicsNames = []struct {
	flag uint16
	name string
}{
	{FileRelocsStripped, "RELOCS_STRIPPED"},
	{FileExecutableImage, "EXECUTABLE_IMAGE"},
	{FileLineNumsStripped, "LINE_NUMS_STRIPPED"},
	{FileLocalSymsStripped, "LOCAL_SYMS_STRIPPED"},
	{FileAggressiveWSTrim, "AGGRESSIVE_WS_TRIM"},
	{FileLargeAddressAware, "LARGE_ADDRESS_AWARE"},
	{FileBytesReversedLo, "BYTES_REVERSED_LO"},
	{File32BitMachine, "32BIT_MACHINE"},
	{FileDebugStripped, "DEBUG_STRIPPED"},
	{FileRemovableRunFromSwap, "REMOVABLE_RUN_FROM_SWAP"},
	{FileNetRunFromSwap, "NET_RUN_FROM_SWAP"},
	{FileSystem, "SYSTEM"},
	{FileDLL, "DLL"},
	{FileUPSystemOnly, "UP_SYSTEM_ONLY"},
	{FileBytesReversedHi, "BYTES_REVERSED_HI"},
}

// CharacteristicsNames returns the names of the set COFF characteristics flags.
func CharacteristicsNames(flags uint16) []string {
	var names []string
	for _, c := range characteristicsNames {
		if flags&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	return names
}

// Section characteristics flags (Characteristics field in section headers).
const (
	SectionCntCode            uint32 = 0x00000020
	SectionCntInitializedData uint32 = 0x00000040
	SectionCntUninitData      uint32 = 0x00000080
	SectionMemDiscardable     uint32 = 0x02000000
	SectionMemNotCached       uint32 = 0x04000000
	SectionMemNotPaged        uint32 = 0x08000000
	SectionMemShared          uint32 = 0x10000000
	SectionMemExecute         uint32 = 0x20000000
	SectionMemRead            uint32 = 0x40000000
	SectionMemWrite           uint32 = 0x80000000
)

var sectionFlagNames = []struct {
	flag uint32
	name string
}{
	{SectionCntCode, "CODE"},
	{SectionCntInitializedData, "INITIALIZED_DATA"},
	{SectionCntUninitData, "UNINITIALIZED_DATA"},
	{SectionMemDiscardable, "DISCARDABLE"},
	{SectionMemNotCached, "NOT_CACHED"},
	{SectionMemNotPaged, "NOT_PAGED"},
	{SectionMemShared, "SHARED"},
	{SectionMemExecute, "EXECUTE"},
	{SectionMemRead, "READ"},
	{SectionMemWrite, "WRITE"},
}

// SectionFlagNames returns the names of the set section characteristics flags.
func SectionFlagNames(flags uint32) []string {
	var names []string
	for _, c := range sectionFlagNames {
		if flags&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	return names
}

// Subsystem values in the optional header.
const (
	SubsystemUnknown                uint16 = 0
	SubsystemNative                 uint16 = 1
	SubsystemWindowsGUI             uint16 = 2
	SubsystemWindowsCUI             uint16 = 3
	SubsystemOS2CUI                 uint16 = 5
	SubsystemPosixCUI               uint16 = 7
	SubsystemNativeWindows          uint16 = 8
	SubsystemWindowsCEGUI           uint16 = 9
	SubsystemEFIApplication         uint16 = 10
	SubsystemEFIBootServiceDriver   uint16 = 11
	SubsystemEFIRuntimeDriver       uint16 = 12
	SubsystemEFIROM                 uint16 = 13
	SubsystemXbox                   uint16 = 14
	SubsystemWindowsBootApplication uint16 = 16
)

var subsystemNames = map[uint16]string{
	SubsystemUnknown:                "Unknown",
	SubsystemNative:                 "Native",
	SubsystemWindowsGUI:             "Windows GUI",
	SubsystemWindowsCUI:             "Windows CUI",
	SubsystemOS2CUI:                 "OS/2 CUI",
	SubsystemPosixCUI:               "POSIX CUI",
	SubsystemNativeWindows:          "Native Win9x",
	SubsystemWindowsCEGUI:           "Windows CE GUI",
	SubsystemEFIApplication:         "EFI Application",
	SubsystemEFIBootServiceDriver:   "EFI Boot Service Driver",
	SubsystemEFIRuntimeDriver:       "EFI Runtime Driver",
	SubsystemEFIROM:                 "EFI ROM",
	SubsystemXbox:                   "Xbox",
	SubsystemWindowsBootApplication: "Windows Boot Application",
}

// SubsystemName returns a display name for an optional header subsystem value.
func SubsystemName(subsystem uint16) string {
	if name, ok := subsystemNames[subsystem]; ok {
		return name
	}
	return "Unknown"
}
