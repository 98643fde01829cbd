package vm

// Architectural constants for the RV32I/M/V simulator.

const (
	// NumRegisters is the size of the scalar register file, x0-x31.
	NumRegisters = 32

	// NumVectorRegisters is the size of the vector register file, v0-v31.
	NumVectorRegisters = 32

	// VLEN is the number of bits per vector register.
	VLEN = 128

	// VLENBytes is VLEN expressed in bytes.
	VLENBytes = VLEN / 8

	// NumCSRs is the size of the CSR bank (12-bit CSR address space).
	NumCSRs = 4096

	// DefaultMemorySize is the default flat memory size: 16 MiB, matching
	// the reference implementation's uint8_t mem[1 << 24].
	DefaultMemorySize = 1 << 24

	// DefaultMaxCycles is the default cycle ceiling the driver enforces.
	DefaultMaxCycles = 10_000_000
)

// Bit-field helpers shared by the decoder and the executors.
const (
	SignBitPos  = 31
	SignBit32   = 1 << SignBitPos
	Mask5Bit    = 0x1F // shift-amount / 5-bit immediate mask
	Mask12Bit   = 0xFFF
	WordMask0xF = 0xF
)
