package vm

// Decoded is the result of decoding a 32-bit instruction word: the fields
// every RV32I/M/V executor needs, extracted once instead of re-extracted
// by each instruction family (the base ISA's register fields sit in the
// same bit positions across every encoding, vector instructions included,
// so one decode serves all of them).
type Decoded struct {
	Word uint32

	Opcode uint32
	Rd     uint32
	Funct3 uint32
	Rs1    uint32
	Rs2    uint32
	Funct7 uint32

	ImmI int32
	ImmS int32
	ImmB int32
	ImmU uint32
	ImmJ int32

	// CSRAddr is bits [31:20] read unsigned, the CSR address field used
	// by the Zicsr instructions (ImmI carries the same bits sign-extended,
	// which is the wrong interpretation for an address).
	CSRAddr uint32
}

// bits extracts the inclusive bit range [lo, hi] of word, right-justified.
func bits(word uint32, hi, lo uint) uint32 {
	width := hi - lo + 1
	mask := uint32(1)<<width - 1
	return (word >> lo) & mask
}

// signExtend sign-extends the low `width` bits of value to a full int32.
func signExtend(value uint32, width uint) int32 {
	shift := 32 - width
	return int32(value<<shift) >> shift
}

// Decode extracts the opcode, register fields, and the five RISC-V
// immediate encodings from a raw instruction word. It never mutates
// machine state and never fails: every 32-bit word decodes to some
// Decoded value, even if no executor recognizes its opcode.
func Decode(word uint32) Decoded {
	d := Decoded{
		Word:   word,
		Opcode: bits(word, 6, 0),
		Rd:     bits(word, 11, 7),
		Funct3: bits(word, 14, 12),
		Rs1:    bits(word, 19, 15),
		Rs2:    bits(word, 24, 20),
		Funct7: bits(word, 31, 25),
	}

	d.ImmI = signExtend(bits(word, 31, 20), 12)
	d.CSRAddr = bits(word, 31, 20)

	immS := bits(word, 31, 25)<<5 | bits(word, 11, 7)
	d.ImmS = signExtend(immS, 12)

	immB := bits(word, 31, 31)<<12 | bits(word, 7, 7)<<11 |
		bits(word, 30, 25)<<5 | bits(word, 11, 8)<<1
	d.ImmB = signExtend(immB, 13)

	d.ImmU = bits(word, 31, 12) << 12

	immJ := bits(word, 31, 31)<<20 | bits(word, 19, 12)<<12 |
		bits(word, 20, 20)<<11 | bits(word, 30, 21)<<1
	d.ImmJ = signExtend(immJ, 21)

	return d
}
