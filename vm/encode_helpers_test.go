package vm

// Test-only instruction encoders, composing the same bit layouts Decode
// parses, so tests can build instruction words without depending on an
// assembler.

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	immHi := (u >> 5) & 0x7F
	immLo := u & 0x1F
	return immHi<<25 | rs2<<20 | rs1<<15 | funct3<<12 | immLo<<7 | opcode
}

func encodeB(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	b12 := (u >> 12) & 0x1
	b10_5 := (u >> 5) & 0x3F
	b4_1 := (u >> 1) & 0xF
	b11 := (u >> 11) & 0x1
	return b12<<31 | b10_5<<25 | rs2<<20 | rs1<<15 | funct3<<12 | b4_1<<8 | b11<<7 | opcode
}

func encodeU(opcode, rd uint32, imm uint32) uint32 {
	return (imm & 0xFFFFF000) | rd<<7 | opcode
}

func encodeJ(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	b20 := (u >> 20) & 0x1
	b10_1 := (u >> 1) & 0x3FF
	b11 := (u >> 11) & 0x1
	b19_12 := (u >> 12) & 0xFF
	return b20<<31 | b10_1<<21 | b11<<20 | b19_12<<12 | rd<<7 | opcode
}

func encodeCSR(opcode, rd, funct3, rs1, csr uint32) uint32 {
	return csr<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// encodeVMem composes a vector load/store word: nf/mew/mop/vm/lumop/rs1/width/vd.
func encodeVMem(opcode, nf uint32, mew bool, mop uint32, vm bool, lumop, rs1, width, vd uint32) uint32 {
	var mewBit, vmBit uint32
	if mew {
		mewBit = 1
	}
	if vm {
		vmBit = 1
	}
	return (nf-1)<<29 | mewBit<<28 | mop<<26 | vmBit<<25 | lumop<<20 | rs1<<15 | width<<12 | vd<<7 | opcode
}

// encodeVArith composes a vector arithmetic word: funct6/vm/vs2/rs1_or_imm/funct3/vd.
func encodeVArith(funct6 uint32, vm bool, vs2, rs1 uint32, funct3, vd uint32) uint32 {
	var vmBit uint32
	if vm {
		vmBit = 1
	}
	return funct6<<26 | vmBit<<25 | vs2<<20 | rs1<<15 | funct3<<12 | vd<<7 | opVectorOp
}
