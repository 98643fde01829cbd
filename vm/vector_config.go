package vm

// executeVectorOp handles the opVectorOp major opcode (0x57): the three
// vector-configuration instructions (vsetvli/vsetivli/vsetvl) when
// funct3==7, and the full vector arithmetic catalog otherwise. This
// function advances PC by 4 itself for every path, rather than leaving
// it to the executors it dispatches to.
func (m *Machine) executeVectorOp(d Decoded) error {
	if d.Funct3 == 0x7 {
		m.executeVectorConfig(d)
	} else {
		m.executeVectorArith(d)
	}
	m.PC += 4
	return nil
}

// executeVectorConfig dispatches among vsetvli, vsetivli, and vsetvl by
// the top bits of the instruction word, grounded on
// original_source/rvv_dev.c's decode_rvv_instr bit-pattern routing.
func (m *Machine) executeVectorConfig(d Decoded) {
	word := d.Word
	switch {
	case bits(word, 31, 30) == 0x3:
		// vsetivli: rd, uimm(avl), vtypei[9:0] at [29:20].
		avl := d.Rs1 // the 5-bit unsigned immediate sits in the rs1 field
		vtypei := bits(word, 29, 20)
		m.execVSetVL(d.Rd, avl, vtypei)

	case bits(word, 31, 25) == 0x40:
		// vsetvl: rd, rs1 (AVL source register), rs2 (VTYPE source register).
		avl := m.computeAVL(d.Rs1, d.Rd)
		vtypei := m.Regs.ReadX(d.Rs2)
		m.execVSetVL(d.Rd, avl, vtypei)

	default:
		// vsetvli: rd, rs1 (AVL source register), vtypei[10:0] at [30:20].
		avl := m.computeAVL(d.Rs1, d.Rd)
		vtypei := bits(word, 30, 20)
		m.execVSetVL(d.Rd, avl, vtypei)
	}
}

// computeAVL implements the AVL-selection rule shared by vsetvli and
// vsetvl: rs1!=x0 supplies the AVL from a register; rs1==x0 and rd!=x0
// requests VLMAX by passing the maximum possible AVL; rs1==x0 and
// rd==x0 means "keep the current vl" and is signaled by returning the
// machine's current vl unchanged.
func (m *Machine) computeAVL(rs1, rd uint32) uint32 {
	if rs1 != 0 {
		return m.Regs.ReadX(rs1)
	}
	if rd != 0 {
		return 0xFFFFFFFF // request VLMAX
	}
	return m.V.VL
}

// execVSetVL implements the common configuration logic behind all three
// entry points: validate vtypei, compute VLMAX, set vl = min(avl,
// VLMAX), and write the result back to rd (when rd is x0, as in the
// x0/x0 "keep current vl" case, WriteX discards the write).
func (m *Machine) execVSetVL(rd, avl, vtypei uint32) {
	// Reserved-bits check: everything above bit 7 must be zero. For the
	// immediate-encoded forms vtypei is already at most 11 bits wide, so
	// this reduces to checking bits [10:8]; for vsetvl, whose vtypei comes
	// from a full 32-bit register, it checks the whole upper range.
	if bits(vtypei, 31, 8) != 0 {
		m.V.Type = VType(villBit)
		m.V.VL = 0
		m.Regs.WriteX(rd, 0)
		return
	}

	vsew := bits(vtypei, 5, 3)
	vlmul := bits(vtypei, 2, 0)
	vta := bits(vtypei, 6, 6)
	vma := bits(vtypei, 7, 7)

	lmulNum, lmulDen, lmulOK := lmulNumDen(vlmul)
	if vsew > 3 || !lmulOK {
		m.V.Type = VType(villBit)
		m.V.VL = 0
		m.Regs.WriteX(rd, 0)
		return
	}

	sew := uint32(8) << vsew
	vlmax := (VLEN * lmulNum) / (sew * lmulDen)
	if vlmax == 0 {
		m.V.Type = VType(villBit)
		m.V.VL = 0
		m.Regs.WriteX(rd, 0)
		return
	}

	vl := avl
	if vl > vlmax {
		vl = vlmax
	}

	m.V.VL = vl
	m.V.Type = VType(vma<<7 | vta<<6 | vsew<<3 | vlmul)
	m.Regs.WriteX(rd, vl)
}
