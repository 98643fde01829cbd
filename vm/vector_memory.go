package vm

// Vector load/store field layout (opcode opVectorLoad / opVectorStore):
// word[31:29]=nf, word[28]=mew, word[27:26]=mop, word[25]=vm,
// word[24:20]=lumop/sumop (unit-stride) or stride register (strided) or
// index-register (indexed), word[19:15]=rs1 (base address),
// word[14:12]=width, word[11:7]=vd/vs3. Grounded bit-for-bit on
// original_source/rvv_dev.c's execute_vload/execute_vstore.
// vmopUnitStride's sub-op field (instr[24:20]) recognizes exactly three
// values: 0 (regular unit-stride), vlumopMaskLoad, and
// vlumopWholeRegister; spec.md is explicit that any other sub-op value
// is a no-op, so none of the other 29 encodings fall through to regular
// unit-stride handling.
const (
	vmopUnitStride = 0x0
	vmopIndexedU   = 0x1
	vmopStrided    = 0x2
	vmopIndexedO   = 0x3

	vlumopWholeRegister = 0x08
	vlumopMaskLoad      = 0x0B
)

type vectorMemFields struct {
	nf      uint32
	mew     bool
	mop     uint32
	vm      bool
	lumop   uint32 // lumop/sumop, or the stride register, or the index register
	rs1     uint32
	width   uint32
	eew     uint32
	eewOK   bool
	vd      uint32 // vd for loads, vs3 for stores
}

func decodeVectorMemFields(word uint32) vectorMemFields {
	width := bits(word, 14, 12)
	eew, ok := eewFromWidth(width)
	return vectorMemFields{
		nf:    bits(word, 31, 29) + 1,
		mew:   bits(word, 28, 28) != 0,
		mop:   bits(word, 27, 26),
		vm:    bits(word, 25, 25) != 0,
		lumop: bits(word, 24, 20),
		rs1:   bits(word, 19, 15),
		width: width,
		eew:   eew,
		eewOK: ok,
		vd:    bits(word, 11, 7),
	}
}

// eewFromWidth converts the 3-bit width encoding to an effective element
// width in bytes; 128-bit-and-wider loads/stores are not supported by
// this subset, matching the reference's width-encoding switch.
func eewFromWidth(width uint32) (eew uint32, ok bool) {
	switch width {
	case 0:
		return 1, true
	case 1:
		return 2, true
	case 2:
		return 4, true
	default:
		return 0, false
	}
}

// indexOffset reads the index value for an indexed load/store from
// register idxReg at element i, using the current vtype SEW to pick the
// element width, matching execute_vload/execute_vstore's sew_bits switch.
func (m *Machine) indexOffset(idxReg, i uint32) uint32 {
	switch m.V.Type.VSEW() {
	case 0:
		return uint32(m.V.Regs[idxReg][i])
	case 1:
		return uint32(m.V.ReadElement(idxReg, i, 2))
	default:
		return uint32(m.V.ReadElement(idxReg, i, 4))
	}
}

// executeVectorLoad implements unit-stride, strided, indexed, mask, and
// whole-register vector loads, segmented by nf fields, grounded on
// original_source/rvv_dev.c's execute_vload.
func (m *Machine) executeVectorLoad(d Decoded) {
	f := decodeVectorMemFields(d.Word)
	if f.mew || !f.eewOK || f.nf > 8 {
		return
	}
	base := m.Regs.ReadX(f.rs1)
	eew := f.eew

	if f.mop == vmopUnitStride && f.lumop == vlumopWholeRegister {
		evl := VLENBytes / eew
		for i := uint32(0); i < evl; i++ {
			for s := uint32(0); s < f.nf; s++ {
				addr := base + i*f.nf*eew + s*eew
				if f.vm || m.V.MaskBit(i) {
					for j := uint32(0); j < eew; j++ {
						m.V.Regs[f.vd+s][i*eew+j] = m.Mem.ReadByte(addr + j)
					}
				}
			}
		}
		return
	}

	switch f.mop {
	case vmopUnitStride, vmopStrided:
		stride := eew
		if f.mop == vmopUnitStride {
			switch f.lumop {
			case 0:
				// regular unit-stride: stride stays at eew.
			case vlumopMaskLoad:
				if f.width != 0 || f.nf != 1 {
					return
				}
				eew = 1
				stride = 1
			default:
				// Any other unit-stride sub-op is unrecognized: no-op,
				// per spec.md's "Any other value: no-op".
				return
			}
		} else {
			// Strided stride is a register value, x[instr[24:20]], not
			// the literal field itself.
			stride = m.Regs.ReadX(f.lumop)
		}

		for i := uint32(0); i < m.V.VL; i++ {
			for s := uint32(0); s < f.nf; s++ {
				addr := base + i*stride*f.nf + s*stride
				if f.vm || m.V.MaskBit(i) {
					for j := uint32(0); j < eew; j++ {
						m.V.Regs[f.vd+s][i*eew+j] = m.Mem.ReadByte(addr + j)
					}
				}
			}
		}

	case vmopIndexedU, vmopIndexedO:
		indexReg := f.lumop
		for i := uint32(0); i < m.V.VL; i++ {
			offset := m.indexOffset(indexReg, i)
			for s := uint32(0); s < f.nf; s++ {
				addr := base + offset + s*eew
				if f.vm || m.V.MaskBit(i) {
					for j := uint32(0); j < eew; j++ {
						m.V.Regs[f.vd+s][i*eew+j] = m.Mem.ReadByte(addr + j)
					}
				}
			}
		}
	}
}

// executeVectorStore is the mirror of executeVectorLoad, grounded on
// original_source/rvv_dev.c's execute_vstore.
func (m *Machine) executeVectorStore(d Decoded) {
	f := decodeVectorMemFields(d.Word)
	if f.mew || !f.eewOK || f.nf > 8 {
		return
	}
	base := m.Regs.ReadX(f.rs1)
	eew := f.eew

	if f.mop == vmopUnitStride && f.lumop == vlumopWholeRegister {
		evl := VLENBytes / eew
		for i := uint32(0); i < evl; i++ {
			for s := uint32(0); s < f.nf; s++ {
				addr := base + i*f.nf*eew + s*eew
				if f.vm || m.V.MaskBit(i) {
					for j := uint32(0); j < eew; j++ {
						m.Mem.WriteByte(addr+j, m.V.Regs[f.vd+s][i*eew+j])
					}
				}
			}
		}
		return
	}

	switch f.mop {
	case vmopUnitStride, vmopStrided:
		stride := eew
		if f.mop == vmopUnitStride {
			switch f.lumop {
			case 0:
				// regular unit-stride: stride stays at eew.
			case vlumopMaskLoad:
				if f.width != 0 || f.nf != 1 {
					return
				}
				eew = 1
				stride = 1
			default:
				// Any other unit-stride sub-op is unrecognized: no-op,
				// per spec.md's "Any other value: no-op".
				return
			}
		} else {
			// Strided stride is a register value, x[instr[24:20]], not
			// the literal field itself.
			stride = m.Regs.ReadX(f.lumop)
		}

		for i := uint32(0); i < m.V.VL; i++ {
			for s := uint32(0); s < f.nf; s++ {
				addr := base + i*stride*f.nf + s*stride
				if f.vm || m.V.MaskBit(i) {
					for j := uint32(0); j < eew; j++ {
						m.Mem.WriteByte(addr+j, m.V.Regs[f.vd+s][i*eew+j])
					}
				}
			}
		}

	case vmopIndexedU, vmopIndexedO:
		indexReg := f.lumop
		for i := uint32(0); i < m.V.VL; i++ {
			offset := m.indexOffset(indexReg, i)
			for s := uint32(0); s < f.nf; s++ {
				addr := base + offset + s*eew
				if f.vm || m.V.MaskBit(i) {
					for j := uint32(0); j < eew; j++ {
						m.Mem.WriteByte(addr+j, m.V.Regs[f.vd+s][i*eew+j])
					}
				}
			}
		}
	}
}
