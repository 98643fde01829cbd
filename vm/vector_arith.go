package vm

// Vector arithmetic field layout (opcode opVectorOp, funct3 != 7):
// word[31:26]=funct6, word[25]=vm, word[24:20]=vs2, word[19:15]=vs1/rs1/imm5,
// word[14:12]=funct3 (selects OPIVV/OPIVI/OPIVX/OPMVV/OPMVX form),
// word[11:7]=vd. Grounded bit-for-bit on original_source/rvv_dev.c's
// execute_varith.
const (
	formOPIVV = 0x0
	formRED   = 0x1 // integer reduction, reusing the OPFVV slot
	formOPMVV = 0x2
	formOPIVI = 0x3
	formOPIVX = 0x4
	formOPMVX = 0x6
)

// executeVectorArith implements the element-wise integer catalog:
// reductions, mask logic, vmset.m/vmclr.m, vcompress, the regular
// OPIVV/OPIVI/OPIVX arithmetic/comparison/shift/widening family, and the
// OPMVV/OPMVX multiply/divide/fused-multiply-add family.
func (m *Machine) executeVectorArith(d Decoded) {
	word := d.Word
	funct6 := bits(word, 31, 26)
	funct3 := d.Funct3
	vm := bits(word, 25, 25) != 0
	vs2 := bits(word, 24, 20)
	vd := d.Rd

	vsew := m.V.Type.VSEW()
	eew := uint32(1) << vsew

	switch {
	case funct3 == formRED && funct6 <= 0x07:
		m.vectorReduce(d, funct6, vs2, vd, eew, vm)
		return

	case funct3 == formOPMVV && funct6 >= 0x50 && funct6 <= 0x57:
		m.vectorMaskOp(d, funct6, vs2, vd, vm)
		return

	case funct3 == formOPIVV && (funct6 == 0x58 || funct6 == 0x59):
		m.vectorMaskSetClear(funct6, vd, vm)
		return

	case funct3 == formOPMVV && funct6 == 0x5F:
		m.vectorCompress(d, vs2, vd, eew)
		return
	}

	m.vectorRegular(d, funct6, funct3, vs2, vd, eew, vm)
}

// vectorReduce implements vredsum/vredand/vredor/vredxor/vredminu/
// vredmin/vredmaxu/vredmax: fold the active elements of vs2 across
// [0,vl) into a scalar seeded with the operation's identity element (the
// value in vs1 does not contribute), written back to element 0 of vd
// with elements [1,vl) zeroed.
func (m *Machine) vectorReduce(d Decoded, funct6, vs2, vd, eew uint32, vm bool) {
	vs1 := d.Rs1

	op1 := m.V.ReadElement(vs1, 0, eew)
	op1s := int64(signExtend(uint32(op1), 8*eew))

	var acc uint32
	var accs int32
	switch funct6 {
	case 0x00: // vredsum
	case 0x01: // vredand
		acc = 0xFFFFFFFF
	case 0x02, 0x03: // vredor, vredxor
	case 0x04: // vredminu
		acc = 0xFFFFFFFF
	case 0x05: // vredmin
		accs = 0x7FFFFFFF
		acc = uint32(accs)
	case 0x06: // vredmaxu
	case 0x07: // vredmax
		accs = -0x80000000
		acc = uint32(accs)
	}
	_ = op1s // neutral element already folded into acc per the reference table

	for i := uint32(0); i < m.V.VL; i++ {
		if !(vm || m.V.MaskBit(i)) {
			continue
		}
		op2 := uint32(m.V.ReadElement(vs2, i, eew))
		op2s := signExtend(op2, 8*eew)
		switch funct6 {
		case 0x00:
			accs += op2s
			acc = uint32(accs)
		case 0x01:
			acc &= op2
		case 0x02:
			acc |= op2
		case 0x03:
			acc ^= op2
		case 0x04:
			if op2 < acc {
				acc = op2
			}
		case 0x05:
			if op2s < accs {
				accs = op2s
				acc = uint32(accs)
			}
		case 0x06:
			if op2 > acc {
				acc = op2
			}
		case 0x07:
			if op2s > accs {
				accs = op2s
				acc = uint32(accs)
			}
		}
	}

	m.V.WriteElement(vd, 0, eew, uint64(acc))
	for i := uint32(1); i < m.V.VL; i++ {
		m.V.WriteElement(vd, i, eew, 0)
	}
}

// vectorMaskOp implements vpopc/vfirst (write to a scalar register) and
// the six mask-logic ops vmand/vmor/vmxor/vmnand/vmnor/vmxnor (write to
// a mask register).
func (m *Machine) vectorMaskOp(d Decoded, funct6, vs2, vd uint32, vm bool) {
	switch funct6 {
	case 0x50: // vpopc
		var count uint32
		for i := uint32(0); i < m.V.VL; i++ {
			if (vm || m.V.MaskBit(i)) && m.V.maskBitOf(vs2, i) {
				count++
			}
		}
		m.Regs.WriteX(d.Rd, count)
		return

	case 0x51: // vfirst
		result := uint32(0xFFFFFFFF)
		for i := uint32(0); i < m.V.VL; i++ {
			if (vm || m.V.MaskBit(i)) && m.V.maskBitOf(vs2, i) {
				result = i
				break
			}
		}
		m.Regs.WriteX(d.Rd, result)
		return
	}

	vs1 := d.Rs1
	for i := uint32(0); i < m.V.VL; i++ {
		if !(vm || m.V.MaskBit(i)) {
			continue
		}
		a := m.V.maskBitOf(vs1, i)
		b := m.V.maskBitOf(vs2, i)
		var r bool
		switch funct6 {
		case 0x52:
			r = a && b
		case 0x53:
			r = a || b
		case 0x54:
			r = a != b
		case 0x55:
			r = !(a && b)
		case 0x56:
			r = !(a || b)
		case 0x57:
			r = !(a != b)
		}
		m.V.SetMaskBit(vd, i, r)
	}
}

// vectorMaskSetClear implements vmset.m (funct6==0x59) and vmclr.m
// (funct6==0x58), the cheap mask helpers supplementing the vector
// arithmetic catalog (dropped by the distilled spec, present in
// original_source/rvv_dev.c).
func (m *Machine) vectorMaskSetClear(funct6, vd uint32, vm bool) {
	set := funct6 == 0x59
	for i := uint32(0); i < m.V.VL; i++ {
		if vm || m.V.MaskBit(i) {
			m.V.SetMaskBit(vd, i, set)
		}
	}
}

// vectorCompress implements vcompress: pack the elements of vs1 selected
// by vs2's mask bits into consecutive positions of vd, zeroing the rest.
func (m *Machine) vectorCompress(d Decoded, vs2, vd, eew uint32) {
	vs1 := d.Rs1
	var tmp [VLENBytes]byte
	dest := uint32(0)
	for i := uint32(0); i < m.V.VL; i++ {
		if !m.V.maskBitOf(vs2, i) {
			continue
		}
		for j := uint32(0); j < eew; j++ {
			tmp[dest*eew+j] = m.V.Regs[vs1][i*eew+j]
		}
		dest++
	}
	for i := uint32(0); i < m.V.VL; i++ {
		if i < dest {
			for j := uint32(0); j < eew; j++ {
				m.V.Regs[vd][i*eew+j] = tmp[i*eew+j]
			}
		} else {
			for j := uint32(0); j < eew; j++ {
				m.V.Regs[vd][i*eew+j] = 0
			}
		}
	}
}

// vectorRegular implements the remaining element-wise instructions: the
// integer OPIVV/OPIVI/OPIVX family (add/sub/rsub/min/max/logic/compare/
// shift/widening) and the OPMVV/OPMVX multiply/divide/fused-multiply-add
// family, with the write-back width rule (widening doubles eew,
// narrowing halves it, mask-producing compares write 1 bit).
func (m *Machine) vectorRegular(d Decoded, funct6, funct3, vs2, vd, eew uint32, vm bool) {
	for i := uint32(0); i < m.V.VL; i++ {
		if !(vm || m.V.MaskBit(i)) {
			continue
		}

		op2 := uint32(m.V.ReadElement(vs2, i, eew))
		op2s := signExtend(op2, 8*eew)

		var op1 uint32
		var op1s int32
		switch funct3 {
		case formOPIVV, formOPMVV:
			op1 = uint32(m.V.ReadElement(d.Rs1, i, eew))
			op1s = signExtend(op1, 8*eew)
		case formOPIVI:
			op1 = d.Rs1
			op1s = signExtend(op1, 5)
		case formOPIVX, formOPMVX:
			op1 = m.Regs.ReadX(d.Rs1)
			op1s = signExtend(op1, 8*eew)
		}

		var vdVal uint32
		var vdVals int32
		if (funct3 == formOPMVV || funct3 == formOPMVX) && funct6 >= 0x20 && funct6 <= 0x23 {
			vdVal = uint32(m.V.ReadElement(vd, i, eew))
			vdVals = signExtend(vdVal, 8*eew)
		}

		var res uint32
		switch funct3 {
		case formOPIVV, formOPIVI, formOPIVX:
			res = integerOp(funct6, op1, op1s, op2, op2s)
		case formOPMVV, formOPMVX:
			res = mulDivOp(funct6, op1, op1s, op2, op2s, vdVal, vdVals)
		}

		if funct6 >= 0x10 && funct6 <= 0x17 {
			// Mask-producing compares write a single packed bit into vd's
			// mask plane, not a byte at element index i.
			m.V.SetMaskBit(vd, i, res != 0)
			continue
		}

		writeBackEEW := vectorWriteBackWidth(funct6, eew)
		m.V.WriteElement(vd, i, writeBackEEW, uint64(res))
	}
}

func integerOp(funct6 uint32, op1 uint32, op1s int32, op2 uint32, op2s int32) uint32 {
	switch funct6 {
	case 0x00: // vadd
		return uint32(op2s + op1s)
	case 0x02: // vsub
		return uint32(op2s - op1s)
	case 0x03: // vrsub
		return uint32(op1s - op2s)
	case 0x04: // vminu
		return minU32(op2, op1)
	case 0x05: // vmin
		return uint32(minI32(op2s, op1s))
	case 0x06: // vmaxu
		return maxU32(op2, op1)
	case 0x07: // vmax
		return uint32(maxI32(op2s, op1s))
	case 0x09: // vand
		return op2 & op1
	case 0x0A: // vor
		return op2 | op1
	case 0x0B: // vxor
		return op2 ^ op1
	case 0x10: // vmseq
		return boolToWord(op2 == op1)
	case 0x11: // vmsne
		return boolToWord(op2 != op1)
	case 0x12: // vmsltu
		return boolToWord(op2 < op1)
	case 0x13: // vmslt
		return boolToWord(op2s < op1s)
	case 0x14: // vmsleu
		return boolToWord(op2 <= op1)
	case 0x15: // vmsle
		return boolToWord(op2s <= op1s)
	case 0x16: // vmsgtu
		return boolToWord(op2 > op1)
	case 0x17: // vmsgt
		return boolToWord(op2s > op1s)
	case 0x25: // vsll
		return op2 << (op1 & Mask5Bit)
	case 0x26: // vsrl
		return op2 >> (op1 & Mask5Bit)
	case 0x27: // vsra
		return uint32(op2s >> (op1 & Mask5Bit))
	case 0x2C: // vnsrl
		return op2 >> (op1 & Mask5Bit)
	case 0x2D: // vnsra
		return uint32(op2s >> (op1 & Mask5Bit))
	case 0x30, 0x34: // vwaddu, vwaddu.w
		return op2 + op1
	case 0x31, 0x35: // vwadd, vwadd.w
		return uint32(op2s + op1s)
	case 0x32, 0x36: // vwsubu, vwsubu.w
		return op2 - op1
	case 0x33, 0x37: // vwsub, vwsub.w
		return uint32(op2s - op1s)
	default:
		return 0
	}
}

func mulDivOp(funct6 uint32, op1 uint32, op1s int32, op2 uint32, op2s int32, vdVal uint32, vdVals int32) uint32 {
	switch funct6 {
	case 0x08: // vmul
		return uint32(op2s * op1s)
	case 0x09: // vmulh: exact signed high bits via a 64-bit intermediate
		return uint32((int64(op2s) * int64(op1s)) >> 32)
	case 0x0A: // vmulhu
		return uint32((uint64(op2) * uint64(op1)) >> 32)
	case 0x0B: // vmulhsu
		return uint32((int64(op2s) * int64(op1)) >> 32)
	case 0x0C: // vdiv
		if op1s == 0 {
			return 0xFFFFFFFF
		}
		return uint32(op2s / op1s)
	case 0x0D: // vdivu
		if op1 == 0 {
			return 0xFFFFFFFF
		}
		return op2 / op1
	case 0x0E: // vrem
		if op1s == 0 {
			return uint32(op2s)
		}
		return uint32(op2s % op1s)
	case 0x0F: // vremu
		if op1 == 0 {
			return op2
		}
		return op2 % op1
	case 0x20: // vmacc: vd += vs1*vs2
		return vdVal + uint32(op1s*op2s)
	case 0x21: // vnmsac: vd -= vs1*vs2
		return vdVal - uint32(op1s*op2s)
	case 0x22: // vmadd: vd = vd*vs1 + vs2
		return uint32(vdVals*op1s) + op2
	case 0x23: // vnmsub: vd = -(vd*vs1) + vs2
		return uint32(-(vdVals * op1s)) + op2
	default:
		return 0
	}
}

// vectorWriteBackWidth implements the write-back width rule for the
// element-valued (non-mask-producing) results: widening ops
// (funct6>>4==0x3) double eew, narrowing ops (funct6>>2==0xB) halve it,
// everything else keeps eew unchanged. The mask-producing compares
// (0x10-0x17) are handled separately by vectorRegular before this is
// ever consulted, since their result is a packed bit rather than an
// eew-sized element.
//
// original_source/rvv_dev.c guards that mask-producing case with
// `funct6 >> 3 == 0x3`, which only matches funct6 0x18-0x1F and so never
// actually fires for the compares it was written for (0x10-0x17, whose
// top bits shift to 0x2). vectorRegular checks the compare range
// directly instead of reproducing that off-by-one.
func vectorWriteBackWidth(funct6, eew uint32) uint32 {
	switch {
	case funct6>>4 == 0x3:
		return eew * 2
	case funct6>>2 == 0xB:
		if eew > 1 {
			return eew / 2
		}
		return 1
	default:
		return eew
	}
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
