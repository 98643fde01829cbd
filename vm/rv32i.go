package vm

// executeRV32I implements the base integer ISA: LUI, AUIPC, JAL, JALR,
// the six branches, the five loads, the three stores, and the
// register-immediate / register-register ALU families. Every path ends
// by advancing PC except the two that set it directly (JAL, JALR) and
// the taken-branch path, matching original_source/rv32emu.c's
// execute_instr pc handling instruction by instruction.
func (m *Machine) executeRV32I(d Decoded) error {
	switch d.Opcode {
	case opLUI:
		m.Regs.WriteX(d.Rd, d.ImmU)
		m.PC += 4

	case opAUIPC:
		m.Regs.WriteX(d.Rd, m.PC+d.ImmU)
		m.PC += 4

	case opJAL:
		m.Regs.WriteX(d.Rd, m.PC+4)
		m.PC = m.PC + uint32(d.ImmJ)

	case opJALR:
		target := (m.Regs.ReadX(d.Rs1) + uint32(d.ImmI)) &^ 1
		m.Regs.WriteX(d.Rd, m.PC+4)
		m.PC = target

	case opBranch:
		if m.evalBranch(d) {
			m.PC = m.PC + uint32(d.ImmB)
		} else {
			m.PC += 4
		}

	case opLoad:
		m.executeLoad(d)
		m.PC += 4

	case opStore:
		m.executeStore(d)
		m.PC += 4

	case opImm:
		m.executeImmALU(d)
		m.PC += 4

	case opReg:
		if d.Funct7 == funct7MulDiv {
			m.executeRV32M(d)
		} else {
			m.executeRegALU(d)
		}
		m.PC += 4
	}
	return nil
}

func (m *Machine) evalBranch(d Decoded) bool {
	a := m.Regs.ReadX(d.Rs1)
	b := m.Regs.ReadX(d.Rs2)
	switch d.Funct3 {
	case funct3BEQ:
		return a == b
	case funct3BNE:
		return a != b
	case funct3BLT:
		return int32(a) < int32(b)
	case funct3BGE:
		return int32(a) >= int32(b)
	case funct3BLTU:
		return a < b
	case funct3BGEU:
		return a >= b
	default:
		return false
	}
}

func (m *Machine) executeLoad(d Decoded) {
	addr := m.Regs.ReadX(d.Rs1) + uint32(d.ImmI)
	switch d.Funct3 {
	case funct3LB:
		m.Regs.WriteX(d.Rd, uint32(int32(int8(m.Mem.ReadByte(addr)))))
	case funct3LH:
		m.Regs.WriteX(d.Rd, uint32(int32(int16(m.Mem.ReadHalfword(addr)))))
	case funct3LW:
		m.Regs.WriteX(d.Rd, m.Mem.ReadWord(addr))
	case funct3LBU:
		m.Regs.WriteX(d.Rd, uint32(m.Mem.ReadByte(addr)))
	case funct3LHU:
		m.Regs.WriteX(d.Rd, uint32(m.Mem.ReadHalfword(addr)))
	}
}

func (m *Machine) executeStore(d Decoded) {
	addr := m.Regs.ReadX(d.Rs1) + uint32(d.ImmS)
	value := m.Regs.ReadX(d.Rs2)
	switch d.Funct3 {
	case funct3SB:
		m.Mem.WriteByte(addr, byte(value))
	case funct3SH:
		m.Mem.WriteHalfword(addr, uint16(value))
	case funct3SW:
		m.Mem.WriteWord(addr, value)
	}
}

func (m *Machine) executeImmALU(d Decoded) {
	a := m.Regs.ReadX(d.Rs1)
	imm := uint32(d.ImmI)
	switch d.Funct3 {
	case funct3ADDI_ADD_SUB:
		m.Regs.WriteX(d.Rd, a+imm)
	case funct3SLTI_SLT:
		m.Regs.WriteX(d.Rd, boolToWord(int32(a) < d.ImmI))
	case funct3SLTIU_SLTU:
		m.Regs.WriteX(d.Rd, boolToWord(a < imm))
	case funct3XORI_XOR:
		m.Regs.WriteX(d.Rd, a^imm)
	case funct3ORI_OR:
		m.Regs.WriteX(d.Rd, a|imm)
	case funct3ANDI_AND:
		m.Regs.WriteX(d.Rd, a&imm)
	case funct3SLLI_SLL:
		shamt := d.Rs2 & Mask5Bit // I-immediate's low 5 bits, same field as Rs2
		m.Regs.WriteX(d.Rd, a<<shamt)
	case funct3SRLI_SRAI_SR:
		shamt := d.Rs2 & Mask5Bit
		if d.Funct7 == funct7Alt {
			m.Regs.WriteX(d.Rd, uint32(int32(a)>>shamt))
		} else {
			m.Regs.WriteX(d.Rd, a>>shamt)
		}
	}
}

func (m *Machine) executeRegALU(d Decoded) {
	a := m.Regs.ReadX(d.Rs1)
	b := m.Regs.ReadX(d.Rs2)
	switch d.Funct3 {
	case funct3ADDI_ADD_SUB:
		if d.Funct7 == funct7Alt {
			m.Regs.WriteX(d.Rd, a-b)
		} else {
			m.Regs.WriteX(d.Rd, a+b)
		}
	case funct3SLLI_SLL:
		m.Regs.WriteX(d.Rd, a<<(b&Mask5Bit))
	case funct3SLTI_SLT:
		m.Regs.WriteX(d.Rd, boolToWord(int32(a) < int32(b)))
	case funct3SLTIU_SLTU:
		m.Regs.WriteX(d.Rd, boolToWord(a < b))
	case funct3XORI_XOR:
		m.Regs.WriteX(d.Rd, a^b)
	case funct3SRLI_SRAI_SR:
		shamt := b & Mask5Bit
		if d.Funct7 == funct7Alt {
			m.Regs.WriteX(d.Rd, uint32(int32(a)>>shamt))
		} else {
			m.Regs.WriteX(d.Rd, a>>shamt)
		}
	case funct3ORI_OR:
		m.Regs.WriteX(d.Rd, a|b)
	case funct3ANDI_AND:
		m.Regs.WriteX(d.Rd, a&b)
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
