package vm

// executeSystem implements the opSystem major opcode: ECALL and the six
// Zicsr instructions. ECALL never transfers control on this machine, it
// halts, so this function either returns a halt error (PC unchanged) or
// advances PC by 4 itself before returning nil.
func (m *Machine) executeSystem(d Decoded) error {
	if d.Word == eCallWord {
		return m.haltWith(int32(m.Regs.ReadX(3)))
	}

	switch d.Funct3 {
	case funct3CSRRW:
		m.execCSR(d, true, func(old, rs1 uint32) uint32 { return rs1 })
	case funct3CSRRS:
		m.execCSR(d, d.Rs1 != 0, func(old, rs1 uint32) uint32 { return old | rs1 })
	case funct3CSRRC:
		m.execCSR(d, d.Rs1 != 0, func(old, rs1 uint32) uint32 { return old &^ rs1 })
	case funct3CSRRWI:
		m.execCSRI(d, true, func(old, imm uint32) uint32 { return imm })
	case funct3CSRRSI:
		m.execCSRI(d, d.Rs1 != 0, func(old, imm uint32) uint32 { return old | imm })
	case funct3CSRRCI:
		m.execCSRI(d, d.Rs1 != 0, func(old, imm uint32) uint32 { return old &^ imm })
	}
	// funct3PRIV (EBREAK and friends) and any other encoding: no-op.
	m.PC += 4
	return nil
}

// execCSR implements the register-source CSRR{W,S,C} family. writes
// gates whether the CSR is actually written (CSRRS/CSRRC with rs1==x0
// are read-only probes that must not write, per Zicsr semantics), rd
// always receives the pre-modification value.
func (m *Machine) execCSR(d Decoded, writes bool, combine func(old, rs1 uint32) uint32) {
	csr := d.CSRAddr
	old := m.CSR[csr]
	m.Regs.WriteX(d.Rd, old)
	if writes {
		m.CSR[csr] = combine(old, m.Regs.ReadX(d.Rs1))
	}
}

// execCSRI implements the immediate-source CSRR{W,S,C}I family, reading
// the 5-bit zimm from the Rs1 field instead of a register.
func (m *Machine) execCSRI(d Decoded, writes bool, combine func(old, zimm uint32) uint32) {
	csr := d.CSRAddr
	old := m.CSR[csr]
	m.Regs.WriteX(d.Rd, old)
	if writes {
		m.CSR[csr] = combine(old, d.Rs1)
	}
}
