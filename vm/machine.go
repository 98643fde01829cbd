package vm

import "fmt"

// Machine is the single owned aggregate of simulator state: scalar
// registers, program counter, CSR bank, flat memory, and vector state.
// Keeping every piece of mutable state on one struct (rather than as
// package globals, which the teacher's own design notes call out as a
// testability problem) lets tests spin up as many independent machines
// as they like.
type Machine struct {
	Regs RegisterFile
	PC   uint32
	CSR  [NumCSRs]uint32
	Mem  *Memory
	V    VectorState

	Cycles    uint64
	MaxCycles uint64

	Trace TraceSink

	ExitCode int32
	halted   bool
}

// NewMachine builds a Machine with the given memory size and cycle
// ceiling. A memSize of 0 falls back to DefaultMemorySize; a maxCycles
// of 0 falls back to DefaultMaxCycles.
func NewMachine(memSize uint32, maxCycles uint64) *Machine {
	if memSize == 0 {
		memSize = DefaultMemorySize
	}
	if maxCycles == 0 {
		maxCycles = DefaultMaxCycles
	}
	return &Machine{
		Mem:       NewMemory(memSize),
		MaxCycles: maxCycles,
	}
}

// Reset returns the machine to its post-construction state: zeroed
// registers, zeroed PC, zeroed CSRs, zeroed vector state, and zeroed
// memory, but keeps the configured MaxCycles and Trace sink.
func (m *Machine) Reset() {
	m.Regs.Reset()
	m.PC = 0
	m.CSR = [NumCSRs]uint32{}
	m.Mem.Reset()
	m.V.Reset()
	m.Cycles = 0
	m.ExitCode = 0
	m.halted = false
}

// Halted reports whether the machine has executed a halting ECALL.
func (m *Machine) Halted() bool { return m.halted }

// Step fetches, decodes, and executes exactly one instruction, advancing
// PC and Cycles. It returns ErrHalt once the program has exited via
// ECALL and returns no error for an unrecognized opcode, silently
// advancing PC by 4 instead (the fallthrough behavior of the reference
// decoder this is grounded on).
func (m *Machine) Step() error {
	word := m.Mem.ReadWord(m.PC)
	d := Decode(word)

	pc := m.PC
	err := m.execute(d)
	m.Cycles++

	if m.Trace != nil {
		m.Trace.Retired(RetiredInstruction{
			PC:     pc,
			Word:   word,
			Cycles: m.Cycles,
		})
	}

	return err
}

// Run steps the machine until it halts, hits an unrecoverable error, or
// exhausts MaxCycles. ErrHalt is the expected terminal condition; the
// returned error wraps it together with the exit code, so callers match
// it with errors.Is.
func (m *Machine) Run() error {
	for {
		if m.MaxCycles != 0 && m.Cycles >= m.MaxCycles {
			return ErrCycleLimit
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
}

// execute dispatches a decoded instruction to the RV32I, RV32M, or RV32V
// executor family by opcode. The RV32I, system, and vector-op executors
// advance PC themselves; this function advances it for vector loads,
// vector stores, and unknown opcodes.
func (m *Machine) execute(d Decoded) error {
	switch d.Opcode {
	case opLUI, opAUIPC, opJAL, opJALR, opBranch, opLoad, opStore,
		opImm, opReg:
		return m.executeRV32I(d)
	case opSystem:
		return m.executeSystem(d)
	case opVectorLoad:
		m.executeVectorLoad(d)
		m.PC += 4
		return nil
	case opVectorStore:
		m.executeVectorStore(d)
		m.PC += 4
		return nil
	case opVectorOp:
		return m.executeVectorOp(d)
	default:
		// Unknown opcode: silent no-op, PC advances. Matches the
		// reference decoder's default case.
		m.PC += 4
		return nil
	}
}

// haltWith records a halting ECALL: sets ExitCode, marks the machine
// halted, and returns the sentinel error Run/Step propagate.
func (m *Machine) haltWith(code int32) error {
	m.ExitCode = code
	m.halted = true
	return fmt.Errorf("%w: exit code %d", ErrHalt, code)
}
