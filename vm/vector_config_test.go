package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeVsetvli composes a vsetvli word: rd, rs1 (AVL source), vtypei[10:0].
func encodeVsetvli(rd, rs1, vtypei uint32) uint32 {
	return vtypei<<20 | rs1<<15 | 0x7<<12 | rd<<7 | opVectorOp
}

// encodeVsetivli composes a vsetivli word: rd, uimm(avl), vtypei[9:0].
func encodeVsetivli(rd, uimm, vtypei uint32) uint32 {
	return 0x3<<30 | vtypei<<20 | uimm<<15 | 0x7<<12 | rd<<7 | opVectorOp
}

// encodeVsetvl composes a vsetvl word: rd, rs1 (AVL source), rs2 (vtype source).
func encodeVsetvl(rd, rs1, rs2 uint32) uint32 {
	return 0x40<<25 | rs2<<20 | rs1<<15 | 0x7<<12 | rd<<7 | opVectorOp
}

func TestVsetvliFloorsAVLToVLMAX(t *testing.T) {
	m := newTestMachine()
	// e8, m1 -> VLMAX = VLEN/8 = 16. Request AVL=100, expect floor to 16.
	m.Regs.WriteX(1, 100)
	vtypei := uint32(0) // vsew=0 (e8), vlmul=0 (m1)
	m.Mem.WriteWord(0, encodeVsetvli(2, 1, vtypei))

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint32(16), m.Regs.ReadX(2), "rd should floor to VLMAX")
	assert.Equal(t, uint32(16), m.V.VL, "V.VL")
	assert.False(t, m.V.Type.Illegal(), "configuration unexpectedly marked illegal")
}

func TestVsetvliX0X0KeepsCurrentVL(t *testing.T) {
	m := newTestMachine()
	m.V.VL = 8
	m.V.Type = VType(0)
	// rs1=x0, rd=x0: keep current vl, only change vtype.
	vtypei := uint32(1) // vlmul=1 (m2), vsew=0 (e8)
	m.Mem.WriteWord(0, encodeVsetvli(0, 0, vtypei))

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint32(8), m.V.VL, "V.VL should be unchanged")
	assert.Equal(t, uint32(1), m.V.Type.VLMUL(), "VLMUL")
}

func TestVsetvliRdNonzeroRs1ZeroRequestsVLMAX(t *testing.T) {
	m := newTestMachine()
	vtypei := uint32(1<<3 | 0) // vsew=1 (e16), vlmul=0 (m1) -> VLMAX = VLEN/16 = 8
	m.Mem.WriteWord(0, encodeVsetvli(5, 0, vtypei))

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint32(8), m.Regs.ReadX(5), "rd should hold VLMAX")
}

func TestVsetvliReservedVlmulIsIllegal(t *testing.T) {
	m := newTestMachine()
	vtypei := uint32(4) // vlmul=4 is reserved
	m.Regs.WriteX(1, 10)
	m.Mem.WriteWord(0, encodeVsetvli(2, 1, vtypei))

	require.NoError(t, m.Step(), "step")
	assert.True(t, m.V.Type.Illegal(), "expected illegal configuration for reserved vlmul=4")
	assert.Equal(t, uint32(0), m.V.VL, "V.VL on illegal configuration")
	assert.Equal(t, uint32(0), m.Regs.ReadX(2), "rd on illegal configuration")
}

func TestVsetvlReservedBitsFromRegisterAreNotMasked(t *testing.T) {
	m := newTestMachine()
	m.Regs.WriteX(1, 4) // AVL
	m.Regs.WriteX(2, 0x100)
	m.Mem.WriteWord(0, encodeVsetvl(3, 1, 2))

	require.NoError(t, m.Step(), "step")
	assert.True(t, m.V.Type.Illegal(), "expected illegal configuration: reserved bit set in register-sourced vtypei")
}

func TestVsetivliUsesImmediateAVL(t *testing.T) {
	m := newTestMachine()
	vtypei := uint32(0) // e8, m1 -> VLMAX 16
	m.Mem.WriteWord(0, encodeVsetivli(1, 5, vtypei))

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint32(5), m.Regs.ReadX(1), "rd should hold uimm AVL, below VLMAX")
}

func TestVLMAXMonotonicWithLMUL(t *testing.T) {
	m := newTestMachine()
	// e8, m1 -> VLMAX=16; e8, m2 -> VLMAX=32.
	m.Mem.WriteWord(0, encodeVsetvli(1, 0, 0))
	require.NoError(t, m.Step(), "step")
	vlmaxM1 := m.Regs.ReadX(1)

	m.PC = 0
	m.Mem.WriteWord(0, encodeVsetvli(1, 0, 1)) // vlmul=1 (m2)
	require.NoError(t, m.Step(), "step")
	vlmaxM2 := m.Regs.ReadX(1)

	assert.Greater(t, vlmaxM2, vlmaxM1, "VLMAX(m2) should exceed VLMAX(m1)")
}
