package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupVector8 configures e8,m1 (VLMAX=16) with the requested vl.
func setupVector8(t *testing.T, m *Machine, vl uint32) {
	t.Helper()
	m.Mem.WriteWord(0, encodeVsetivli(10, vl, 0)) // vsetivli x10, vl, e8, m1
	require.NoError(t, m.Step(), "vsetivli step")
}

func TestVectorAddElementWise(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 4)

	for i := uint32(0); i < 4; i++ {
		m.V.WriteElement(1, i, 1, uint64(i+1))
		m.V.WriteElement(2, i, 1, uint64(10))
	}

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x00, true, 2, 1, formOPIVV, 3)) // vadd.vv v3, v2, v1

	require.NoError(t, m.Step(), "step")
	for i := uint32(0); i < 4; i++ {
		want := uint64(10 + i + 1)
		got := m.V.ReadElement(3, i, 1)
		assert.Equal(t, want, got, "element %d", i)
	}
}

func TestVectorCompareProducesOneBitMask(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 4)

	vals := [4]uint64{5, 3, 5, 1}
	for i, v := range vals {
		m.V.WriteElement(1, uint32(i), 1, v)
	}

	m.PC = 4
	// vmseq.vx v0, v1, x2 (x2 = 5) -> compares write a 1-bit mask.
	m.Regs.WriteX(2, 5)
	m.Mem.WriteWord(4, encodeVArith(0x10, true, 1, 2, formOPIVX, 0))

	require.NoError(t, m.Step(), "step")
	for i, v := range vals {
		want := v == 5
		got := m.V.MaskBit(uint32(i))
		assert.Equal(t, want, got, "mask bit %d", i)
	}
}

func TestVectorReduceSum(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 4)

	for i := uint32(0); i < 4; i++ {
		m.V.WriteElement(2, i, 1, uint64(i+1)) // 1,2,3,4
	}
	m.V.WriteElement(1, 0, 1, 0) // neutral seed for vredsum

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x00, true, 2, 1, formRED, 3)) // vredsum.vs v3, v2, v1

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint64(10), m.V.ReadElement(3, 0, 1), "reduce sum")
}

func TestVectorMaskLogicAnd(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 8)

	m.V.Regs[1][0] = 0b00001111
	m.V.Regs[2][0] = 0b00000011

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x52, true, 2, 1, formOPMVV, 3)) // vmand.mm v3, v1, v2

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, byte(0b00000011), m.V.Regs[3][0]&0xFF, "vmand result")
}

func TestVectorMaskSetAndClear(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 8)

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x59, true, 0, 0, formOPIVV, 3)) // vmset.m v3
	require.NoError(t, m.Step(), "vmset step")
	assert.Equal(t, byte(0xFF), m.V.Regs[3][0]&0xFF, "vmset.m should be all ones (low 8 bits)")

	m.Mem.WriteWord(8, encodeVArith(0x58, true, 0, 0, formOPIVV, 3)) // vmclr.m v3
	require.NoError(t, m.Step(), "vmclr step")
	assert.Equal(t, byte(0), m.V.Regs[3][0], "vmclr.m")
}

func TestVectorCompressPacksSelectedElements(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 4)

	for i := uint32(0); i < 4; i++ {
		m.V.WriteElement(1, i, 1, uint64(i+10)) // 10,11,12,13
	}
	m.V.Regs[2][0] = 0b0101 // select elements 0 and 2

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x5F, true, 2, 1, formOPMVV, 3)) // vcompress.vm v3, v1, v2

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint64(10), m.V.ReadElement(3, 0, 1), "compressed[0]")
	assert.Equal(t, uint64(12), m.V.ReadElement(3, 1, 1), "compressed[1]")
	assert.Equal(t, uint64(0), m.V.ReadElement(3, 2, 1), "compressed[2] (zero-filled tail)")
}

func TestVectorMaccAccumulates(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 2)

	m.V.WriteElement(1, 0, 1, 3) // vs1
	m.V.WriteElement(2, 0, 1, 4) // vs2
	m.V.WriteElement(3, 0, 1, 5) // vd (accumulator)

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x20, true, 2, 1, formOPMVV, 3)) // vmacc.vv v3, v1, v2

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint64(5+3*4), m.V.ReadElement(3, 0, 1), "vmacc")
}

func TestVectorDivideByZeroAllOnes(t *testing.T) {
	m := newTestMachine()
	setupVector8(t, m, 1)

	m.V.WriteElement(1, 0, 1, 0) // divisor
	m.V.WriteElement(2, 0, 1, 9) // dividend

	m.PC = 4
	m.Mem.WriteWord(4, encodeVArith(0x0D, true, 2, 1, formOPMVV, 3)) // vdivu.vv v3, v2, v1

	require.NoError(t, m.Step(), "step")
	assert.Equal(t, uint64(0xFF), m.V.ReadElement(3, 0, 1), "vdivu by zero should be all-ones at eew=1")
}
