package vm

// RegisterFile holds the 32 scalar registers x0-x31. x0 is hardwired to
// zero: ReadX always returns 0 for index 0 and WriteX silently discards
// writes to it, so callers never need an "if rd != 0" guard of their own.
type RegisterFile struct {
	x [NumRegisters]uint32
}

// ReadX returns the value of register x[idx]. idx is masked to 5 bits
// since every encoding field that selects a register is already 5 bits
// wide; out-of-range values cannot occur from a real decode, but the mask
// keeps this accessor total.
func (r *RegisterFile) ReadX(idx uint32) uint32 {
	idx &= Mask5Bit
	if idx == 0 {
		return 0
	}
	return r.x[idx]
}

// WriteX sets x[idx], discarding writes to x0.
func (r *RegisterFile) WriteX(idx uint32, value uint32) {
	idx &= Mask5Bit
	if idx == 0 {
		return
	}
	r.x[idx] = value
}

// Reset zeroes every register, including the (already-ignored) x0 slot.
func (r *RegisterFile) Reset() {
	r.x = [NumRegisters]uint32{}
}
