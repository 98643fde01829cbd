package vm

import (
	"fmt"
	"io"
)

// RetiredInstruction is the record handed to a TraceSink once per
// retired instruction. It carries only what the decoder and machine
// already have in hand; a sink that wants a mnemonic or an effects
// description derives it from Word and PC itself, the same division of
// labor as the teacher's register/execution trace recorders.
type RetiredInstruction struct {
	PC     uint32
	Word   uint32
	Cycles uint64
}

// TraceSink receives one Retired call per retired instruction. A nil
// TraceSink on Machine disables tracing entirely; Step never allocates
// or formats anything in that case.
type TraceSink interface {
	Retired(rec RetiredInstruction)
}

// SliceSink accumulates every retired instruction in memory, mirroring
// the teacher's InstructionLog: useful for tests that want to assert on
// the exact sequence of retired instructions without parsing text.
type SliceSink struct {
	Entries []RetiredInstruction
	Max     int // 0 means unbounded
}

// NewSliceSink returns a SliceSink capped at max entries (0 = unbounded).
func NewSliceSink(max int) *SliceSink {
	return &SliceSink{Max: max}
}

func (s *SliceSink) Retired(rec RetiredInstruction) {
	if s.Max > 0 && len(s.Entries) >= s.Max {
		return
	}
	s.Entries = append(s.Entries, rec)
}

// WriterSink writes one line per retired instruction to an io.Writer,
// the file-backed counterpart to SliceSink's in-memory history,
// mirroring the teacher's split between InstructionLog and
// ExecutionTrace/MemoryTrace.
type WriterSink struct {
	W io.Writer
}

// NewWriterSink wraps w as a TraceSink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{W: w}
}

func (s *WriterSink) Retired(rec RetiredInstruction) {
	fmt.Fprintf(s.W, "cycle=%d pc=%08x word=%08x\n", rec.Cycles, rec.PC, rec.Word)
}
