package vm

import "errors"

// ErrHalt is returned by Step/Run when the program executes ECALL with
// the exit syscall convention (x[3] holds the exit code). It is a
// terminal, expected condition, not an execution fault: callers check
// for it with errors.Is and read Machine.ExitCode, exactly as the
// teacher's VM.Run treats a handled exit as a normal stop rather than an
// abnormal one.
var ErrHalt = errors.New("program halted")

// ErrCycleLimit is returned by Run when the configured cycle ceiling is
// reached without the program halting on its own.
var ErrCycleLimit = errors.New("maximum cycles exceeded")
