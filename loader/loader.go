// Package loader reads a flat binary program image from disk.
package loader

import (
	"fmt"
	"os"

	"github.com/qtx73/rv32emu/vm"
)

// Load reads the entire file at path. The image is assumed to already
// be a flat binary (no assembly, symbol table, or directive pipeline to
// run first), so the only failure mode is the underlying file I/O,
// wrapped for context.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	return data, nil
}

// LoadIntoMachine reads the image at path and copies it into m's memory
// starting at address 0, then sets the program counter to entry.
func LoadIntoMachine(m *vm.Machine, path string, entry uint32) error {
	data, err := Load(path)
	if err != nil {
		return err
	}
	m.Mem.LoadBytes(0, data)
	m.PC = entry
	return nil
}
