// Package regfile implements the 32-entry general-purpose register
// bank of the RV32I simulator. Register x0 is hard-wired to zero: it
// always reads as zero and writes to it are silently discarded.
package regfile

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 32

// File is a 32x32-bit register bank. The zero value is a valid,
// all-zero register file.
type File struct {
	regs [NumRegisters]uint32
}

// Read returns the content of register i. i is always in 0..31 by
// construction of the decoder (it comes from a 5-bit field), so no
// bounds check is performed beyond what Go does for array indexing.
func (f *File) Read(i uint32) uint32 {
	return f.regs[i]
}

// Write updates register i with v, except i == 0 which is a silent
// no-op: x0 reads as zero regardless of writes.
func (f *File) Write(i uint32, v uint32) {
	if i != 0 {
		f.regs[i] = v
	}
}

// Reset zeroes all registers.
func (f *File) Reset() {
	f.regs = [NumRegisters]uint32{}
}
