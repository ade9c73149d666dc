// Package core implements the RV32I fetch-decode-execute cycle: the
// instruction decoder, the ALU and branch unit, and the processor
// state (PC, register file, memory) they operate on together.
//
// Execution is single-threaded and synchronous. Each Step fully
// completes — fetch, decode, execute, writeback, PC update — before
// the next begins; there is exactly one happens-before chain. A
// caller that needs to bound work caps the step count passed to Run
// or inspects the error Step returns; that is the only safe
// interruption boundary.
package core

import (
	"context"
	"fmt"

	"github.com/rv32sim/rv32sim/internal/mem32"
	"github.com/rv32sim/rv32sim/internal/regfile"
)

const (
	// funct3 values for the LOAD opcode class.
	funct3LB  = uint32(0)
	funct3LH  = uint32(1)
	funct3LW  = uint32(2)
	funct3LBU = uint32(4)
	funct3LHU = uint32(5)

	// funct3 values for the STORE opcode class.
	funct3SB = uint32(0)
	funct3SH = uint32(1)
	funct3SW = uint32(2)
)

// Core is a single RV32I processor instance: a program counter, a
// register file, and a memory. These fields are per-instance, created
// fresh by New, never shared across instances.
type Core struct {
	pc   uint32
	regs regfile.File
	mem  *mem32.Memory
}

// New returns a fresh Core with PC=0, all registers zeroed, and empty
// memory.
func New() *Core {
	return &Core{mem: mem32.New()}
}

// Reset sets PC to entryPC and zeroes all registers. Memory is left
// untouched; callers that want a clean memory too should call
// Mem().Clear() or reload an image.
func (c *Core) Reset(entryPC uint32) {
	c.pc = entryPC
	c.regs.Reset()
}

// PC returns the current program counter.
func (c *Core) PC() uint32 {
	return c.pc
}

// Regs returns the processor's register file.
func (c *Core) Regs() *regfile.File {
	return &c.regs
}

// Mem returns the processor's memory.
func (c *Core) Mem() *mem32.Memory {
	return c.mem
}

// String renders a snapshot of the processor state for tracing.
func (c *Core) String() string {
	return fmt.Sprintf("{PC:0x%08x}", c.pc)
}

// Fetch reads the 32-bit instruction word at PC without advancing PC.
func (c *Core) Fetch() uint32 {
	return c.mem.ReadAligned(c.pc)
}

// Step executes one fetch-decode-execute cycle. It returns nil when
// execution may continue, ErrIllegalInstruction when the fetched word
// is not a supported opcode/field combination, or ErrHalt when an
// ECALL/EBREAK was fetched. In both error cases the PC is left
// pointing at the offending instruction and any side effects caused by
// prior instructions remain.
func (c *Core) Step() error {
	inst := c.Fetch()
	f := Decode(inst)

	rs1d := int32(c.regs.Read(f.RS1))
	rs2d := int32(c.regs.Read(f.RS2))

	pcNext := c.pc + 4
	var err error

	switch f.Opcode {
	case OpcodeLoad:
		err = c.execLoad(f, rs1d)
	case OpcodeStore:
		err = c.execStore(f, rs1d, rs2d)
	case OpcodeBranch:
		pcNext, err = c.execBranch(f, rs1d, rs2d, pcNext)
	case OpcodeJALR:
		c.regs.Write(f.RD, pcNext)
		pcNext = (uint32(rs1d + f.ImmI)) &^ 1
	case OpcodeMiscMem:
		// FENCE: parsed but has no observable effect.
	case OpcodeJAL:
		c.regs.Write(f.RD, pcNext)
		pcNext = c.pc + uint32(f.ImmJ)
	case OpcodeOpImm:
		err = c.execOpImm(f, rs1d)
	case OpcodeOp:
		err = c.execOp(f, rs1d, rs2d)
	case OpcodeLUI:
		c.regs.Write(f.RD, uint32(f.ImmU))
	case OpcodeAUIPC:
		c.regs.Write(f.RD, c.pc+uint32(f.ImmU))
	case OpcodeSystem:
		// ECALL (imm 0) and EBREAK (imm 1) halt; other SYSTEM encodings
		// are not supported.
		if f.Funct3 == 0 && (f.ImmI == 0 || f.ImmI == 1) {
			err = ErrHalt
		} else {
			err = ErrIllegalInstruction
		}
	default:
		err = ErrIllegalInstruction
	}

	if err != nil {
		return err
	}
	c.pc = pcNext
	return nil
}

func (c *Core) execLoad(f Fields, rs1d int32) error {
	addr := uint32(rs1d + f.ImmI)
	switch f.Funct3 {
	case funct3LB:
		c.regs.Write(f.RD, c.mem.Read(addr, 1))
	case funct3LH:
		c.regs.Write(f.RD, c.mem.Read(addr, 2))
	case funct3LW:
		c.regs.Write(f.RD, c.mem.Read(addr, 4))
	case funct3LBU:
		c.regs.Write(f.RD, c.mem.Read(addr, 1)&0xFF)
	case funct3LHU:
		c.regs.Write(f.RD, c.mem.Read(addr, 2)&0xFFFF)
	default:
		return ErrIllegalInstruction
	}
	return nil
}

func (c *Core) execStore(f Fields, rs1d, rs2d int32) error {
	addr := uint32(rs1d + f.ImmS)
	switch f.Funct3 {
	case funct3SB:
		c.mem.Write(addr, uint32(rs2d), 1)
	case funct3SH:
		c.mem.Write(addr, uint32(rs2d), 2)
	case funct3SW:
		c.mem.Write(addr, uint32(rs2d), 4)
	default:
		return ErrIllegalInstruction
	}
	return nil
}

func (c *Core) execBranch(f Fields, rs1d, rs2d int32, pcNext uint32) (uint32, error) {
	switch f.Funct3 {
	case funct3BEQ, funct3BNE, funct3BLT, funct3BGE, funct3BLTU, funct3BGEU:
	default:
		return pcNext, ErrIllegalInstruction
	}
	if branchTaken(f.Funct3, rs1d, rs2d) {
		return c.pc + uint32(f.ImmB), nil
	}
	return pcNext, nil
}

func (c *Core) execOpImm(f Fields, rs1d int32) error {
	switch f.Funct3 {
	case funct3SLL:
		if f.Funct7 != 0 {
			return ErrIllegalInstruction
		}
	case funct3SRxx:
		if f.Funct7 != 0 && f.Funct7 != funct7Alt {
			return ErrIllegalInstruction
		}
	}
	alt := f.Funct3 == funct3SRxx && f.Funct7 == funct7Alt
	c.regs.Write(f.RD, uint32(alu(f.Funct3, alt, rs1d, f.ImmI)))
	return nil
}

func (c *Core) execOp(f Fields, rs1d, rs2d int32) error {
	if f.Funct7 != 0 && f.Funct7 != funct7Alt {
		return ErrIllegalInstruction
	}
	alt := f.Funct7 == funct7Alt
	if alt && f.Funct3 != funct3AddSub && f.Funct3 != funct3SRxx {
		return ErrIllegalInstruction
	}
	c.regs.Write(f.RD, uint32(alu(f.Funct3, alt, rs1d, rs2d)))
	return nil
}

// StepResult carries the information a trace line needs about a
// single step, captured before the step's own side effects (so it
// remains well-formed even for an instruction that halts execution).
type StepResult struct {
	PC   uint32
	Inst uint32
	Err  error
}

// StepTraced behaves like Step but also returns the pre-execution PC
// and fetched instruction word, for callers that want to render a
// trace line regardless of whether the step halted.
func (c *Core) StepTraced() StepResult {
	r := StepResult{PC: c.pc, Inst: c.Fetch()}
	r.Err = c.Step()
	return r
}

// Run steps the processor until Step returns a non-nil error, maxSteps
// steps have executed (maxSteps <= 0 means unbounded), or ctx is
// cancelled between steps — the only safe interruption boundary for a
// single-threaded, synchronous engine. It returns the number of steps
// actually executed and the error that stopped execution, which is
// nil only if the step budget was exhausted.
func (c *Core) Run(ctx context.Context, maxSteps int) (int, error) {
	steps := 0
	for maxSteps <= 0 || steps < maxSteps {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}
		if err := c.Step(); err != nil {
			return steps + 1, err
		}
		steps++
	}
	return steps, nil
}
