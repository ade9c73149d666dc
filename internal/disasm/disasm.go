// Package disasm renders RV32I instruction words as assembly text for
// tracing and debugging. It has no effect on simulated state: it is
// read-only formatting built on top of the same decode the execution
// engine uses, never a second implementation of field extraction.
package disasm

import (
	"fmt"

	"github.com/rv32sim/rv32sim/internal/core"
)

// Disassemble returns the assembly-text form of a single instruction
// word, following standard RV32I mnemonics. Illegal instructions
// disassemble as "Illegal instruction". The exact string form is
// informational only, never a wire contract.
func Disassemble(inst uint32) string {
	f := core.Decode(inst)
	switch f.Opcode {
	case core.OpcodeLoad:
		return disassembleLoad(f)
	case core.OpcodeStore:
		return disassembleStore(f)
	case core.OpcodeBranch:
		return disassembleBranch(f)
	case core.OpcodeJALR:
		return fmt.Sprintf("jalr x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	case core.OpcodeMiscMem:
		return "fence"
	case core.OpcodeJAL:
		return fmt.Sprintf("jal x%d, %d", f.RD, f.ImmJ)
	case core.OpcodeOpImm:
		return disassembleOpImm(f)
	case core.OpcodeOp:
		return disassembleOp(f)
	case core.OpcodeLUI:
		return fmt.Sprintf("lui x%d, %d", f.RD, f.ImmU>>12)
	case core.OpcodeAUIPC:
		return fmt.Sprintf("auipc x%d, %d", f.RD, f.ImmU>>12)
	case core.OpcodeSystem:
		return disassembleSystem(f)
	default:
		return "Illegal instruction"
	}
}

func disassembleLoad(f core.Fields) string {
	switch f.Funct3 {
	case 0:
		return fmt.Sprintf("lb x%d, %d(x%d)", f.RD, f.ImmI, f.RS1)
	case 1:
		return fmt.Sprintf("lh x%d, %d(x%d)", f.RD, f.ImmI, f.RS1)
	case 2:
		return fmt.Sprintf("lw x%d, %d(x%d)", f.RD, f.ImmI, f.RS1)
	case 4:
		return fmt.Sprintf("lbu x%d, %d(x%d)", f.RD, f.ImmI, f.RS1)
	case 5:
		return fmt.Sprintf("lhu x%d, %d(x%d)", f.RD, f.ImmI, f.RS1)
	default:
		return "Illegal instruction"
	}
}

func disassembleStore(f core.Fields) string {
	switch f.Funct3 {
	case 0:
		return fmt.Sprintf("sb x%d, %d(x%d)", f.RS2, f.ImmS, f.RS1)
	case 1:
		return fmt.Sprintf("sh x%d, %d(x%d)", f.RS2, f.ImmS, f.RS1)
	case 2:
		return fmt.Sprintf("sw x%d, %d(x%d)", f.RS2, f.ImmS, f.RS1)
	default:
		return "Illegal instruction"
	}
}

func disassembleBranch(f core.Fields) string {
	switch f.Funct3 {
	case 0:
		return fmt.Sprintf("beq x%d, x%d, %d", f.RS1, f.RS2, f.ImmB)
	case 1:
		return fmt.Sprintf("bne x%d, x%d, %d", f.RS1, f.RS2, f.ImmB)
	case 4:
		return fmt.Sprintf("blt x%d, x%d, %d", f.RS1, f.RS2, f.ImmB)
	case 5:
		return fmt.Sprintf("bge x%d, x%d, %d", f.RS1, f.RS2, f.ImmB)
	case 6:
		return fmt.Sprintf("bltu x%d, x%d, %d", f.RS1, f.RS2, f.ImmB)
	case 7:
		return fmt.Sprintf("bgeu x%d, x%d, %d", f.RS1, f.RS2, f.ImmB)
	default:
		return "Illegal instruction"
	}
}

func disassembleOpImm(f core.Fields) string {
	switch f.Funct3 {
	case 0:
		return fmt.Sprintf("addi x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	case 1:
		if f.Funct7 != 0 {
			return "Illegal instruction"
		}
		return fmt.Sprintf("slli x%d, x%d, %d", f.RD, f.RS1, f.ImmI&0x1F)
	case 2:
		return fmt.Sprintf("slti x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	case 3:
		return fmt.Sprintf("sltiu x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	case 4:
		return fmt.Sprintf("xori x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	case 5:
		switch f.Funct7 {
		case 0:
			return fmt.Sprintf("srli x%d, x%d, %d", f.RD, f.RS1, f.ImmI&0x1F)
		case 0x20:
			return fmt.Sprintf("srai x%d, x%d, %d", f.RD, f.RS1, f.ImmI&0x1F)
		default:
			return "Illegal instruction"
		}
	case 6:
		return fmt.Sprintf("ori x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	case 7:
		return fmt.Sprintf("andi x%d, x%d, %d", f.RD, f.RS1, f.ImmI)
	default:
		return "Illegal instruction"
	}
}

func disassembleOp(f core.Fields) string {
	if f.Funct7 != 0 && f.Funct7 != 0x20 {
		return "Illegal instruction"
	}
	alt := f.Funct7 == 0x20
	if alt && f.Funct3 != 0 && f.Funct3 != 5 {
		return "Illegal instruction"
	}
	switch f.Funct3 {
	case 0:
		if alt {
			return fmt.Sprintf("sub x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
		}
		return fmt.Sprintf("add x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 1:
		return fmt.Sprintf("sll x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 2:
		return fmt.Sprintf("slt x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 3:
		return fmt.Sprintf("sltu x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 4:
		return fmt.Sprintf("xor x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 5:
		if alt {
			return fmt.Sprintf("sra x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
		}
		return fmt.Sprintf("srl x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 6:
		return fmt.Sprintf("or x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	case 7:
		return fmt.Sprintf("and x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	default:
		return "Illegal instruction"
	}
}

func disassembleSystem(f core.Fields) string {
	switch {
	case f.Funct3 == 0 && f.ImmI == 0:
		return "ecall"
	case f.Funct3 == 0 && f.ImmI == 1:
		return "ebreak"
	default:
		return "Illegal instruction"
	}
}
