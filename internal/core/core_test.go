package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// The following helpers assemble RV32I instruction words for tests.
// There is no assembler in scope for this simulator; tests build
// instructions directly from their fields.

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)<<20)&0xFFF00000 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func encodeS(rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>5)&0x7F)<<25 | rs2<<20 | rs1<<15 | 2<<12 | ((u & 0x1F) << 7) | OpcodeStore
}

func encodeB(funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	var out uint32
	out |= ((u >> 12) & 1) << 31
	out |= ((u >> 5) & 0x3F) << 25
	out |= rs2 << 20
	out |= rs1 << 15
	out |= funct3 << 12
	out |= ((u >> 1) & 0xF) << 8
	out |= ((u >> 11) & 1) << 7
	out |= OpcodeBranch
	return out
}

func encodeJ(rd uint32, imm int32) uint32 {
	u := uint32(imm)
	var out uint32
	out |= ((u >> 20) & 1) << 31
	out |= ((u >> 1) & 0x3FF) << 21
	out |= ((u >> 11) & 1) << 20
	out |= ((u >> 12) & 0xFF) << 12
	out |= rd << 7
	out |= OpcodeJAL
	return out
}

func encodeU(opcode, rd uint32, imm int32) uint32 {
	return (uint32(imm) & 0xFFFFF000) | rd<<7 | opcode
}

func TestDecodeOpcodeField(t *testing.T) {
	f := Decode(0xCBC18193)
	require.Equal(t, uint32(0b0010011), f.Opcode)
}

func TestImmediateDecodeScenarios(t *testing.T) {
	require.Equal(t, int32(-1), Decode(0xFFF00000).ImmI)

	fs := Decode(0xFE000F80)
	require.Equal(t, int32(-1), fs.ImmS)
	require.Equal(t, int32(-2), fs.ImmB)

	fu := Decode(0xFFFFF000)
	require.Equal(t, int32(-2), fu.ImmJ)
	require.Equal(t, int32(-4096), fu.ImmU)
}

func TestALUScenarios(t *testing.T) {
	require.Equal(t, int32(2), alu(0, false, 1, 1))
	require.Equal(t, int32(-1), alu(0, true, 0, 1))
	require.Equal(t, int32(-1<<31), alu(1, false, 1, 31))
	require.Equal(t, int32(1), alu(2, false, -1, 1))
	require.Equal(t, int32(0), alu(3, false, -1, 1))
	require.Equal(t, int32(-2), alu(4, false, -1, 1))
	require.Equal(t, int32((1<<31)-1), alu(5, false, -1, 1))
	require.Equal(t, int32(-1), alu(5, true, -1, 1))
	require.Equal(t, int32(-1), alu(6, false, -1, 1))
	require.Equal(t, int32(1), alu(7, false, -1, 1))
}

func TestWrappingAdd(t *testing.T) {
	require.Equal(t, uint32(0x80000000), uint32(alu(0, false, 0x7FFFFFFF, 1)))
}

func TestShiftUsesOnlyLow5Bits(t *testing.T) {
	// Shift by 32 must behave as shift by 0 (32 & 0x1F == 0), not as a
	// full-width shift.
	require.Equal(t, int32(1), alu(1, false, 1, 32))
}

func TestX0InvarianceAcrossWrites(t *testing.T) {
	c := New()
	// ADDI x0, x0, 5 attempts to write x0.
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 0, 0, 0, 5))
	require.NoError(t, c.Step())
	require.Equal(t, uint32(0), c.Regs().Read(0))
}

func TestPCAdvancesByFourOffBranch(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 5)) // addi x1, x0, 5
	require.NoError(t, c.Step())
	require.Equal(t, uint32(4), c.PC())
}

func TestAddiLoadsImmediateIntoRegister(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 5))
	require.NoError(t, c.Step())
	require.Equal(t, uint32(5), c.Regs().Read(1))
}

func TestAddRegisterRegister(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 2))
	c.Mem().WriteAligned(4, encodeI(OpcodeOpImm, 2, 0, 0, 3))
	c.Mem().WriteAligned(8, encodeR(OpcodeOp, 3, 0, 1, 2, 0))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step())
	}
	require.Equal(t, uint32(5), c.Regs().Read(3))
}

func TestSubRegisterRegister(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 10))
	c.Mem().WriteAligned(4, encodeI(OpcodeOpImm, 2, 0, 0, 3))
	c.Mem().WriteAligned(8, encodeR(OpcodeOp, 3, 0, 1, 2, 0x20))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step())
	}
	require.Equal(t, uint32(7), c.Regs().Read(3))
}

func TestBranchTakenJumpsByImmediate(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeB(funct3BEQ, 0, 0, 8)) // beq x0, x0, +8
	require.NoError(t, c.Step())
	require.Equal(t, uint32(8), c.PC())
}

func TestBranchNotTakenFallsThrough(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 1)) // addi x1,x0,1
	c.Mem().WriteAligned(4, encodeB(funct3BEQ, 1, 0, 16))
	require.NoError(t, c.Step())
	require.NoError(t, c.Step())
	require.Equal(t, uint32(8), c.PC())
}

func TestJALWritesLinkAndJumps(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeJ(1, 100))
	require.NoError(t, c.Step())
	require.Equal(t, uint32(4), c.Regs().Read(1))
	require.Equal(t, uint32(100), c.PC())
}

func TestJALRClearsLowBit(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 7)) // addi x1, x0, 7
	c.Mem().WriteAligned(4, encodeI(OpcodeJALR, 2, 0, 1, 0))  // jalr x2, x1, 0
	require.NoError(t, c.Step())
	require.NoError(t, c.Step())
	require.Equal(t, uint32(6), c.PC()) // (7+0) & ~1 == 6
}

func TestLUILoadsUpperImmediate(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeU(OpcodeLUI, 1, int32(0x12345000)))
	require.NoError(t, c.Step())
	require.Equal(t, uint32(0x12345000), c.Regs().Read(1))
}

func TestAUIPCAddsToPC(t *testing.T) {
	c := New()
	c.Reset(0x1000)
	c.Mem().WriteAligned(0x1000, encodeU(OpcodeAUIPC, 1, int32(0x2000)))
	require.NoError(t, c.Step())
	require.Equal(t, uint32(0x3000), c.Regs().Read(1))
}

func TestLoadStoreRoundTrip(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, encodeI(OpcodeOpImm, 1, 0, 0, 0x100)) // addi x1,x0,0x100
	c.Mem().WriteAligned(4, encodeI(OpcodeOpImm, 2, 0, 0, 7))     // addi x2,x0,7
	c.Mem().WriteAligned(8, encodeS(1, 2, 0))                     // sw x2, 0(x1)
	c.Mem().WriteAligned(12, encodeI(OpcodeLoad, 3, 2, 1, 0))     // lw x3, 0(x1)
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Step())
	}
	require.Equal(t, uint32(7), c.Regs().Read(3))
}

func TestIllegalOpcodeStops(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, 0x7F) // opcode 0x7F is not a supported class
	require.ErrorIs(t, c.Step(), ErrIllegalInstruction)
}

func TestSystemHalts(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, OpcodeSystem) // ECALL: funct3=0, funct7=0
	require.ErrorIs(t, c.Step(), ErrHalt)
}

func TestRunStopsOnIllegalFetchAfterOneNop(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, 0x00000013) // ADDI x0,x0,0
	steps, err := c.Run(context.Background(), 0)
	require.Error(t, err)
	require.Equal(t, 2, steps)
}

func TestRunRespectsStepBudget(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, 0x00000013)
	c.Mem().WriteAligned(4, 0x00000013)
	steps, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, steps)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	c := New()
	c.Mem().WriteAligned(0, 0x00000013)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps, err := c.Run(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, steps)
}
