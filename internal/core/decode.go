package core

// The following constants define the RV32I opcode field values (bits
// [6:0] of the instruction word) for the opcode classes this
// simulator supports.
const (
	OpcodeLoad    = uint32(0b0000011)
	OpcodeStore   = uint32(0b0100011)
	OpcodeBranch  = uint32(0b1100011)
	OpcodeJALR    = uint32(0b1100111)
	OpcodeMiscMem = uint32(0b0001111)
	OpcodeJAL     = uint32(0b1101111)
	OpcodeOpImm   = uint32(0b0010011)
	OpcodeOp      = uint32(0b0110011)
	OpcodeSystem  = uint32(0b1110011)
	OpcodeAUIPC   = uint32(0b0010111)
	OpcodeLUI     = uint32(0b0110111)
)

// funct7 value selecting the "alternate" ALU operation (SUB instead
// of ADD, SRA instead of SRL) on both OP and OP-IMM.
const funct7Alt = uint32(0x20)

// Fields holds the decoded fields of a 32-bit instruction word, plus
// all five candidate immediates. Only the immediate matching the
// instruction's format is meaningful for a given opcode; the rest are
// left as computed since selecting one is cheaper than branching
// during decode.
type Fields struct {
	Opcode uint32
	RD     uint32
	RS1    uint32
	RS2    uint32
	Funct3 uint32
	Funct7 uint32

	ImmI int32
	ImmS int32
	ImmB int32
	ImmJ int32
	ImmU int32
}

// Decode splits a 32-bit instruction word into its opcode/register/
// funct fields and reconstructs all five sign-extended immediates.
func Decode(inst uint32) Fields {
	return Fields{
		Opcode: inst & 0x7F,
		RD:     (inst >> 7) & 0x1F,
		RS1:    (inst >> 15) & 0x1F,
		RS2:    (inst >> 20) & 0x1F,
		Funct3: (inst >> 12) & 0x7,
		Funct7: (inst >> 25) & 0x7F,

		ImmI: decodeImmI(inst),
		ImmS: decodeImmS(inst),
		ImmB: decodeImmB(inst),
		ImmJ: decodeImmJ(inst),
		ImmU: decodeImmU(inst),
	}
}

// decodeImmI reconstructs the I-type immediate: sext(inst[31:20]).
func decodeImmI(inst uint32) int32 {
	return int32(inst) >> 20
}

// decodeImmS reconstructs the S-type immediate:
// sext(inst[31:25] ++ inst[11:7]).
func decodeImmS(inst uint32) int32 {
	v := inst & 0xFE000000
	v |= (inst & 0x00000F80) << 13
	return int32(v) >> 20
}

// decodeImmB reconstructs the B-type immediate:
// sext(inst[31] ++ inst[7] ++ inst[30:25] ++ inst[11:8] ++ 0), 13 bits.
func decodeImmB(inst uint32) int32 {
	v := inst & 0x80000000
	v |= (inst & 0x7E000000) >> 1
	v |= (inst & 0x00000F00) << 12
	v |= (inst & 0x00000080) << 23
	return int32(v) >> 19
}

// decodeImmJ reconstructs the J-type immediate:
// sext(inst[31] ++ inst[19:12] ++ inst[20] ++ inst[30:21] ++ 0), 21 bits.
func decodeImmJ(inst uint32) int32 {
	v := inst & 0x80000000
	v |= (inst & 0x7FE00000) >> 9
	v |= (inst & 0x00100000) << 2
	v |= (inst & 0x000FF000) << 11
	return int32(v) >> 11
}

// decodeImmU reconstructs the U-type immediate: inst[31:12] ++ 0^12.
// Already a full 32-bit value; no sign extension is needed beyond the
// natural int32 reinterpretation of the top bit.
func decodeImmU(inst uint32) int32 {
	return int32(inst & 0xFFFFF000)
}
