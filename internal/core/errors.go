package core

import "errors"

// The following errors may be returned by (*Core).Step and (*Core).Run.
var (
	// ErrIllegalInstruction indicates that the fetched word's opcode
	// or a sub-field combination (funct3/funct7) is not one of the
	// opcode classes this simulator supports. Side effects caused by
	// instructions executed before this one are left intact.
	ErrIllegalInstruction = errors.New("core: illegal instruction")

	// ErrHalt indicates that an ECALL or EBREAK instruction was
	// fetched. Like ErrIllegalInstruction this stops execution, but
	// callers that want to distinguish "program asked to stop" from
	// "program did something the simulator can't interpret" can test
	// for this with errors.Is.
	ErrHalt = errors.New("core: halted (ecall/ebreak)")
)
