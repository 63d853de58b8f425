package assembler

import "github.com/tasmlang/tasm/tape"

// zeroOpMnemonics take no operands.
var zeroOpMnemonics = map[string]tape.Op{
	"hlt": tape.OpHalt,
	"out": tape.OpOut,
	"ret": tape.OpRet,
}

// singleOpMnemonics take exactly one (target/address) operand.
var singleOpMnemonics = map[string]tape.Op{
	"not":  tape.OpNot,
	"jmp":  tape.OpJump,
	"call": tape.OpCall,
	"je":   tape.OpJE,
	"jne":  tape.OpJNE,
	"jg":   tape.OpJG,
	"jge":  tape.OpJGE,
	"jl":   tape.OpJL,
	"jle":  tape.OpJLE,
}

// twoOpMnemonics take a destination/target first operand and a source
// second operand. mov and cmp end in WRITE/CMP; the rest modify the
// destination cell in place with the mnemonic's own opcode. Every one of
// these lowers uniformly to READ;OP, two cells, with no exceptions.
var twoOpMnemonics = map[string]tape.Op{
	"cmp": tape.OpCmp,
	"mov": tape.OpWrite,
	"and": tape.OpAnd,
	"or":  tape.OpOr,
	"xor": tape.OpXor,
	"lsh": tape.OpLShift,
	"rsh": tape.OpRShift,
	"add": tape.OpAdd,
	"sub": tape.OpSub,
	"mul": tape.OpMul,
	"div": tape.OpDiv,
}
