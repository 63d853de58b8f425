package assembler

import "errors"

// Assembly-time errors. Reading the source file itself is the CLI's job,
// so a missing file is reported by cmd/tasm directly rather than wrapped
// here.
var (
	ErrDuplicateLabel      = errors.New("duplicate label")
	ErrUndefinedLabel      = errors.New("undefined label")
	ErrMissingMain         = errors.New("missing main label")
	ErrMalformedOperand    = errors.New("malformed operand")
	ErrInstructionOverflow = errors.New("instruction region overflow")
	// ErrUnknownMnemonic covers assembly source outside the mnemonic
	// grammar; it reuses the same fatal, line-citing shape as the rest.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
)
