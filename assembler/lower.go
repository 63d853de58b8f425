package assembler

import (
	"fmt"

	"github.com/tasmlang/tasm/tape"
)

// sizeOfLine validates a parsed instruction's operand shape against its
// mnemonic and reports how many tape cells it will lower to, without
// touching the label table (sizes never depend on label resolution, which
// is what makes a single linear pass 1 sufficient to fix every address).
func sizeOfLine(mnemonic, op1Raw, op2Raw string, lineNo int) (uint32, error) {
	if _, ok := zeroOpMnemonics[mnemonic]; ok {
		if op1Raw != "" || op2Raw != "" {
			return 0, fmt.Errorf("line %d: %s takes no operands: %w", lineNo, mnemonic, ErrMalformedOperand)
		}
		return 1, nil
	}
	if _, ok := singleOpMnemonics[mnemonic]; ok {
		if op1Raw == "" || op2Raw != "" {
			return 0, fmt.Errorf("line %d: %s takes exactly one operand: %w", lineNo, mnemonic, ErrMalformedOperand)
		}
		if _, err := parseOperand1(op1Raw); err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		return 1, nil
	}
	if _, ok := twoOpMnemonics[mnemonic]; ok {
		if op1Raw == "" || op2Raw == "" {
			return 0, fmt.Errorf("line %d: %s takes two operands: %w", lineNo, mnemonic, ErrMalformedOperand)
		}
		if _, err := parseOperand1(op1Raw); err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		op2, err := parseOperand2(op2Raw)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if op2.kind == op2String {
			return 0, fmt.Errorf("line %d: %s does not accept a string operand: %w", lineNo, mnemonic, ErrMalformedOperand)
		}
		return 2, nil
	}
	if mnemonic == "put" {
		if op1Raw == "" || op2Raw == "" {
			return 0, fmt.Errorf("line %d: put takes two operands: %w", lineNo, ErrMalformedOperand)
		}
		if _, err := parseOperand1(op1Raw); err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		op2, err := parseOperand2(op2Raw)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		switch op2.kind {
		case op2String:
			if len(op2.str) == 0 {
				return 0, fmt.Errorf("line %d: empty string literal: %w", lineNo, ErrMalformedOperand)
			}
			return uint32(3 * len(op2.str)), nil
		case op2Bracketed:
			return 2, nil
		default:
			return 3, nil
		}
	}
	return 0, fmt.Errorf("line %d: unknown mnemonic %q: %w", lineNo, mnemonic, ErrUnknownMnemonic)
}

// resolveOperand1 turns a first operand's raw text into the addressing
// mode and address a micro-op cell carries, chasing a label through the
// now-complete label table.
func (a *Assembler) resolveOperand1(raw string, lineNo int) (tape.AddrMode, uint32, error) {
	op1, err := parseOperand1(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: %w", lineNo, err)
	}
	switch op1.kind {
	case op1Immediate:
		return tape.Immediate, op1.addr, nil
	case op1Indirect:
		return tape.Indirect, op1.addr, nil
	default: // op1Label
		target, ok := a.labels[op1.label]
		if !ok {
			return 0, 0, fmt.Errorf("line %d: label %q: %w", lineNo, op1.label, ErrUndefinedLabel)
		}
		return tape.Immediate, target, nil
	}
}

// emit writes c at addr. The overflow path is defensive: pass 1 already
// bounds-checks every address before pass 2 ever calls emit.
func (a *Assembler) emit(lineNo int, addr uint32, c tape.Cell) error {
	if err := a.tape.Write(addr, c); err != nil {
		return fmt.Errorf("line %d: %w", lineNo, ErrInstructionOverflow)
	}
	return nil
}

// lower emits pl's micro-op cells. Called only once every label is known
// (pass 2).
func (a *Assembler) lower(pl parsedLine) error {
	if op, ok := zeroOpMnemonics[pl.mnemonic]; ok {
		return a.emit(pl.lineNo, pl.addr, tape.Cell{Op: op})
	}
	if op, ok := singleOpMnemonics[pl.mnemonic]; ok {
		mode, addr, err := a.resolveOperand1(pl.op1Raw, pl.lineNo)
		if err != nil {
			return err
		}
		return a.emit(pl.lineNo, pl.addr, tape.Cell{Op: op, Data: addr, Mode: mode})
	}
	if op, ok := twoOpMnemonics[pl.mnemonic]; ok {
		mode, addr, err := a.resolveOperand1(pl.op1Raw, pl.lineNo)
		if err != nil {
			return err
		}
		op2, err := parseOperand2(pl.op2Raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", pl.lineNo, err)
		}
		if err := a.emit(pl.lineNo, pl.addr, tape.Cell{Op: tape.OpRead, Data: op2.addr}); err != nil {
			return err
		}
		return a.emit(pl.lineNo, pl.addr+1, tape.Cell{Op: op, Data: addr, Mode: mode})
	}
	if pl.mnemonic == "put" {
		return a.lowerPut(pl)
	}
	return fmt.Errorf("line %d: unknown mnemonic %q: %w", pl.lineNo, pl.mnemonic, ErrUnknownMnemonic)
}

// lowerPut implements the three `put` shapes: a string literal (one
// NONE/READ/WRITE triple per byte), a bracketed address (READ;WRITE,
// identical to mov), or a bare numeral literal (a synthesized NONE cell
// plus READ;WRITE).
func (a *Assembler) lowerPut(pl parsedLine) error {
	mode, addr, err := a.resolveOperand1(pl.op1Raw, pl.lineNo)
	if err != nil {
		return err
	}
	op2, err := parseOperand2(pl.op2Raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", pl.lineNo, err)
	}

	switch op2.kind {
	case op2String:
		for i, ch := range []byte(op2.str) {
			base := pl.addr + uint32(i)*3
			if err := a.emit(pl.lineNo, base, tape.Cell{Op: tape.OpNone, Data: uint32(ch), DType: tape.DTypeCharacter}); err != nil {
				return err
			}
			if err := a.emit(pl.lineNo, base+1, tape.Cell{Op: tape.OpRead, Data: base}); err != nil {
				return err
			}
			if err := a.emit(pl.lineNo, base+2, tape.Cell{Op: tape.OpWrite, Data: addr + uint32(i), Mode: mode}); err != nil {
				return err
			}
		}
		return nil
	case op2Bracketed:
		if err := a.emit(pl.lineNo, pl.addr, tape.Cell{Op: tape.OpRead, Data: op2.addr}); err != nil {
			return err
		}
		return a.emit(pl.lineNo, pl.addr+1, tape.Cell{Op: tape.OpWrite, Data: addr, Mode: mode})
	default: // op2Bare: compile-time literal
		lit := pl.addr
		if err := a.emit(pl.lineNo, lit, tape.Cell{Op: tape.OpNone, Data: op2.addr, DType: tape.DTypeNumeric}); err != nil {
			return err
		}
		if err := a.emit(pl.lineNo, lit+1, tape.Cell{Op: tape.OpRead, Data: lit}); err != nil {
			return err
		}
		return a.emit(pl.lineNo, lit+2, tape.Cell{Op: tape.OpWrite, Data: addr, Mode: mode})
	}
}
