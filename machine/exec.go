package machine

import (
	"fmt"

	"github.com/tasmlang/tasm/tape"
)

// opHandler executes one micro-op. The cell passed in is the instruction
// cell at the current cursor position (not yet advanced).
type opHandler func(*Machine, tape.Cell) error

var dispatch = map[tape.Op]opHandler{
	tape.OpNone:   opNone,
	tape.OpHalt:   opHalt,
	tape.OpJump:   opJump,
	tape.OpRead:   opRead,
	tape.OpWrite:  opWrite,
	tape.OpCmp:    opCmp,
	tape.OpJE:     opJE,
	tape.OpJNE:    opJNE,
	tape.OpJG:     opJG,
	tape.OpJGE:    opJGE,
	tape.OpJL:     opJL,
	tape.OpJLE:    opJLE,
	tape.OpAnd:    opAnd,
	tape.OpOr:     opOr,
	tape.OpXor:    opXor,
	tape.OpNot:    opNot,
	tape.OpLShift: opLShift,
	tape.OpRShift: opRShift,
	tape.OpAdd:    opAdd,
	tape.OpSub:    opSub,
	tape.OpMul:    opMul,
	tape.OpDiv:    opDiv,
	tape.OpCall:   opCall,
	tape.OpRet:    opRet,
	tape.OpOut:    opOut,
}

// Run executes micro-ops until HALT or a runtime error.
func (m *Machine) Run() error {
	for !m.Halted {
		if m.Cursor.Pos > tape.InstrTop {
			return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, tape.ErrOutOfBounds)
		}
		cell, err := m.Tape.Read(m.Cursor.Pos)
		if err != nil {
			return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
		}

		// Every opcode's operand is bounds-checked uniformly before
		// dispatch, regardless of whether that particular opcode uses it
		// as an address.
		if cell.Data > tape.InstrTop {
			return fmt.Errorf("at 0x%08X: operand 0x%08X: %w", m.Cursor.Pos, cell.Data, tape.ErrOutOfBounds)
		}

		handler, ok := dispatch[cell.Op]
		if !ok {
			return fmt.Errorf("at 0x%08X: opcode %d: %w", m.Cursor.Pos, cell.Op, ErrInvalidInstruction)
		}
		if err := handler(m, cell); err != nil {
			return err
		}
	}
	return nil
}

// resolveAddr turns a micro-op's address operand into the concrete tape
// address it should act on, chasing one pointer hop for Indirect cells.
func (m *Machine) resolveAddr(c tape.Cell) (uint32, error) {
	a := c.Data
	if c.Mode == tape.Immediate {
		return a, nil
	}
	real, err := m.Tape.Read(a)
	if err != nil {
		return 0, fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	return real.Data, nil
}
