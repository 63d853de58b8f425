package machine

import (
	"fmt"

	"github.com/tasmlang/tasm/tape"
)

// opHalt sets the halt signal. The loop exits without advancing pos.
func opHalt(m *Machine, c tape.Cell) error {
	m.Halted = true
	return nil
}

// opNone is an inert data literal placed by the assembler (e.g. the
// literal cell emitted by `put`). It is skipped with no side effects.
func opNone(m *Machine, c tape.Cell) error {
	m.Cursor.Pos++
	return nil
}

func opJump(m *Machine, c tape.Cell) error {
	addr, err := m.resolveAddr(c)
	if err != nil {
		return err
	}
	m.Cursor.Pos = addr
	return nil
}

func condJump(m *Machine, c tape.Cell, taken bool) error {
	if taken {
		addr, err := m.resolveAddr(c)
		if err != nil {
			return err
		}
		m.Cursor.Pos = addr
		return nil
	}
	m.Cursor.Pos++
	return nil
}

func opJE(m *Machine, c tape.Cell) error  { return condJump(m, c, m.zf()) }
func opJNE(m *Machine, c tape.Cell) error { return condJump(m, c, !m.zf()) }
func opJG(m *Machine, c tape.Cell) error  { return condJump(m, c, !m.zf() && !m.cf()) }
func opJGE(m *Machine, c tape.Cell) error { return condJump(m, c, !m.cf()) }
func opJL(m *Machine, c tape.Cell) error  { return condJump(m, c, m.cf()) }
func opJLE(m *Machine, c tape.Cell) error { return condJump(m, c, m.zf() || m.cf()) }

// opCall pushes the return address and jumps. STK is a cell-backed
// register; the stack grows from high to low.
func opCall(m *Machine, c tape.Cell) error {
	addr, err := m.resolveAddr(c)
	if err != nil {
		return err
	}
	stk := m.stk()
	if stk == tape.StackBase {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, ErrStackOverflow)
	}
	if err := m.Tape.Write(stk, tape.Cell{Data: m.Cursor.Pos + 1}); err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	m.setStk(stk - 1)
	m.Cursor.Pos = addr
	return nil
}

// opRet pops the return address. STK increments before the read.
func opRet(m *Machine, c tape.Cell) error {
	stk := m.stk() + 1
	if stk > tape.StackTop {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, ErrStackUnderflow)
	}
	frame, err := m.Tape.Read(stk)
	if err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	m.setStk(stk)
	m.Cursor.Pos = frame.Data
	return nil
}
