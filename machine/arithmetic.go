package machine

import (
	"fmt"

	"github.com/tasmlang/tasm/tape"
)

// modify reads cell[a], applies fn(cell.Data, cursor.Data), and writes
// the result back, preserving dtype.
func (m *Machine) modify(c tape.Cell, fn func(dst, src uint32) (uint32, error)) error {
	addr, err := m.resolveAddr(c)
	if err != nil {
		return err
	}
	dst, err := m.Tape.Read(addr)
	if err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	result, err := fn(dst.Data, m.Cursor.Data)
	if err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	dst.Data = result
	if err := m.Tape.Write(addr, dst); err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	m.Cursor.Pos++
	return nil
}

func opAnd(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst & src, nil })
}

func opOr(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst | src, nil })
}

func opXor(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst ^ src, nil })
}

// opNot is a logical not (0 -> 1, anything else -> 0), not a bitwise
// complement, despite the mnemonic.
func opNot(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, _ uint32) (uint32, error) {
		if dst == 0 {
			return 1, nil
		}
		return 0, nil
	})
}

func opLShift(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst << src, nil })
}

func opRShift(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst >> src, nil })
}

func opAdd(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst + src, nil })
}

func opSub(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst - src, nil })
}

func opMul(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) { return dst * src, nil })
}

func opDiv(m *Machine, c tape.Cell) error {
	return m.modify(c, func(dst, src uint32) (uint32, error) {
		if src == 0 {
			return 0, ErrArithmetic
		}
		return dst / src, nil
	})
}
