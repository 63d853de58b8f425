package machine

import (
	"fmt"

	"github.com/tasmlang/tasm/tape"
)

// opRead loads cell[a] into the cursor accumulator.
func opRead(m *Machine, c tape.Cell) error {
	addr, err := m.resolveAddr(c)
	if err != nil {
		return err
	}
	src, err := m.Tape.Read(addr)
	if err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	m.Cursor.Data = src.Data
	m.Cursor.DType = src.DType
	m.Cursor.Pos++
	return nil
}

// opWrite stores the cursor accumulator into cell[a], preserving that
// cell's opcode field. The assembler emits no WRITE aimed at the micro-op
// stream, but a program may target any address up to the instruction
// region's top; there only the operand and dtype change. DISP advances if
// the write lands in the display region at or beyond its current value.
func opWrite(m *Machine, c tape.Cell) error {
	addr, err := m.resolveAddr(c)
	if err != nil {
		return err
	}
	dst, err := m.Tape.Read(addr)
	if err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	dst.Data = m.Cursor.Data
	dst.DType = m.Cursor.DType
	if err := m.Tape.Write(addr, dst); err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}

	if region, err := tape.RegionOf(addr); err == nil && region == tape.RegionDisplay && addr >= m.disp() {
		m.setDisp(addr + 1)
	}
	m.Cursor.Pos++
	return nil
}

// opCmp sets ZF/CF by comparing cell[a] against the cursor accumulator.
func opCmp(m *Machine, c tape.Cell) error {
	addr, err := m.resolveAddr(c)
	if err != nil {
		return err
	}
	left, err := m.Tape.Read(addr)
	if err != nil {
		return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
	}
	m.setZF(left.Data == m.Cursor.Data)
	m.setCF(left.Data < m.Cursor.Data)
	m.Cursor.Pos++
	return nil
}
