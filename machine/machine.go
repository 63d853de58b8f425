// Package machine implements the TASM tape machine: a fetch-execute loop
// over the micro-op set lowered by package assembler.
package machine

import (
	"errors"
	"io"
	"os"

	"github.com/tasmlang/tasm/tape"
)

// Runtime errors. Each is wrapped with the offending address via
// fmt.Errorf("...: %w", ...) before being returned from Run.
var (
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrArithmetic         = errors.New("division by zero")
)

// Cursor is the machine-wide instruction pointer plus its one-cell
// scratch accumulator.
type Cursor struct {
	Pos   uint32
	Data  uint32
	DType tape.DType
}

// Machine holds all process-wide execution state for one invocation: the
// tape, the cursor, and the halt signal. ZF/CF/DISP/STK live as tape
// cells, not as fields here, so that initialization and runtime mutation
// go through one code path.
type Machine struct {
	Tape   *tape.Tape
	Cursor Cursor
	Halted bool

	// Out receives the bytes OUT flushes. Defaults to os.Stdout.
	Out io.Writer
}

// New builds a Machine over t and establishes its initial state:
// cursor.pos = entry, DISP = display base, STK = stack top, ZF = CF = 0.
func New(t *tape.Tape, entry uint32) *Machine {
	m := &Machine{
		Tape:   t,
		Cursor: Cursor{Pos: entry},
		Out:    os.Stdout,
	}
	m.setReg(tape.DISP, tape.DisplayBase)
	m.setReg(tape.STK, tape.StackTop)
	m.setReg(tape.ZF, 0)
	m.setReg(tape.CF, 0)
	return m
}

func (m *Machine) reg(addr uint32) uint32 {
	c, _ := m.Tape.Read(addr)
	return c.Data
}

func (m *Machine) setReg(addr uint32, v uint32) {
	_ = m.Tape.Write(addr, tape.Cell{Data: v})
}

func (m *Machine) zf() bool      { return m.reg(tape.ZF) != 0 }
func (m *Machine) cf() bool      { return m.reg(tape.CF) != 0 }
func (m *Machine) disp() uint32  { return m.reg(tape.DISP) }
func (m *Machine) stk() uint32   { return m.reg(tape.STK) }

func (m *Machine) setZF(v bool) {
	if v {
		m.setReg(tape.ZF, 1)
	} else {
		m.setReg(tape.ZF, 0)
	}
}

func (m *Machine) setCF(v bool) {
	if v {
		m.setReg(tape.CF, 1)
	} else {
		m.setReg(tape.CF, 0)
	}
}

func (m *Machine) setDisp(v uint32) { m.setReg(tape.DISP, v) }
func (m *Machine) setStk(v uint32)  { m.setReg(tape.STK, v) }
