package assembler_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tasmlang/tasm/assembler"
	"github.com/tasmlang/tasm/machine"
	"github.com/tasmlang/tasm/tape"
)

// assemble is a t.Helper that assembles src and returns the tape and
// entry address, failing the test on any assembly error.
func assemble(t *testing.T, src string) (*tape.Tape, uint32) {
	t.Helper()
	tp := tape.New()
	entry, err := assembler.New(tp).Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return tp, entry
}

func run(t *testing.T, tp *tape.Tape, entry uint32) *machine.Machine {
	t.Helper()
	m := machine.New(tp, entry)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return m
}

func TestPutLiteral(t *testing.T) {
	tp, entry := assemble(t, "main:\nput 0x10 5\nhlt\n")
	run(t, tp, entry)
	c, _ := tp.Read(0x10)
	if c.Data != 5 {
		t.Errorf("cell[0x10] = %d, want 5", c.Data)
	}
}

func TestPutStringAndOut(t *testing.T) {
	src := fmt.Sprintf("main:\nput 0x%X \"Hi\\n\"\nout\nhlt\n", tape.DisplayBase)
	tp, entry := assemble(t, src)
	m := machine.New(tp, entry)
	var out bytes.Buffer
	m.Out = &out
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := out.String(), "Hi\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestAddBracketedSecondOperandReadsValue(t *testing.T) {
	tp, entry := assemble(t, "main:\nput 0x10 3\nput 0x11 4\nadd 0x10 [0x11]\nhlt\n")
	run(t, tp, entry)
	c, _ := tp.Read(0x10)
	if c.Data != 7 {
		t.Errorf("cell[0x10] = %d, want 7", c.Data)
	}
}

func TestCmpBareOperandsCompareCellContents(t *testing.T) {
	src := `main:
put 0x10 5
put 0x11 5
cmp 0x10 0x11
je eq
put 0x20 0
jmp end
eq:
put 0x20 1
end:
hlt
`
	tp, entry := assemble(t, src)
	run(t, tp, entry)
	c, _ := tp.Read(0x20)
	if c.Data != 1 {
		t.Errorf("expected the equal branch, cell[0x20] = %d, want 1", c.Data)
	}
}

func TestForwardLabelReference(t *testing.T) {
	// `jmp skip` refers to a label defined later in the source; the
	// two-pass assembler must resolve it.
	src := `main:
jmp skip
put 0x10 99
skip:
put 0x10 1
hlt
`
	tp, entry := assemble(t, src)
	run(t, tp, entry)
	c, _ := tp.Read(0x10)
	if c.Data != 1 {
		t.Errorf("cell[0x10] = %d, want 1 (jump should have skipped the first put)", c.Data)
	}
}

func TestCallRetRoundTrips(t *testing.T) {
	src := `main:
call sub
put 0x10 1
hlt
sub:
put 0x11 2
ret
`
	tp, entry := assemble(t, src)
	run(t, tp, entry)
	c1, _ := tp.Read(0x10)
	c2, _ := tp.Read(0x11)
	if c1.Data != 1 || c2.Data != 2 {
		t.Errorf("cell[0x10]=%d cell[0x11]=%d, want 1, 2", c1.Data, c2.Data)
	}
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	tp, entry := assemble(t, "main:\nput 0x10 4\nput 0x11 0\ndiv 0x10 0x11\nhlt\n")
	m := machine.New(tp, entry)
	if err := m.Run(); !errors.Is(err, machine.ErrArithmetic) {
		t.Errorf("expected ErrArithmetic, got %v", err)
	}
}

func TestMissingMainIsRejected(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble("start:\nhlt\n")
	if !errors.Is(err, assembler.ErrMissingMain) {
		t.Errorf("expected ErrMissingMain, got %v", err)
	}
}

func TestDuplicateLabelIsRejected(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble("main:\nhlt\nmain:\nhlt\n")
	if !errors.Is(err, assembler.ErrDuplicateLabel) {
		t.Errorf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestUndefinedLabelIsRejected(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble("main:\njmp nowhere\nhlt\n")
	if !errors.Is(err, assembler.ErrUndefinedLabel) {
		t.Errorf("expected ErrUndefinedLabel, got %v", err)
	}
}

func TestEmbeddedQuoteInStringIsRejected(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble(`main:
put 0x10 "a"b"
hlt
`)
	if !errors.Is(err, assembler.ErrMalformedOperand) {
		t.Errorf("expected ErrMalformedOperand, got %v", err)
	}
}

func TestTooManyOperandsIsRejected(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble("main:\nadd 0x10 0x11 0x12\nhlt\n")
	if !errors.Is(err, assembler.ErrMalformedOperand) {
		t.Errorf("expected ErrMalformedOperand, got %v", err)
	}
}

func TestZeroOperandMnemonicRejectsOperands(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble("main:\nhlt 0x10\n")
	if !errors.Is(err, assembler.ErrMalformedOperand) {
		t.Errorf("expected ErrMalformedOperand, got %v", err)
	}
}

func TestTwoOperandMnemonicRejectsStringOperand(t *testing.T) {
	tp := tape.New()
	_, err := assembler.New(tp).Assemble(`main:
add 0x10 "x"
hlt
`)
	if !errors.Is(err, assembler.ErrMalformedOperand) {
		t.Errorf("expected ErrMalformedOperand, got %v", err)
	}
}

func TestInstructionRegionOverflowIsDetected(t *testing.T) {
	var b strings.Builder
	b.WriteString("main:\n")
	// Each `out` lowers to exactly one cell; emitting more of them than
	// the instruction region holds must be caught during pass 1.
	for i := 0; i < int(tape.InstrTop-tape.InstrBase)+2; i++ {
		b.WriteString("out\n")
	}
	tp := tape.New()
	_, err := assembler.New(tp).Assemble(b.String())
	if !errors.Is(err, assembler.ErrInstructionOverflow) {
		t.Errorf("expected ErrInstructionOverflow, got %v", err)
	}
}

func TestIndirectFirstOperandChasesPointer(t *testing.T) {
	// cell[0x10] holds the real target address (0x11). `put [0x10] 7`
	// should land the literal 7 in cell[0x11], not cell[0x10].
	src := `main:
put 0x10 0x11
put [0x10] 7
hlt
`
	tp, entry := assemble(t, src)
	run(t, tp, entry)
	target, _ := tp.Read(0x11)
	if target.Data != 7 {
		t.Errorf("cell[0x11] = %d, want 7", target.Data)
	}
	ptr, _ := tp.Read(0x10)
	if ptr.Data != 0x11 {
		t.Errorf("cell[0x10] was mutated: %d, want unchanged 0x11", ptr.Data)
	}
}

func TestFallingOffTheEndSynthesizesHalt(t *testing.T) {
	tp, entry := assemble(t, "main:\nput 0x10 1\n")
	m := machine.New(tp, entry)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !m.Halted {
		t.Error("expected the synthesized trailing HALT to stop the machine")
	}
}
