package assembler

import (
	"fmt"
	"strings"

	"github.com/tasmlang/tasm/tape"
)

// Assembler lowers TASM source text into the instruction region of a
// tape.Tape across two passes: pass 1 fixes every address and builds the
// label table, pass 2 lowers each instruction now that labels resolve.
type Assembler struct {
	tape   *tape.Tape
	labels labelTable
}

// New returns an Assembler that writes into t.
func New(t *tape.Tape) *Assembler {
	return &Assembler{tape: t, labels: make(labelTable)}
}

// Assemble lowers src and returns the entry address named by the `main`
// label. It fails closed on the first assembly-time error: DuplicateLabel,
// InstructionOverflow, MalformedOperand and UnknownMnemonic surface during
// pass 1, UndefinedLabel during pass 2, MissingMain once both passes
// complete without finding `main`.
func (a *Assembler) Assemble(src string) (uint32, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var parsed []parsedLine
	addr := uint32(tape.InstrBase)
	for i, raw := range lines {
		lineNo := i + 1
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := reLabelDef.FindStringSubmatch(line); m != nil {
			name := m[1]
			if _, exists := a.labels[name]; exists {
				return 0, fmt.Errorf("line %d: label %q: %w", lineNo, name, ErrDuplicateLabel)
			}
			a.labels[name] = addr
			parsed = append(parsed, parsedLine{kind: lineLabel, lineNo: lineNo, label: name})
			continue
		}

		mnemonic, rest := splitMnemonic(line)
		mnemonic = strings.ToLower(mnemonic)
		toks, err := splitOperands(rest)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(toks) > 2 {
			return 0, fmt.Errorf("line %d: too many operands: %w", lineNo, ErrMalformedOperand)
		}
		var op1Raw, op2Raw string
		if len(toks) > 0 {
			op1Raw = toks[0]
		}
		if len(toks) > 1 {
			op2Raw = toks[1]
		}

		size, err := sizeOfLine(mnemonic, op1Raw, op2Raw, lineNo)
		if err != nil {
			return 0, err
		}
		if addr > tape.InstrTop || uint64(addr)+uint64(size)-1 > tape.InstrTop {
			return 0, fmt.Errorf("line %d: %w", lineNo, ErrInstructionOverflow)
		}

		parsed = append(parsed, parsedLine{
			kind: lineInstruction, lineNo: lineNo,
			mnemonic: mnemonic, op1Raw: op1Raw, op2Raw: op2Raw,
			addr: addr, size: size,
		})
		addr += size
	}

	// Every program ends with a synthesized HALT, so falling off the end
	// of a label's body (rather than an explicit jmp/ret/hlt) still stops
	// the machine cleanly.
	if addr > tape.InstrTop {
		return 0, fmt.Errorf("line %d: %w", len(lines)+1, ErrInstructionOverflow)
	}
	parsed = append(parsed, parsedLine{kind: lineInstruction, lineNo: len(lines) + 1, mnemonic: "hlt", addr: addr, size: 1})

	for _, pl := range parsed {
		if pl.kind == lineLabel {
			continue
		}
		if err := a.lower(pl); err != nil {
			return 0, err
		}
	}

	entry, ok := a.labels["main"]
	if !ok {
		return 0, ErrMissingMain
	}
	return entry, nil
}
