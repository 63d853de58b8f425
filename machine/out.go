package machine

import (
	"fmt"

	"github.com/tasmlang/tasm/tape"
)

// opOut flushes the display buffer to m.Out. It is non-destructive: the
// display cells are left intact and DISP is not reset, so a later OUT
// re-emits the whole buffer.
func opOut(m *Machine, c tape.Cell) error {
	saved := m.Cursor.Pos + 1
	disp := m.disp()

	p := uint32(tape.DisplayBase)
	for p < tape.DisplayTop && p < disp {
		cell, err := m.Tape.Read(p)
		if err != nil {
			return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
		}

		switch cell.DType {
		case tape.DTypeCharacter:
			b := byte(cell.Data & 0xFF)
			if b == '\\' {
				next := p + 1
				if next < tape.DisplayTop && next < disp {
					esc, err := m.Tape.Read(next)
					if err != nil {
						return fmt.Errorf("at 0x%08X: %w", m.Cursor.Pos, err)
					}
					switch byte(esc.Data & 0xFF) {
					case 'n':
						fmt.Fprint(m.Out, "\n")
					case 'r':
						fmt.Fprint(m.Out, "\r")
					default:
						// escape consumed silently
					}
					p += 2
					continue
				}
			}
			fmt.Fprintf(m.Out, "%c", b)
		case tape.DTypeNumeric:
			fmt.Fprintf(m.Out, "%d", cell.Data)
		}
		p++
	}

	m.Cursor.Pos = saved
	return nil
}
