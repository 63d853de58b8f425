package machine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tasmlang/tasm/tape"
)

// dumpRegion pairs a region's bounds with the name of the dump file it
// belongs in.
type dumpRegion struct {
	file       string
	region     tape.Region
	base, top  uint32
}

var dumpRegions = []dumpRegion{
	{"__STORE_DUMP.tasm.txt", tape.RegionStorage, tape.StorageBase, tape.StorageTop},
	{"__DISPLAY_DUMP.tasm.txt", tape.RegionDisplay, tape.DisplayBase, tape.DisplayTop},
	{"__INSTRUCTION_DUMP.tasm.txt", tape.RegionInstructions, tape.InstrBase, tape.InstrTop},
}

// WriteDumps writes the three memory-dump files into dir, one line per
// cell in the corresponding region.
func WriteDumps(t *tape.Tape, dir string) error {
	for _, dr := range dumpRegions {
		if err := writeDumpFile(t, dir, dr); err != nil {
			return err
		}
	}
	return nil
}

func writeDumpFile(t *tape.Tape, dir string, dr dumpRegion) error {
	path := filepath.Join(dir, dr.file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for addr := dr.base; addr <= dr.top; addr++ {
		cell, err := t.Read(addr)
		if err != nil {
			return fmt.Errorf("reading 0x%08X: %w", addr, err)
		}
		dtype := 0
		if cell.DType == tape.DTypeCharacter {
			dtype = 1
		}
		offset := addr - dr.base
		fmt.Fprintf(w, "0x%08X [%s+%010d] 0x%02X 0x%08X %d\n",
			addr, dr.region, offset, uint8(cell.Op), cell.Data, dtype)
	}
	return w.Flush()
}
