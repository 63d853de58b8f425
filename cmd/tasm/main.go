// Command tasm assembles and runs a single .tasm source file.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tasmlang/tasm/assembler"
	"github.com/tasmlang/tasm/machine"
	"github.com/tasmlang/tasm/tape"
)

func main() {
	log.SetFlags(0)

	app := &cli.App{
		Name:      "tasm",
		Usage:     "assemble and run a TASM program",
		ArgsUsage: "<path.tasm>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "memdump",
				Usage: "write __STORE_DUMP.tasm.txt, __DISPLAY_DUMP.tasm.txt and __INSTRUCTION_DUMP.tasm.txt on exit",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		if ec, ok := err.(cli.ExitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ERROR: expected exactly one source path")
		return cli.Exit("", 1)
	}
	path := c.Args().First()
	memdump := c.Bool("memdump")

	if strings.ToLower(filepath.Ext(path)) != ".tasm" {
		fmt.Fprintf(os.Stderr, "ERROR: %s: source file must have a .tasm extension\n", path)
		return cli.Exit("", 1)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		return cli.Exit("", 1)
	}

	t := tape.New()
	entry, err := assembler.New(t).Assemble(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		dumpIfRequested(memdump, t)
		return cli.Exit("", 1)
	}

	m := machine.New(t, entry)
	runErr := m.Run()
	dumpIfRequested(memdump, t)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "RUNTIME ERROR:", runErr)
		return cli.Exit("", 1)
	}
	return nil
}

// dumpIfRequested writes the three memory-dump files into the current
// directory once assembly has produced a tape to dump, whether or not the
// run that followed it succeeded. A file-not-found or bad-extension
// error, which precedes any tape mutation, never reaches here.
func dumpIfRequested(requested bool, t *tape.Tape) {
	if !requested {
		return
	}
	if err := machine.WriteDumps(t, "."); err != nil {
		log.Printf("writing memory dumps: %v", err)
	}
}
