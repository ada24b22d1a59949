// Command mmixdbg is a standalone entry point to the mmixdbg REPL,
// assembling the given MMIXAL source and dropping straight into an
// interactive debugging session.
package main

import (
	"fmt"
	"os"

	"github.com/jac18281828/checksmix/asm"
	"github.com/jac18281828/checksmix/internal/tracelog"
	"github.com/jac18281828/checksmix/mmixdbg"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: mmixdbg <program_file>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	log := tracelog.FromEnv(tracelog.Off, os.Stderr)
	res, errs := asm.Assemble(f, os.Args[1], false, nil)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	host := mmixdbg.NewHost(res, log)
	host.VM().Stdout = os.Stdout
	host.VM().Stderr = os.Stderr
	host.RunCommands(os.Stdin, os.Stdout, true)
}
