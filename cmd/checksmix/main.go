// Command checksmix assembles and executes an MMIXAL program, printing
// its initial and final machine state, or drops into the mmixdbg REPL
// when run with -i/--interactive.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jac18281828/checksmix/asm"
	"github.com/jac18281828/checksmix/internal/tracelog"
	"github.com/jac18281828/checksmix/isa"
	"github.com/jac18281828/checksmix/mmixdbg"
)

func main() {
	var interactive bool
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "checksmix <program_file>",
		Short: "assemble and execute an MMIXAL program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], interactive, verbose)
		},
	}

	// interactiveFlags is built directly against pflag rather than through
	// cobra's Flags() wrapper, then merged in, so checksmix exercises
	// spf13/pflag in its own right and not only as cobra's transitive dep.
	interactiveFlags := pflag.NewFlagSet("checksmix", pflag.ContinueOnError)
	interactiveFlags.BoolVarP(&interactive, "interactive", "i", false, "drop into the mmixdbg REPL instead of free-running")
	interactiveFlags.BoolVarP(&verbose, "verbose", "v", false, "trace assembly passes to stderr")
	rootCmd.Flags().AddFlagSet(interactiveFlags)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string, interactive, verbose bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	log := tracelog.FromEnv(tracelog.Off, os.Stderr)
	if verbose {
		log = tracelog.New(tracelog.Trace, os.Stderr)
	}

	res, errs := asm.Assemble(f, path, verbose, os.Stderr)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("%s: assembly failed with %d error(s)", path, len(errs))
	}
	log.Infof("%s: assembled, entry point #%X", path, res.EntryPoint)

	if interactive {
		host := mmixdbg.NewHost(res, log)
		host.VM().Stdout = os.Stdout
		host.VM().Stderr = os.Stderr
		host.RunCommands(os.Stdin, os.Stdout, true)
		return nil
	}

	host := mmixdbg.NewHost(res, log)
	machine := host.VM()
	machine.Stdout = os.Stdout
	machine.Stderr = os.Stderr

	fmt.Printf("initial state: PC=#%016X\n", machine.PC)
	if err := machine.Run(); err != nil {
		return err
	}
	fmt.Printf("final state: PC=#%016X, halted=%v, code=%d\n", machine.PC, machine.Halted, machine.HaltCode)
	for i := 0; i < 256; i++ {
		if v := machine.GetReg(byte(i)); v != 0 {
			fmt.Printf("  $%-3d #%016X\n", i, v)
		}
	}
	for i, name := range isa.SpecialNames {
		if v := machine.Special[i]; v != 0 {
			fmt.Printf("  %-4s #%016X\n", name, v)
		}
	}
	return nil
}
