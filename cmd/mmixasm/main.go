// Command mmixasm assembles MMIXAL source into an MMO object file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/jac18281828/checksmix/asm"
	"github.com/jac18281828/checksmix/internal/tracelog"
	"github.com/jac18281828/checksmix/mmo"
)

func assembleFile(input, output string, verbose bool) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer in.Close()

	log := tracelog.FromEnv(tracelog.Off, os.Stderr)
	if verbose {
		log = tracelog.New(tracelog.Trace, os.Stderr)
	}

	res, errs := asm.Assemble(in, input, verbose, os.Stderr)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("%s: assembly failed with %d error(s)", input, len(errs))
	}
	log.Infof("%s: assembled %d segment(s), entry point #%X", input, len(res.Segments), res.EntryPoint)

	data := mmo.Encode(res.Segments, res.EntryPoint)

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

func defaultOutputName(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + ".mmo"
}

func main() {
	app := cli.NewApp()
	app.Name = "mmixasm"
	app.Usage = "assemble MMIXAL source into an MMO object file"
	app.ArgsUsage = "<input.mms> [output.mmo]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "trace assembly passes to stderr",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 {
			return fmt.Errorf("usage: mmixasm %s", app.ArgsUsage)
		}
		input := c.Args().Get(0)
		output := c.Args().Get(1)
		if output == "" {
			output = defaultOutputName(input)
		}
		return assembleFile(input, output, c.Bool("verbose"))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
