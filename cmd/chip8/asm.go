package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/danhuel/chip8/asm"
	"github.com/urfave/cli"
)

var cmdAsm = cli.Command{
	Name:   "asm",
	Usage:  "Assemble a chip8 source file into a binary rom",
	Action: runAsm,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "input",
			Value: "-",
			Usage: "Source file to assemble, or - for stdin.",
		},
		cli.StringFlag{
			Name:  "output",
			Value: "-",
			Usage: "Where to write the assembled rom, or - for stdout.",
		},
		cli.BoolFlag{
			Name:  "ast",
			Usage: "Print the parsed instructions and labels instead of assembling.",
		},
	},
}

func runAsm(c *cli.Context) error {
	in, err := openInput(c.String("input"))
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := asm.NewParser(in).Parse()
	if err != nil {
		return err
	}

	if c.Bool("ast") {
		out, err := openOutput(c.String("output"))
		if err != nil {
			return err
		}
		defer out.Close()

		for i, instr := range a.Instructions {
			fmt.Fprintf(out, "%d: %+v\n", i, instr)
		}
		for label, idx := range a.Labels {
			fmt.Fprintf(out, "label %s -> %d\n", label, idx)
		}
		return nil
	}

	rom, err := asm.Assemble(a)
	if err != nil {
		return err
	}

	out, err := openOutput(c.String("output"))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.Write(rom)
	return err
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return ioutil.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
