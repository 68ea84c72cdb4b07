package main

import (
	"fmt"
	"io/ioutil"

	"github.com/danhuel/chip8"
	"github.com/danhuel/chip8/asm"
	"github.com/urfave/cli"
)

var cmdDisasm = cli.Command{
	Name:   "disasm",
	Usage:  "Disassemble a chip8 rom into assembly mnemonics",
	Action: runDisasm,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "input",
			Value: "-",
			Usage: "Rom file to disassemble, or - for stdin.",
		},
		cli.StringFlag{
			Name:  "output",
			Value: "-",
			Usage: "Where to write the disassembly, or - for stdout.",
		},
		cli.BoolFlag{
			Name:  "ast",
			Usage: "Print the decoded Instruction structs instead of mnemonics.",
		},
	},
}

func runDisasm(c *cli.Context) error {
	in, err := openInput(c.String("input"))
	if err != nil {
		return err
	}
	defer in.Close()

	program, err := ioutil.ReadAll(in)
	if err != nil {
		return err
	}

	out, err := openOutput(c.String("output"))
	if err != nil {
		return err
	}
	defer out.Close()

	if !c.Bool("ast") {
		fmt.Fprintln(out, asm.Disassemble(program, chip8.DefaultLogger))
		return nil
	}

	for i := 0; i+1 < len(program); i += 2 {
		instr, ok := chip8.Decode(program[i], program[i+1])
		if !ok {
			fmt.Fprintf(out, "%04x: ; unknown opcode %02x%02x\n", i, program[i], program[i+1])
			continue
		}
		fmt.Fprintf(out, "%04x: %+v\n", i, instr)
	}
	return nil
}
