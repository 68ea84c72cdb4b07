package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Usage = "assemble, disassemble, and run chip8 programs"
	app.Commands = []cli.Command{
		cmdAsm,
		cmdDisasm,
		cmdEmu,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
