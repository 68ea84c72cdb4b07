package main

import (
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danhuel/chip8"
	"github.com/urfave/cli"
)

var cmdEmu = cli.Command{
	Name:   "emu",
	Usage:  "Run a chip8 rom in a terminal display",
	Action: runEmu,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "file",
			Usage: "Rom file to run.",
		},
		cli.IntFlag{
			Name:  "hz",
			Value: chip8.DefaultHertz,
			Usage: "Instructions executed per second.",
		},
		cli.IntFlag{
			Name:  "timeboxes",
			Value: chip8.DefaultTimeboxes,
			Usage: "Number of timeboxes per second instructions are spread across.",
		},
		cli.IntFlag{
			Name:  "fps",
			Value: 60,
			Usage: "Frames per second to redraw the display.",
		},
	},
}

func runEmu(c *cli.Context) error {
	path := c.String("file")
	if path == "" {
		return cli.NewExitError("emu: --file is required", 2)
	}

	rom, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	vm := chip8.NewVM(nil)
	if err := vm.LoadBytes(rom); err != nil {
		return err
	}

	d, err := newDisplay()
	if err != nil {
		return err
	}
	defer d.Close()

	messages := make(chan chip8.Message)
	scheduler := chip8.NewScheduler(vm, messages, &chip8.SchedulerOptions{
		Hertz:     c.Int("hz"),
		Timeboxes: c.Int("timeboxes"),
	})

	done := make(chan *chip8.VM)
	go scheduler.Run(done)

	quit := make(chan struct{})
	go pollKeys(messages, quit)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	fps := c.Int("fps")
	if fps <= 0 {
		fps = 60
	}
	frame := time.NewTicker(time.Second / time.Duration(fps))
	defer frame.Stop()

	for {
		select {
		case <-frame.C:
			pollGraphics(d, messages)
		case <-sig:
			close(quit)
			messages <- chip8.Pause{}
			<-done
			return nil
		case <-done:
			close(quit)
			return nil
		}
	}
}
