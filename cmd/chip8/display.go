package main

import (
	"time"

	"github.com/danhuel/chip8"
	"github.com/nsf/termbox-go"
)

// display renders GraphicsBufferSize snapshots pulled from a running
// Scheduler to the terminal via termbox, one cell per pixel.
type display struct {
	fg, bg termbox.Attribute
}

func newDisplay() (*display, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	return &display{fg: termbox.ColorDefault, bg: termbox.ColorDefault}, nil
}

func (d *display) Close() {
	termbox.Close()
}

// Render draws a 64x32 1bpp framebuffer, 8 bytes per row, to the terminal.
func (d *display) Render(buf [chip8.GraphicsBufferSize]byte) {
	const bytesPerRow = chip8.DisplayWidth / 8
	for row := 0; row < chip8.DisplayHeight; row++ {
		for col := 0; col < chip8.DisplayWidth; col++ {
			b := buf[row*bytesPerRow+col/8]
			on := b&(0x80>>uint(col%8)) != 0
			cell := ' '
			if on {
				cell = '█'
			}
			termbox.SetCell(col, row, cell, d.fg, d.bg)
		}
	}
	termbox.Flush()
}

// pollGraphics asks the scheduler for a framebuffer snapshot and renders it.
// It gives up without blocking the caller if the scheduler has already
// stopped consuming messages.
func pollGraphics(d *display, messages chan<- chip8.Message) {
	reply := make(chan [chip8.GraphicsBufferSize]byte, 1)
	select {
	case messages <- chip8.SendGraphics{Reply: reply}:
	default:
		return
	}
	select {
	case buf := <-reply:
		d.Render(buf)
	case <-time.After(50 * time.Millisecond):
	}
}
