package main

import (
	"time"

	"github.com/danhuel/chip8"
	"github.com/nsf/termbox-go"
)

// keyMap mirrors the standard CHIP-8 community keyboard layout, copied from
// the same 1234/qwer/asdf/zxcv arrangement the original termbox keypad used.
var keyMap = map[rune]chip8.Nibble{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

const escapeKey = '0'

// pollKeys polls termbox for key events and forwards them to the scheduler
// as KeyEvent messages until quit is closed. Terminal input only reports
// key-down, so each mapped key is released again a short moment later to
// satisfy the skip-if-not-pressed instructions.
func pollKeys(messages chan<- chip8.Message, quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		default:
		}

		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}
		if ev.Ch == escapeKey {
			return
		}

		key, ok := keyMap[ev.Ch]
		if !ok {
			continue
		}

		messages <- chip8.KeyEvent{Key: key, Status: chip8.KeyPressed}
		go func(k chip8.Nibble) {
			time.Sleep(100 * time.Millisecond)
			messages <- chip8.KeyEvent{Key: k, Status: chip8.KeyUp}
		}(key)
	}
}
