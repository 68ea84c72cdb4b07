package chip8

import (
	"testing"
	"time"
)

// assembleInternal encodes instructions directly, bypassing the asm
// package, so this internal test file (package chip8) doesn't need to
// import chip8/asm (which already imports chip8 and would cycle).
func assembleInternal(instrs ...Instruction) []byte {
	buf := make([]byte, 0, len(instrs)*2)
	for _, in := range instrs {
		word := Encode(in)
		buf = append(buf, byte(word>>8), byte(word))
	}
	return buf
}

// newTimerVM builds a VM running "set V1=3; start delay (or sound) timer
// from V1; spin" and ticks it twice, enough to start the timer but not
// enough to elapse a decrement period.
func newTimerVM(t *testing.T, startOp Op) *VM {
	t.Helper()
	vm := NewVM(nil)
	prog := assembleInternal(
		Instruction{Op: OpSetRegByte, X: 1, KK: 3},
		Instruction{Op: startOp, X: 1},
		Instruction{Op: OpJump, NNN: StartAddr + 2*2},
	)
	if err := vm.LoadBytes(prog); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := vm.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	return vm
}

// TestDelayTimerDecrementsOnceWhenPeriodHasElapsed forces
// lastDelayDecrement two seconds into the past before each of two ticks,
// matching the reference interpreter's timer seed scenario: a timer is
// limited to one decrement per tick even when the forced elapsed time
// covers several periods, so two forced ticks drop the timer from 3 to 1,
// not lower.
func TestDelayTimerDecrementsOnceWhenPeriodHasElapsed(t *testing.T) {
	vm := newTimerVM(t, OpSetDelay)
	if vm.DelayTimer != 3 {
		t.Fatalf("DelayTimer = %d, want 3 after starting", vm.DelayTimer)
	}

	past := time.Now().Add(-2 * time.Second)
	vm.lastDelayDecrement = past
	if _, err := vm.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	vm.lastDelayDecrement = past
	if _, err := vm.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if vm.DelayTimer != 1 {
		t.Fatalf("DelayTimer = %d, want 1 after two forced decrements", vm.DelayTimer)
	}
}

// TestSoundTimerDecrementsOnceWhenPeriodHasElapsed is the sound-timer
// analog of TestDelayTimerDecrementsOnceWhenPeriodHasElapsed.
func TestSoundTimerDecrementsOnceWhenPeriodHasElapsed(t *testing.T) {
	vm := newTimerVM(t, OpSetSound)
	if vm.SoundTimer != 3 {
		t.Fatalf("SoundTimer = %d, want 3 after starting", vm.SoundTimer)
	}

	past := time.Now().Add(-2 * time.Second)
	vm.lastSoundDecrement = past
	if _, err := vm.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	vm.lastSoundDecrement = past
	if _, err := vm.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if vm.SoundTimer != 1 {
		t.Fatalf("SoundTimer = %d, want 1 after two forced decrements", vm.SoundTimer)
	}
}
