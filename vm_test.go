package chip8_test

import (
	"strings"
	"testing"
	"time"

	"github.com/danhuel/chip8"
	"github.com/danhuel/chip8/asm"
)

// createAndRun assembles source, loads it into a fresh VM, and ticks until
// the program halts (exit/break) or errors.
func createAndRun(t *testing.T, source string) *chip8.VM {
	t.Helper()

	parser := asm.NewParser(strings.NewReader(source))
	assembly, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	program, err := asm.Assemble(assembly)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	vm := chip8.NewVM(nil)
	if err := vm.LoadBytes(program); err != nil {
		t.Fatalf("load: %v", err)
	}

	for {
		running, err := vm.Tick()
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		if !running {
			break
		}
	}
	return vm
}

func TestAdd(t *testing.T) {
	vm := createAndRun(t, `
		ldb 2 1
		ldb 1 0
		add 1 2
		add 1 10
		add 2 4
		exit`)

	if vm.V[1] != 12 {
		t.Errorf("V1 = %d, want 12", vm.V[1])
	}
	if vm.V[2] != 5 {
		t.Errorf("V2 = %d, want 5", vm.V[2])
	}
}

func TestBranchJumpSkipNeq(t *testing.T) {
	vm := createAndRun(t, `
		ldb 1 0
		add 2 0
	loop:
		sne 1 4
		jmp exit
		add 1 1
		add 2 4
		jmp loop
	exit:
		exit`)

	if vm.V[1] != 4 {
		t.Errorf("V1 = %d, want 4", vm.V[1])
	}
	if vm.V[2] != 16 {
		t.Errorf("V2 = %d, want 16", vm.V[2])
	}
}

func TestCallReturn(t *testing.T) {
	vm := createAndRun(t, `
	main:
		ldb 1 0
		add 1 2
		call func1
		call func2
		call func1
		exit

	func1:
		add 1 4
		call func2
		ret

	func2:
		add 1 2
		ret`)

	if vm.V[1] != 16 {
		t.Errorf("V1 = %d, want 16", vm.V[1])
	}
}

func TestFontAddr(t *testing.T) {
	vm := createAndRun(t, `
		ldb 1 1
		ldf 1
		exit`)

	want := []byte{0x20, 0x60, 0x20, 0x20, 0x70}
	got := vm.Memory[vm.I : vm.I+5]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sprite byte %d = %#02x, want %#02x", i, got[i], want[i])
		}
	}
}

func TestDrawSimple(t *testing.T) {
	vm := createAndRun(t, `
		ldb 1 1
		ldf 1
		ldb 1 0
		ldb 2 0
		draw 1 2 5
		exit`)

	wantSet := map[int]byte{0: 0x20, 8: 0x60, 16: 0x20, 24: 0x20, 32: 0x70}
	for i, want := range wantSet {
		if vm.Graphics[i] != want {
			t.Errorf("graphics[%d] = %#02x, want %#02x", i, vm.Graphics[i], want)
		}
	}
	for i, b := range vm.Graphics {
		if _, ok := wantSet[i]; ok {
			continue
		}
		if b != 0 {
			t.Errorf("graphics[%d] = %#02x, want 0", i, b)
		}
	}
}

func TestDrawClipsAtRightEdge(t *testing.T) {
	vm := createAndRun(t, `
		ldb 1 1
		ldf 1
		ldb 1 60
		ldb 2 0
		draw 1 2 5
		exit`)

	wantSet := map[int]byte{7: 0x02, 15: 0x06, 23: 0x02, 31: 0x02, 39: 0x07}
	for i, want := range wantSet {
		if vm.Graphics[i] != want {
			t.Errorf("graphics[%d] = %#02x, want %#02x", i, vm.Graphics[i], want)
		}
	}
	// No pixels should land in column 0 of the following row. The low
	// nibble of every row of this sprite is zero, so these bytes would be
	// empty under wrapping as well; this checks the right-edge bytes only.
	for _, idx := range []int{8, 16, 24, 32, 40} {
		if vm.Graphics[idx] != 0 {
			t.Errorf("graphics[%d] = %#02x, want 0 (clipped, not wrapped)", idx, vm.Graphics[idx])
		}
	}
}

func TestDrawNoCollision(t *testing.T) {
	vm := createAndRun(t, `
		ldb 1 1
		ldf 1
		ldb 1 0
		ldb 2 0
		draw 1 2 5
		exit`)

	if vm.V[0xF] != 0 {
		t.Errorf("VF = %d, want 0", vm.V[0xF])
	}
}

func TestDrawCollision(t *testing.T) {
	vm := createAndRun(t, `
		ldb 1 1
		ldf 1
		ldb 1 0
		ldb 2 0
		draw 1 2 5
		ldb 1 1
		ldf 1
		ldb 1 0
		ldb 2 0
		draw 1 2 5
		exit`)

	if vm.V[0xF] != 1 {
		t.Errorf("VF = %d, want 1", vm.V[0xF])
	}
}

func TestDelayTimerStart(t *testing.T) {
	vm := newVM(t, `
		ldb 1 3
		ldb 3 0
		delay 1
		ldb 4 0
		ldb 4 0
		ldb 4 0
		ldb 4 0`)

	for i := 0; i < 3; i++ {
		if _, err := vm.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if vm.DelayTimer == 0 {
		t.Fatalf("DelayTimer = 0, want nonzero after starting it")
	}
}

func TestSoundTimerStart(t *testing.T) {
	vm := newVM(t, `
		ldb 1 3
		ldb 3 0
		sound 1
		ldb 4 0
		ldb 4 0
		ldb 4 0
		ldb 4 0`)

	for i := 0; i < 3; i++ {
		if _, err := vm.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if vm.SoundTimer == 0 {
		t.Fatalf("SoundTimer = 0, want nonzero after starting it")
	}
}

// newVM assembles and loads source without running it to completion,
// leaving the caller free to step it tick by tick.
func newVM(t *testing.T, source string) *chip8.VM {
	t.Helper()
	parser := asm.NewParser(strings.NewReader(source))
	assembly, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	program, err := asm.Assemble(assembly)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	vm := chip8.NewVM(nil)
	if err := vm.LoadBytes(program); err != nil {
		t.Fatalf("load: %v", err)
	}
	return vm
}

func TestSkipKeyPressed(t *testing.T) {
	vm := newVM(t, `
		ldb 1 0
		ldb 2 2
		ldb 3 0
		skp 2
		add 1 2
		skp 3
		add 1 4
		exit`)
	vm.SetKey(2, chip8.KeyPressed)

	for {
		running, err := vm.Tick()
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		if !running {
			break
		}
	}

	if vm.V[1] != 4 {
		t.Errorf("V1 = %d, want 4", vm.V[1])
	}
}

func TestSkipKeyNotPressed(t *testing.T) {
	vm := newVM(t, `
		ldb 1 0
		ldb 2 2
		ldb 3 0
		sknp 2
		add 1 2
		sknp 3
		add 1 4
		exit`)
	vm.SetKey(2, chip8.KeyPressed)

	for i := 0; i < 7; i++ {
		if _, err := vm.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if vm.V[1] != 2 {
		t.Errorf("V1 = %d, want 2", vm.V[1])
	}
}

func TestWaitKeyBlocksUntilPress(t *testing.T) {
	vm := newVM(t, `
		input 5`)

	if _, err := vm.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if vm.V[5] != 0 {
		t.Fatalf("V5 = %d before any key press, want unchanged", vm.V[5])
	}

	vm.SetKey(9, chip8.KeyPressed)
	if _, err := vm.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if vm.V[5] != 9 {
		t.Errorf("V5 = %d, want 9", vm.V[5])
	}
}

func TestSchedulerPaceAndPause(t *testing.T) {
	// A program that loops forever; the scheduler should keep it running
	// until explicitly paused, rather than racing through it.
	parser := asm.NewParser(strings.NewReader(`
	loop:
		add 1 1
		jmp loop`))
	assembly, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	program, err := asm.Assemble(assembly)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	vm := chip8.NewVM(nil)
	if err := vm.LoadBytes(program); err != nil {
		t.Fatalf("load: %v", err)
	}

	messages := make(chan chip8.Message)
	scheduler := chip8.NewScheduler(vm, messages, &chip8.SchedulerOptions{Hertz: 1000, Timeboxes: 100})

	done := make(chan *chip8.VM, 1)
	go scheduler.Run(done)

	time.Sleep(20 * time.Millisecond)
	messages <- chip8.Pause{}

	select {
	case owned := <-done:
		if owned.V[1] == 0 {
			t.Errorf("expected some ticks to have run before pause")
		}
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not return ownership after Pause")
	}
}
