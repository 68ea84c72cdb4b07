// Copyright 2014 Eric Holmes.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import (
	"io"
	"log"
	"math/rand"
	"os"
	"time"
)

const (
	// MemSize is the size in bytes of the addressable memory space.
	MemSize = 4096
	// StartAddr is the load address of user programs. Addresses below
	// it are reserved for interpreter data, i.e. the font set.
	StartAddr = 0x200
	// RegisterCount is the number of general purpose Vx registers.
	RegisterCount = 16
	// StackSize is the depth of the call/return address stack.
	StackSize = 32
	// DisplayWidth and DisplayHeight are the framebuffer dimensions in
	// pixels.
	DisplayWidth  = 64
	DisplayHeight = 32
	// GraphicsBufferSize is the framebuffer size in bytes: one bit per
	// pixel, row-major, most significant bit first.
	GraphicsBufferSize = (DisplayWidth * DisplayHeight) / 8
	// KeyCount is the number of keys on the hex keypad.
	KeyCount = 16
)

// timeBetweenDecrement is the period of the 60Hz delay and sound timers.
var timeBetweenDecrement = time.Second / 60

// KeyStatus is the state of a single key on the hex keypad.
type KeyStatus int

const (
	KeyUp KeyStatus = iota
	KeyPressed
)

func (s KeyStatus) String() string {
	if s == KeyPressed {
		return "pressed"
	}
	return "up"
}

// Snapshot is a point-in-time, allocation-free copy of VM state suitable
// for a debugger or a disassembler trace to inspect without holding a
// reference into the live VM.
type Snapshot struct {
	V           [RegisterCount]byte
	PC          Addr12
	SP          byte
	I           Addr12
	DelayTimer  byte
	SoundTimer  byte
	Stack       [StackSize]Addr12
	KeyStatus   [KeyCount]KeyStatus
	Instruction Instruction
	HasNext     bool
}

// VM is a CHIP-8 virtual machine: memory, registers, timers, the
// framebuffer, and key state. A VM is not safe for concurrent use; Scheduler
// is the layer responsible for giving exactly one goroutine ownership of a
// VM at a time.
type VM struct {
	Memory [MemSize]byte
	V      [RegisterCount]byte
	I      Addr12
	PC     Addr12
	SP     byte
	Stack  [StackSize]Addr12

	Graphics [GraphicsBufferSize]byte

	DelayTimer byte
	SoundTimer byte

	delayRunning       bool
	lastDelayDecrement time.Time
	soundRunning       bool
	lastSoundDecrement time.Time

	KeyStatus  [KeyCount]KeyStatus
	waitForKey *Nibble

	// randByte is overridden in tests to make Rand deterministic; it
	// defaults to a package-level math/rand source.
	randByte func() byte

	Logger Logger
}

// DefaultLogger is the logger new VMs use when no Options.Logger is given.
// It writes VM trace messages to standard error; use SetOutput to redirect
// or discard them.
var DefaultLogger = log.New(os.Stderr, "chip8: ", log.LstdFlags)

// Logger is the narrow logging interface the VM and Scheduler depend on,
// satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Options configures a new VM. The zero value of Options selects every
// default.
type Options struct {
	// Logger receives trace and error messages. Defaults to
	// DefaultLogger.
	Logger Logger
	// RandByte overrides the source of randomness used by the Rand
	// instruction. Defaults to math/rand.
	RandByte func() byte
}

// DefaultOptions is the Options value used by NewVM(nil).
var DefaultOptions = &Options{
	Logger:   DefaultLogger,
	RandByte: func() byte { return byte(rand.Intn(256)) },
}

// NewVM constructs a VM with its font set loaded and PC at StartAddr. A nil
// options pointer, or zero-valued fields within one, fall back to
// DefaultOptions.
func NewVM(options *Options) *VM {
	if options == nil {
		options = DefaultOptions
	}
	vm := &VM{
		Logger:   options.Logger,
		randByte: options.RandByte,
	}
	if vm.Logger == nil {
		vm.Logger = DefaultLogger
	}
	if vm.randByte == nil {
		vm.randByte = DefaultOptions.RandByte
	}
	vm.Reset()
	return vm
}

// Reset clears all VM state back to its power-on condition and reloads the
// font set. Any previously loaded program is discarded.
func (vm *VM) Reset() {
	vm.Memory = [MemSize]byte{}
	vm.V = [RegisterCount]byte{}
	vm.I = 0
	vm.PC = StartAddr
	vm.SP = 0
	vm.Stack = [StackSize]Addr12{}
	vm.Graphics = [GraphicsBufferSize]byte{}
	vm.DelayTimer = 0
	vm.SoundTimer = 0
	vm.delayRunning = false
	vm.soundRunning = false
	vm.KeyStatus = [KeyCount]KeyStatus{}
	vm.waitForKey = nil
	copy(vm.Memory[FontStartAddr:], fontSet[:])
}

// Load resets the VM and reads a program from r into memory starting at
// StartAddr.
func (vm *VM) Load(r io.Reader) error {
	vm.Reset()
	n, err := r.Read(vm.Memory[StartAddr:])
	if err != nil && err != io.EOF {
		return err
	}
	vm.Logger.Printf("loaded %d bytes at %s", n, Addr12(StartAddr))
	return nil
}

// LoadBytes resets the VM and copies program into memory starting at
// StartAddr. It reports a *Chip8Error with Kind ErrROMTooLarge if program
// does not fit before the end of memory.
func (vm *VM) LoadBytes(program []byte) error {
	if StartAddr+len(program) > MemSize {
		return &Chip8Error{Kind: ErrROMTooLarge, PC: StartAddr}
	}
	vm.Reset()
	copy(vm.Memory[StartAddr:], program)
	return nil
}

// instruction decodes the instruction at the current PC without advancing
// it.
func (vm *VM) instruction() (Instruction, error) {
	if int(vm.PC)+1 >= MemSize {
		return Instruction{}, &Chip8Error{Kind: ErrMemoryOutOfBounds, PC: vm.PC}
	}
	hi := vm.Memory[vm.PC]
	lo := vm.Memory[vm.PC+1]
	instr, ok := Decode(hi, lo)
	if !ok {
		return Instruction{}, &Chip8Error{Kind: ErrUnknownOpcode, PC: vm.PC, Hi: hi, Lo: lo}
	}
	return instr, nil
}

// Tick executes a single fetch-decode-execute step and then decrements the
// timers if their period has elapsed. It reports running=false when the
// program explicitly halted (Exit or Break), and a non-nil error when the
// instruction stream could not be decoded or executed.
func (vm *VM) Tick() (running bool, err error) {
	if vm.waitForKey != nil {
		for i, status := range vm.KeyStatus {
			if status == KeyPressed {
				vm.V[int(*vm.waitForKey)] = byte(i)
				vm.waitForKey = nil
				break
			}
		}
		vm.decrementTimers()
		return true, nil
	}

	instr, err := vm.instruction()
	if err != nil {
		return false, err
	}
	vm.PC += 2

	running, err = vm.Execute(instr)
	if err != nil {
		return false, err
	}

	vm.decrementTimers()
	return running, nil
}

// Execute performs instr against VM state and reports whether execution
// should continue. Callers that want the fetch/PC-advance/timer behavior
// of normal operation should use Tick instead; Execute is exposed directly
// so a caller can apply a single Instruction without fetching it from
// memory.
func (vm *VM) Execute(instr Instruction) (bool, error) {
	switch instr.Op {
	case OpExit, OpBreak:
		return false, nil

	case OpClear:
		vm.Graphics = [GraphicsBufferSize]byte{}

	case OpReturn:
		if vm.SP == 0 {
			return false, &Chip8Error{Kind: ErrStackUnderflow, PC: vm.PC}
		}
		vm.SP--
		vm.PC = vm.Stack[vm.SP]

	case OpCall:
		if int(vm.SP) >= StackSize {
			return false, &Chip8Error{Kind: ErrStackOverflow, PC: vm.PC}
		}
		vm.Stack[vm.SP] = vm.PC
		vm.SP++
		vm.PC = instr.NNN

	case OpJump:
		vm.PC = instr.NNN

	case OpJumpOffset:
		vm.PC = Addr12(uint16(instr.NNN) + uint16(vm.V[0]))

	case OpSkipEq:
		if vm.V[instr.X] == instr.KK {
			vm.PC += 2
		}
	case OpSkipNeq:
		if vm.V[instr.X] != instr.KK {
			vm.PC += 2
		}
	case OpSkipRegEq:
		if vm.V[instr.X] == vm.V[instr.Y] {
			vm.PC += 2
		}
	case OpSkipRegNeq:
		if vm.V[instr.X] != vm.V[instr.Y] {
			vm.PC += 2
		}

	case OpSetRegByte:
		vm.V[instr.X] = instr.KK
	case OpAdd:
		vm.V[instr.X] += instr.KK
	case OpCopy:
		vm.V[instr.X] = vm.V[instr.Y]
	case OpOr:
		vm.V[instr.X] |= vm.V[instr.Y]
	case OpAnd:
		vm.V[instr.X] &= vm.V[instr.Y]
	case OpXor:
		vm.V[instr.X] ^= vm.V[instr.Y]

	case OpAddCarry:
		sum := uint16(vm.V[instr.X]) + uint16(vm.V[instr.Y])
		vm.V[instr.X] = byte(sum)
		vm.V[0xF] = boolByte(sum > 0xFF)
	case OpSubBorrow:
		vx, vy := vm.V[instr.X], vm.V[instr.Y]
		vm.V[instr.X] = vx - vy
		vm.V[0xF] = boolByte(vx >= vy)
	case OpSubNBorrow:
		vx, vy := vm.V[instr.X], vm.V[instr.Y]
		vm.V[instr.X] = vy - vx
		vm.V[0xF] = boolByte(vy >= vx)
	case OpShr:
		vx := vm.V[instr.X]
		vm.V[instr.X] = vx >> 1
		vm.V[0xF] = vx & 0x01
	case OpShl:
		vx := vm.V[instr.X]
		vm.V[instr.X] = vx << 1
		vm.V[0xF] = boolByte(vx&0x80 != 0)

	case OpSetI:
		vm.I = instr.NNN
	case OpAddI:
		vm.I = Addr12(uint16(vm.I) + uint16(vm.V[instr.X]))
	case OpFontAddr:
		vm.I = Addr12(FontStartAddr + int(vm.V[instr.X])*5)

	case OpRand:
		vm.V[instr.X] = vm.randByte() & instr.KK

	case OpDraw:
		vm.draw(instr.X, instr.Y, instr.N)

	case OpSkipKey:
		if vm.KeyStatus[vm.V[instr.X]&0x0F] == KeyPressed {
			vm.PC += 2
		}
	case OpSkipNotKey:
		if vm.KeyStatus[vm.V[instr.X]&0x0F] == KeyUp {
			vm.PC += 2
		}
	case OpWaitKey:
		x := instr.X
		vm.waitForKey = &x

	case OpGetDelay:
		vm.V[instr.X] = vm.DelayTimer
	case OpSetDelay:
		vm.DelayTimer = vm.V[instr.X]
	case OpSetSound:
		vm.SoundTimer = vm.V[instr.X]

	case OpBcd:
		value := vm.V[instr.X]
		vm.Memory[vm.I] = value / 100
		vm.Memory[vm.I+1] = (value / 10) % 10
		vm.Memory[vm.I+2] = value % 10
	case OpMemWrite:
		for r := 0; r <= int(instr.X); r++ {
			vm.Memory[int(vm.I)+r] = vm.V[r]
		}
	case OpMemRead:
		for r := 0; r <= int(instr.X); r++ {
			vm.V[r] = vm.Memory[int(vm.I)+r]
		}

	case OpDebug:
		if instr.X.Equal(1) {
			vm.Logger.Printf("registers: %v", vm.V)
		}
	}

	return true, nil
}

// draw XORs an n-byte sprite stored at I onto the framebuffer at (Vx, Vy),
// setting VF on any pixel collision. The sprite's anchor position wraps
// into the visible screen, but a sprite that extends past the right or
// bottom edge from there is clipped rather than wrapped onto the opposite
// edge.
func (vm *VM) draw(xr, yr, n Nibble) {
	x := int(vm.V[xr]) % DisplayWidth
	y := int(vm.V[yr]) % DisplayHeight
	vm.V[0xF] = 0

	col0 := x / 8
	shift := uint(x % 8)

	for row := 0; row < int(n); row++ {
		py := y + row
		if py >= DisplayHeight {
			break
		}
		sprite := vm.Memory[int(vm.I)+row]
		sp1 := sprite >> shift

		idx1 := py*8 + col0
		old1 := vm.Graphics[idx1]
		vm.Graphics[idx1] = old1 ^ sp1
		if old1&sp1 != 0 {
			vm.V[0xF] = 1
		}

		if shift != 0 && col0+1 < 8 {
			sp2 := sprite << (8 - shift)
			idx2 := py*8 + col0 + 1
			old2 := vm.Graphics[idx2]
			vm.Graphics[idx2] = old2 ^ sp2
			if old2&sp2 != 0 {
				vm.V[0xF] = 1
			}
		}
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// decrementTimers drops DelayTimer and SoundTimer by one every 60th of a
// second, at most once per call. The first tick after a timer becomes
// nonzero only starts the clock; it takes a second tick, at least one
// period later, to actually decrement. This matches the lazy-start timer
// behavior of the reference interpreter: a timer that is set and
// immediately read back before the next period elapses still reads its
// original value.
func (vm *VM) decrementTimers() {
	if vm.DelayTimer > 0 {
		if vm.delayRunning {
			if time.Since(vm.lastDelayDecrement) >= timeBetweenDecrement {
				vm.DelayTimer--
				vm.lastDelayDecrement = time.Now()
			}
			if vm.DelayTimer == 0 {
				vm.delayRunning = false
			}
		} else {
			vm.delayRunning = true
			vm.lastDelayDecrement = time.Now()
		}
	}
	if vm.SoundTimer > 0 {
		if vm.soundRunning {
			if time.Since(vm.lastSoundDecrement) >= timeBetweenDecrement {
				vm.SoundTimer--
				vm.lastSoundDecrement = time.Now()
			}
			if vm.SoundTimer == 0 {
				vm.soundRunning = false
			}
		} else {
			vm.soundRunning = true
			vm.lastSoundDecrement = time.Now()
		}
	}
}

// CopyGraphics returns a copy of the framebuffer, safe to hand to a
// renderer running on another goroutine.
func (vm *VM) CopyGraphics() [GraphicsBufferSize]byte {
	return vm.Graphics
}

// SetKey updates the status of a single hex keypad key.
func (vm *VM) SetKey(key Nibble, status KeyStatus) {
	vm.Logger.Printf("key %d: %s", key, status)
	vm.KeyStatus[key&0x0F] = status
}

// Snapshot captures a copy of VM state for inspection.
func (vm *VM) Snapshot() Snapshot {
	instr, err := vm.instruction()
	snap := Snapshot{
		V:          vm.V,
		PC:         vm.PC,
		SP:         vm.SP,
		I:          vm.I,
		DelayTimer: vm.DelayTimer,
		SoundTimer: vm.SoundTimer,
		Stack:      vm.Stack,
		KeyStatus:  vm.KeyStatus,
	}
	if err == nil {
		snap.Instruction = instr
		snap.HasNext = true
	}
	return snap
}
