// Copyright 2014 Eric Holmes.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "time"

// DefaultHertz and DefaultTimeboxes are the pacing defaults used when a
// Scheduler is built with a zero-valued SchedulerOptions: 400 instructions per
// second spread across 100 timeboxes per second, i.e. 4 instructions
// executed per 10ms timebox.
const (
	DefaultHertz     = 400
	DefaultTimeboxes = 100
)

// Message is sent on a Scheduler's control channel to interrupt a running
// timebox loop between ticks.
type Message interface {
	isMessage()
}

// Pause asks the scheduler to stop its run loop and return ownership of
// the VM to whoever reads it back off the done channel.
type Pause struct{}

func (Pause) isMessage() {}

// SendGraphics asks the scheduler to copy the current framebuffer and
// deliver it on Reply. The scheduler answers this without interrupting
// the run loop's pacing.
type SendGraphics struct {
	Reply chan<- [GraphicsBufferSize]byte
}

func (SendGraphics) isMessage() {}

// KeyEvent asks the scheduler to update one key's status in the owned VM.
type KeyEvent struct {
	Key    Nibble
	Status KeyStatus
}

func (KeyEvent) isMessage() {}

// SchedulerOptions configures a Scheduler. The zero value selects
// DefaultHertz and DefaultTimeboxes.
type SchedulerOptions struct {
	Hertz     int
	Timeboxes int
}

// Scheduler paces execution of a VM at a fixed instruction rate, spread
// evenly across timeboxes-per-second-sized windows so that a VM clocked at
// a few hundred Hz doesn't execute its entire second's worth of
// instructions in a single burst. While a Scheduler's Run goroutine holds
// a VM, nothing else may touch it; Pause, SendGraphics, and KeyEvent
// messages are the only way to interact with it, and the VM is handed back
// to the caller only once Run returns.
type Scheduler struct {
	hertz     int
	timeboxes int
	vm        *VM
	messages  <-chan Message
	Logger    Logger
}

// NewScheduler constructs a Scheduler that will pace vm according to
// options. A nil options pointer selects the defaults.
func NewScheduler(vm *VM, messages <-chan Message, options *SchedulerOptions) *Scheduler {
	hertz, timeboxes := DefaultHertz, DefaultTimeboxes
	if options != nil {
		if options.Hertz > 0 {
			hertz = options.Hertz
		}
		if options.Timeboxes > 0 {
			timeboxes = options.Timeboxes
		}
	}
	return &Scheduler{
		hertz:     hertz,
		timeboxes: timeboxes,
		vm:        vm,
		messages:  messages,
		Logger:    vm.Logger,
	}
}

// Run executes the scheduler's timebox-paced loop until the VM halts
// (Exit/Break), a Pause message arrives, the messages channel is closed,
// or the VM returns an execution error. It then sends the VM on done so the
// caller regains ownership; Run never runs the VM concurrently with its caller.
//
// Run is meant to be invoked as `go scheduler.Run(done)`: the owning
// goroutine sends the VM down done when finished, handing it back.
func (s *Scheduler) Run(done chan<- *VM) {
	nanosPerSecond := int64(time.Second)
	nanosPerBox := time.Duration(nanosPerSecond / int64(s.timeboxes))
	ticksPerBox := s.hertz / s.timeboxes

	s.Logger.Printf("starting scheduler: %d ticks per %s box", ticksPerBox, nanosPerBox)

	ticks := 0
	lastBox := time.Now()
	for {
		if ticks < ticksPerBox {
			if s.pollOnce() {
				break
			}

			running, err := s.vm.Tick()
			if err != nil {
				s.Logger.Printf("pausing scheduler: %v", err)
				break
			}
			if !running {
				s.Logger.Printf("vm halted")
				break
			}
			ticks++
			continue
		}

		if elapsed := time.Since(lastBox); elapsed < nanosPerBox {
			if s.waitOnce(nanosPerBox - elapsed) {
				break
			}
			continue
		}
		ticks = 0
		lastBox = time.Now()
	}

	s.Logger.Printf("scheduler paused")
	done <- s.vm
}

// pollOnce performs a single non-blocking poll of the message channel,
// processing at most one message. It reports whether the run loop should
// abort.
func (s *Scheduler) pollOnce() bool {
	select {
	case msg, ok := <-s.messages:
		if !ok {
			return true
		}
		return s.process(msg)
	default:
		return false
	}
}

// waitOnce blocks on the message channel for at most timeout, used to
// idle between timeboxes without busy-waiting. It reports whether the run
// loop should abort.
func (s *Scheduler) waitOnce(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg, ok := <-s.messages:
		if !ok {
			return true
		}
		return s.process(msg)
	case <-timer.C:
		return false
	}
}

// process applies a single Message to the owned VM and reports whether the
// run loop should abort.
func (s *Scheduler) process(message Message) bool {
	switch msg := message.(type) {
	case Pause:
		s.Logger.Printf("received pause")
		return true
	case SendGraphics:
		buf := s.vm.CopyGraphics()
		select {
		case msg.Reply <- buf:
		default:
			s.Logger.Printf("graphics reply not received, terminating")
			return true
		}
	case KeyEvent:
		s.vm.SetKey(msg.Key, msg.Status)
	}
	return false
}
