// Copyright 2014 Eric Holmes.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chip8 implements a CHIP-8 virtual machine: the opcode codec, the
// fetch-decode-execute loop, and the threaded scheduler that paces it. The
// companion package chip8/asm implements the assembler front-end that turns
// mnemonic source into the binary this package runs.
//
// CHIP-8 was most commonly implemented on 4K systems, such as the Cosmac VIP
// and the Telmac 1800. These machines had 4096 (0x1000) memory locations,
// all of which are 8 bits (a byte) which is where the term CHIP-8
// originated. The interpreter itself occupied the first 512 bytes of the
// memory space on those machines; modern implementations, including this
// one, run outside that 4K space and are free to store font data in the low
// 512 bytes instead.
package chip8

import "fmt"

// Nibble is a 4-bit unsigned value (0-15). It is a distinct type from byte
// so that register indices, opcode nibbles, and sprite heights cannot be
// silently widened or truncated across the codec boundary.
type Nibble uint8

// HiNibble returns the top 4 bits of b.
func HiNibble(b byte) Nibble {
	return Nibble(b >> 4)
}

// LoNibble returns the bottom 4 bits of b.
func LoNibble(b byte) Nibble {
	return Nibble(b & 0x0F)
}

// Equal reports whether n equals the given wider unsigned value.
func (n Nibble) Equal(v uint8) bool {
	return uint8(n) == v
}

// Addr12 is a 12-bit unsigned value (0-4095), used for memory addresses.
type Addr12 uint16

// AddrFromWord splits a 16-bit word into its top nibble and its low 12
// bits.
func AddrFromWord(word uint16) (Nibble, Addr12) {
	return Nibble((word & 0xF000) >> 12), Addr12(word & 0x0FFF)
}

// AddrFromBytes extracts the low 12 bits spanning two bytes: the low
// nibble of hi becomes the top nibble of the address, lo becomes the
// bottom byte.
func AddrFromBytes(hi, lo byte) Addr12 {
	return Addr12(uint16(hi&0x0F)<<8 | uint16(lo))
}

// Equal reports whether a equals the given wider unsigned value.
func (a Addr12) Equal(v uint16) bool {
	return uint16(a) == v
}

func (a Addr12) String() string {
	return fmt.Sprintf("0x%03x", uint16(a))
}
