// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package servolink

// Level represents the high (true) or low (false) level of a Pin.
type Level bool

// Level of pin, High / Low
const (
	Low  Level = false
	High Level = true
)

// Direction defines the data direction of a DIO port.
type Direction uint8

// Port direction, as encoded in the DIO direction register.
const (
	Output Direction = iota
	Input
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Port identifies a DIO port by its data register.
type Port uint8

// DIO ports.
const (
	PortA = Port(RegDIOA)
	PortB = Port(RegDIOB)
)

func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	}
	return "?"
}

// SetDirections sets the direction of both DIO ports.
// The direction register is write-only so both must be set together.
func SetDirections(regs Registers, a, b Direction) {
	regs.Write8(RegDIODir, uint8(a&0x1)<<4|uint8(b&0x1)<<1)
}

// Pin represents a single bit of a DIO port.
type Pin struct {
	// Immutable fields
	regs Registers
	port Port
	bit  uint
	mask uint8
	// Mutable fields
	shadow Level
}

// NewPin creates a new pin object for bit of port.
// Returns nil if the bit is out of range.
func NewPin(regs Registers, port Port, bit int) *Pin {
	if bit < 0 || bit > 7 {
		return nil
	}
	pin := &Pin{
		regs: regs,
		port: port,
		bit:  uint(bit),
		mask: 1 << uint(bit),
	}
	if regs.Read8(uint8(port))&pin.mask != 0 {
		pin.shadow = High
	}
	return pin
}

// Port returns the port containing the pin.
func (pin *Pin) Port() Port {
	return pin.port
}

// Bit returns the bit number of the pin within its port.
func (pin *Pin) Bit() int {
	return int(pin.bit)
}

// High sets pin High.
func (pin *Pin) High() {
	pin.Write(High)
}

// Low sets pin Low.
func (pin *Pin) Low() {
	pin.Write(Low)
}

// Shadow returns the value of the last write to an output pin or the last read on an input pin.
func (pin *Pin) Shadow() Level {
	return pin.shadow
}

// Toggle pin state
func (pin *Pin) Toggle() {
	pin.Write(!pin.shadow)
}

// Read pin state (high/low)
func (pin *Pin) Read() (level Level) {
	if pin.regs.Read8(uint8(pin.port))&pin.mask != 0 {
		level = High
	}
	pin.shadow = level
	return
}

// ReadPort returns the whole port containing the pin.
func (pin *Pin) ReadPort() uint8 {
	return pin.regs.Read8(uint8(pin.port))
}

// Write sets the pin state (high/low).
// The other bits of the port are preserved.
func (pin *Pin) Write(level Level) {
	v := pin.regs.Read8(uint8(pin.port))
	if level == Low {
		v &^= pin.mask
	} else {
		v |= pin.mask
	}
	pin.regs.Write8(uint8(pin.port), v)
	pin.shadow = level
}
