// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package sim provides a simulated board and servo controller, allowing the
// link to be exercised without hardware.
package sim

import (
	"github.com/warthog618/servolink"
)

// Access is a register write.
type Access struct {
	Offset uint8
	Value  uint8
}

// Board simulates the board registers accessed by the adc and link packages.
//
// The converter returns the queued samples in order, repeating the last
// once the queue is exhausted.  The status bits remain set for the configured
// number of status reads following a configuration change or conversion.
type Board struct {
	// SettlePolls is the number of status reads with the settling bit set
	// following a converter configuration write.
	SettlePolls uint
	// BusyPolls is the number of status reads with the busy bit set
	// following the start of a conversion.
	BusyPolls uint
	// StuckSettling holds the settling bit set forever.
	StuckSettling bool
	// StuckBusy holds the busy bit set forever.
	StuckBusy bool
	// Peer, if set, is connected to the DIO lines.
	Peer *Peer
	// Source, if set, provides the result of the nth conversion in place of
	// the sample queue.
	Source func(n int) int16

	samples     []int16
	next        int
	result      int16
	settleLeft  uint
	busyLeft    uint
	conversions int
	fifo        uint8
	page        uint8
	channel     uint8
	gain        uint8
	intCtrl     uint8
	mode        uint8
	dioA        uint8
	dioB        uint8
	dir         uint8
	writes      []Access
}

// NewBoard creates a Board that returns the given samples.
func NewBoard(samples ...int16) *Board {
	return &Board{samples: samples, intCtrl: servolink.IntCtrlAINTE}
}

// QueueSamples appends samples to be returned by subsequent conversions.
func (b *Board) QueueSamples(samples ...int16) {
	b.samples = append(b.samples, samples...)
}

// Read8 implements servolink.Registers.
func (b *Board) Read8(offset uint8) uint8 {
	switch offset {
	case servolink.RegADLSB:
		return uint8(b.result)
	case servolink.RegADMSB:
		return uint8(uint16(b.result) >> 8)
	case servolink.RegADChannel:
		return b.channel
	case servolink.RegInputStatus:
		return b.status()
	case servolink.RegIntCtrl:
		return b.intCtrl
	case servolink.RegFIFOStatus:
		return b.fifo
	case servolink.RegDIOA:
		return b.dioA
	case servolink.RegDIOB:
		if b.portBInput() {
			if b.Peer != nil {
				return b.Peer.drive()
			}
			return 0
		}
		return b.dioB
	case servolink.RegADMode:
		if b.page == servolink.PageADControl {
			return b.mode
		}
	}
	return 0
}

// Write8 implements servolink.Registers.
func (b *Board) Write8(offset, value uint8) {
	b.writes = append(b.writes, Access{offset, value})
	switch offset {
	case servolink.RegCommand:
		if value&servolink.CmdResetFIFO != 0 {
			b.fifo = 0
		}
		if value&servolink.CmdStartConversion != 0 {
			b.convert()
		}
	case servolink.RegPage:
		b.page = value & 0x03
	case servolink.RegADChannel:
		b.channel = value
		b.settleLeft = b.SettlePolls
	case servolink.RegGainScan:
		b.gain = value
		b.settleLeft = b.SettlePolls
	case servolink.RegIntCtrl:
		b.intCtrl = value
		b.settleLeft = b.SettlePolls
	case servolink.RegDIOA:
		old := b.dioA
		b.dioA = value
		if b.Peer != nil {
			b.Peer.clockWrite(old, value, b)
		}
	case servolink.RegDIOB:
		b.dioB = value
		if b.Peer != nil && !b.portBInput() {
			b.Peer.dataWrite()
		}
	case servolink.RegDIODir:
		b.dir = value
		if b.Peer != nil && !b.portBInput() {
			b.Peer.release()
		}
	case servolink.RegADMode:
		if b.page == servolink.PageADControl {
			b.mode = value
			b.settleLeft = b.SettlePolls
		}
	}
}

func (b *Board) status() uint8 {
	var s uint8
	if b.StuckBusy || b.busyLeft > 0 {
		s |= servolink.StatusBusy
	}
	if b.StuckSettling || b.settleLeft > 0 {
		s |= servolink.StatusSettling
	}
	if b.busyLeft > 0 {
		b.busyLeft--
	}
	if b.settleLeft > 0 {
		b.settleLeft--
	}
	return s
}

func (b *Board) convert() {
	b.conversions++
	b.busyLeft = b.BusyPolls
	if b.Source != nil {
		b.result = b.Source(b.conversions - 1)
	} else if b.next < len(b.samples) {
		b.result = b.samples[b.next]
		b.next++
	} else if len(b.samples) > 0 {
		b.result = b.samples[len(b.samples)-1]
	}
	if b.fifo < 255 {
		b.fifo++
	}
}

func (b *Board) portBInput() bool {
	return b.dir&0x02 != 0
}

// Conversions returns the number of conversions started.
func (b *Board) Conversions() int {
	return b.conversions
}

// Writes returns the register writes performed so far.
func (b *Board) Writes() []Access {
	return b.writes
}

// ResetWrites clears the record of register writes.
func (b *Board) ResetWrites() {
	b.writes = nil
}

// Channel returns the value of the channel register.
func (b *Board) Channel() uint8 {
	return b.channel
}

// Gain returns the value of the gain register.
func (b *Board) Gain() uint8 {
	return b.gain
}

// Page returns the selected register page.
func (b *Board) Page() uint8 {
	return b.page
}

// Mode returns the value of the AD mode register.
func (b *Board) Mode() uint8 {
	return b.mode
}

// IntCtrl returns the value of the interrupt control register.
func (b *Board) IntCtrl() uint8 {
	return b.intCtrl
}

// DIO returns the output latches of ports A and B.
func (b *Board) DIO() (uint8, uint8) {
	return b.dioA, b.dioB
}

// Directions returns the direction of ports A and B.
func (b *Board) Directions() (servolink.Direction, servolink.Direction) {
	return servolink.Direction(b.dir>>4) & 0x01, servolink.Direction(b.dir>>1) & 0x01
}
