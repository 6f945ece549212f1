// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package servolink provides register level access to a PC/104 style
// data acquisition board, as used to sample an analog input and drive a
// clocked serial link to a servo controller.
//
// The board exposes a small window of byte wide registers, typically in x86
// I/O port space at 0x280.  Several offsets are shared by a read-only and a
// write-only register, e.g. offset 0 is the command register when written and
// the ADC LSB when read.
//
// Example of use:
//
//	b, err := servolink.Open()
//	if err != nil {
//		...
//	}
//	defer b.Close()
//
//	servolink.SetDirections(b, servolink.Output, servolink.Output)
//	clk := servolink.NewPin(b, servolink.PortA, 3)
//	clk.Toggle()
//
// Sub-packages build on the Registers interface: adc drives the converter,
// servo maps samples to angles, and link implements the transmit protocol.
package servolink

// Registers provides byte access to a register block.
// Offsets are relative to the base of the block.
type Registers interface {
	Read8(offset uint8) uint8
	Write8(offset, value uint8)
}

// Register offsets within the board window.
const (
	RegCommand     uint8 = 0 // write
	RegADLSB       uint8 = 0 // read
	RegPage        uint8 = 1 // write
	RegADMSB       uint8 = 1 // read
	RegADChannel   uint8 = 2
	RegGainScan    uint8 = 3 // write
	RegInputStatus uint8 = 3 // read
	RegIntCtrl     uint8 = 4
	RegFIFOStatus  uint8 = 6
	RegDIOA        uint8 = 8
	RegDIOB        uint8 = 9
	RegDIODir      uint8 = 11
	RegADMode      uint8 = 13 // page 2
)

// Register bits.
const (
	// CmdStartConversion (STRTAD) triggers a single conversion.
	CmdStartConversion uint8 = 0x80
	// CmdResetFIFO (RSTFIFO) clears the sample FIFO.
	CmdResetFIFO uint8 = 0x10

	// StatusBusy (ADBUSY) is set while a conversion is in progress.
	StatusBusy uint8 = 0x80
	// StatusSettling (WAIT) is set for ~10us after the ADC configuration changes.
	StatusSettling uint8 = 0x20

	// IntCtrlAINTE enables interrupt/auto sampling.
	IntCtrlAINTE uint8 = 0x01

	// ModeSingleEndedBipolar selects single-ended inputs with a bipolar range.
	ModeSingleEndedBipolar uint8 = 0x00

	// PageADControl selects the register page holding the AD mode and
	// FIFO control registers.
	PageADControl uint8 = 0x02
)

// Defaults for the board window.
const (
	DefaultBase   = 0x280
	DefaultLength = 16
)
