// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package adc drives the analog to digital converter on the board.
//
// The converter is configured for a single channel, single-ended bipolar
// sampling, and triggered by software.  Both configuration and conversion
// complete asynchronously and are waited on by polling the input status
// register.  By default the waits are unbounded, so a faulty converter hangs
// the caller.  A WaitPolicy may be provided to bound the waits instead.
package adc

import (
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/servolink"
)

// Sample is a raw signed sample, full scale +-32768.
type Sample int16

// Gain is the gain code written to the gain register.
type Gain uint8

// Gain codes.
const (
	Gain1 Gain = iota
	Gain2
	Gain4
	Gain8
)

// Level returns the amplification selected by the gain code.
func (g Gain) Level() int {
	return 1 << (g & 0x03)
}

// Defaults for the Controller.
const (
	DefaultChannel = 2
	DefaultGain    = Gain2
)

// Controller sequences the converter registers.
type Controller struct {
	regs    servolink.Registers
	channel uint8
	gain    Gain
	policy  WaitPolicy
}

// Option modifies a Controller created by New.
type Option func(*Controller)

// WithChannel sets the sampled channel.
// Only the low 4 bits are significant.
func WithChannel(ch uint8) Option {
	return func(c *Controller) {
		c.channel = ch & 0x0f
	}
}

// WithGain sets the input gain.
func WithGain(g Gain) Option {
	return func(c *Controller) {
		c.gain = g & 0x03
	}
}

// WithWaitPolicy sets the policy used when waiting on the status register.
func WithWaitPolicy(p WaitPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// New creates a Controller for the converter accessed through regs.
// The converter is not touched until Configure is called.
func New(regs servolink.Registers, options ...Option) *Controller {
	c := &Controller{
		regs:    regs,
		channel: DefaultChannel,
		gain:    DefaultGain,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Channel returns the sampled channel.
func (c *Controller) Channel() uint8 {
	return c.channel
}

// Gain returns the input gain.
func (c *Controller) Gain() Gain {
	return c.gain
}

// Configure sets up the converter for single channel, software triggered,
// single-ended bipolar sampling, and waits for the settings to settle.
func (c *Controller) Configure() error {
	// start and end channel are the same, so no scanning.
	c.regs.Write8(servolink.RegADChannel, c.channel<<4|c.channel)
	// no auto-sampling - only sample on STRTAD
	c.regs.Write8(servolink.RegIntCtrl, c.regs.Read8(servolink.RegIntCtrl)&^servolink.IntCtrlAINTE)
	c.regs.Write8(servolink.RegGainScan, uint8(c.gain)&0x03)
	// the mode register is on the AD control page
	c.regs.Write8(servolink.RegPage, servolink.PageADControl&0x03)
	c.regs.Write8(servolink.RegADMode, servolink.ModeSingleEndedBipolar)
	return c.policy.waitWhile(c.regs, servolink.StatusSettling, "settle")
}

// Read triggers a conversion and returns the sample once it completes.
func (c *Controller) Read() (Sample, error) {
	c.regs.Write8(servolink.RegCommand, servolink.CmdStartConversion)
	if err := c.policy.waitWhile(c.regs, servolink.StatusBusy, "conversion"); err != nil {
		return 0, err
	}
	lsb := c.regs.Read8(servolink.RegADLSB)
	msb := c.regs.Read8(servolink.RegADMSB)
	return Sample(uint16(lsb) | uint16(msb)<<8), nil
}

// ResetFIFO discards any samples held in the converter FIFO.
func (c *Controller) ResetFIFO() {
	c.regs.Write8(servolink.RegCommand, servolink.CmdResetFIFO)
}

// FIFODepth returns the number of samples held in the converter FIFO.
// Only valid while the FIFO is not in enhanced mode.
func (c *Controller) FIFODepth() uint8 {
	return c.regs.Read8(servolink.RegFIFOStatus)
}

// WaitPolicy determines how the status register is polled.
//
// The zero value polls forever without pausing.
type WaitPolicy struct {
	// MaxPolls is the number of status reads before giving up.
	// Zero for no limit.
	MaxPolls uint
	// Interval is the pause between status reads.
	Interval time.Duration
}

// Bounded reports whether the policy gives up eventually.
func (p WaitPolicy) Bounded() bool {
	return p.MaxPolls != 0
}

func (p WaitPolicy) waitWhile(regs servolink.Registers, mask uint8, what string) error {
	polls := uint(0)
	for regs.Read8(servolink.RegInputStatus)&mask != 0 {
		polls++
		if p.MaxPolls != 0 && polls >= p.MaxPolls {
			return errors.Wrapf(ErrTimeout, "%s after %d polls", what, polls)
		}
		if p.Interval > 0 {
			time.Sleep(p.Interval)
		}
	}
	return nil
}

// ErrTimeout indicates the converter did not complete within the bounds of
// the WaitPolicy.
var ErrTimeout = errors.New("timeout")
