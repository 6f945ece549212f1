// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package link implements the transmit side of the clocked serial link to
// the servo controller.
//
// The link uses two DIO lines, a clock on port A and a bidirectional data
// line on port B.  The clock toggles every tick, at half the tick rate.
// Every sample period the Machine takes a sample and shifts the
// corresponding Frame out on the data line, one bit every two ticks so the
// data is stable for half a clock period before the rising edge.  The data
// line is then released and the Machine waits for the peer to drive it high
// as an acknowledgement before returning to idle.
//
// There is no timeout on the acknowledgement by default, so a peer that
// never acknowledges stalls the link.
package link

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/adc"
	"github.com/warthog618/servolink/servo"
	"github.com/warthog618/servolink/telemetry"
)

// Tick is the count of loop iterations.  It wraps at the native width.
type Tick uint

// Pin assignments.
const (
	ClockBit = 3 // port A
	DataBit  = 0 // port B
)

// DefaultSamplePeriod is the tick modulus at which the idle state samples.
const DefaultSamplePeriod = 50

// Sampler provides raw samples.  It is satisfied by *adc.Controller.
type Sampler interface {
	Read() (adc.Sample, error)
}

// Machine is the link protocol state machine.
type Machine struct {
	// Immutable fields
	regs       servolink.Registers
	sampler    Sampler
	reporter   telemetry.Reporter
	clk        *servolink.Pin
	data       *servolink.Pin
	period     Tick
	ackTimeout uint
	// Mutable fields
	state    State
	frame    Frame
	tick     Tick
	samples  uint64
	ackTicks uint
}

// Option modifies a Machine created by New.
type Option func(*Machine)

// WithSamplePeriod sets the tick modulus at which the idle state samples.
func WithSamplePeriod(period uint) Option {
	return func(m *Machine) {
		if period > 0 {
			m.period = Tick(period)
		}
	}
}

// WithStartTick sets the initial value of the tick counter.
func WithStartTick(t Tick) Option {
	return func(m *Machine) {
		m.tick = t
	}
}

// WithAckTimeout bounds the number of ticks spent waiting for the peer to
// acknowledge.  Zero, the default, waits forever.
func WithAckTimeout(ticks uint) Option {
	return func(m *Machine) {
		m.ackTimeout = ticks
	}
}

// WithReporter sets the Reporter called with each sample.
func WithReporter(r telemetry.Reporter) Option {
	return func(m *Machine) {
		m.reporter = r
	}
}

// New creates a Machine driving the DIO ports of regs and taking samples
// from sampler.  The Machine starts Idle.
func New(regs servolink.Registers, sampler Sampler, options ...Option) *Machine {
	m := &Machine{
		regs:    regs,
		sampler: sampler,
		clk:     servolink.NewPin(regs, servolink.PortA, ClockBit),
		data:    servolink.NewPin(regs, servolink.PortB, DataBit),
		period:  DefaultSamplePeriod,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// State returns the current protocol state.
func (m *Machine) State() State {
	return m.state
}

// Tick returns the tick counter.
func (m *Machine) Tick() Tick {
	return m.tick
}

// Frame returns the frame remaining to be sent.
func (m *Machine) Frame() Frame {
	return m.frame
}

// Samples returns the number of samples taken.
func (m *Machine) Samples() uint64 {
	return m.samples
}

// Step performs a single tick - the state logic, then the clock toggle.
//
// Errors are fatal to the link.  ErrStateCorrupt indicates the state is
// not one of the link states.
func (m *Machine) Step() error {
	var err error
	switch m.state {
	case Idle:
		err = m.idle()
	case Transmit:
		m.transmit()
	case Acknowledge:
		err = m.acknowledge()
	default:
		glog.Errorf("state error: %v at tick %d", m.state, m.tick)
		return errors.Wrapf(ErrStateCorrupt, "%v at tick %d", m.state, m.tick)
	}
	if err != nil {
		return err
	}
	m.clk.Write(m.tick%2 != 0)
	m.tick++
	return nil
}

func (m *Machine) setState(s State) {
	glog.V(2).Infof("tick %d: %v -> %v", m.tick, m.state, s)
	m.state = s
}

func (m *Machine) idle() error {
	servolink.SetDirections(m.regs, servolink.Output, servolink.Output)
	if m.tick%m.period != 0 {
		return nil
	}
	raw, err := m.sampler.Read()
	if err != nil {
		return errors.Wrapf(err, "sample at tick %d", m.tick)
	}
	v, angle := servo.AngleOf(int16(raw))
	m.frame = LoadFrame(angle)
	m.setState(Transmit)
	if m.reporter != nil {
		r := telemetry.Reading{
			Index:   m.samples,
			Tick:    uint64(m.tick),
			Raw:     int16(raw),
			Voltage: v,
			Angle:   angle,
		}
		if err := m.reporter.Report(r); err != nil {
			glog.Warningf("report sample %d: %v", m.samples, err)
		}
	}
	m.samples++
	return nil
}

func (m *Machine) transmit() {
	servolink.SetDirections(m.regs, servolink.Output, servolink.Output)
	if m.tick%2 == 0 {
		m.data.Write(m.frame.Level())
		m.frame.Shift()
	}
	if m.frame.Exhausted() {
		m.ackTicks = 0
		m.setState(Acknowledge)
	}
}

func (m *Machine) acknowledge() error {
	servolink.SetDirections(m.regs, servolink.Output, servolink.Input)
	if m.data.ReadPort() != 0 {
		m.setState(Idle)
		return nil
	}
	m.ackTicks++
	if m.ackTimeout != 0 && m.ackTicks >= m.ackTimeout {
		return errors.Wrapf(ErrAckTimeout, "after %d ticks", m.ackTicks)
	}
	return nil
}

var (
	// ErrStateCorrupt indicates the Machine is in an invalid state.
	ErrStateCorrupt = errors.New("state corrupt")

	// ErrAckTimeout indicates the peer did not acknowledge within the
	// configured number of ticks.
	ErrAckTimeout = errors.New("acknowledge timeout")

	// ErrFraming indicates a frame could not be decoded.
	ErrFraming = errors.New("framing error")
)
