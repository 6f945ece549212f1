// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/link"
	"github.com/warthog618/servolink/sim"
)

func TestStatus(t *testing.T) {
	b := sim.NewBoard(0x1234)
	b.SettlePolls = 1
	b.BusyPolls = 2
	b.Write8(servolink.RegGainScan, 1)
	assert.Equal(t, servolink.StatusSettling, b.Read8(servolink.RegInputStatus))
	assert.Zero(t, b.Read8(servolink.RegInputStatus))
	b.Write8(servolink.RegCommand, servolink.CmdStartConversion)
	assert.Equal(t, servolink.StatusBusy, b.Read8(servolink.RegInputStatus))
	assert.Equal(t, servolink.StatusBusy, b.Read8(servolink.RegInputStatus))
	assert.Zero(t, b.Read8(servolink.RegInputStatus))
	assert.Equal(t, uint8(0x34), b.Read8(servolink.RegADLSB))
	assert.Equal(t, uint8(0x12), b.Read8(servolink.RegADMSB))
}

func TestSampleQueue(t *testing.T) {
	b := sim.NewBoard(1, 2)
	b.QueueSamples(3)
	for _, expected := range []uint8{1, 2, 3, 3} {
		b.Write8(servolink.RegCommand, servolink.CmdStartConversion)
		assert.Equal(t, expected, b.Read8(servolink.RegADLSB))
	}
	assert.Equal(t, 4, b.Conversions())
}

func TestSource(t *testing.T) {
	b := sim.NewBoard(7)
	b.Source = func(n int) int16 { return int16(n * 0x101) }
	for n := 0; n < 3; n++ {
		b.Write8(servolink.RegCommand, servolink.CmdStartConversion)
		assert.Equal(t, uint8(n), b.Read8(servolink.RegADLSB))
		assert.Equal(t, uint8(n), b.Read8(servolink.RegADMSB))
	}
}

func TestModePaged(t *testing.T) {
	b := sim.NewBoard()
	b.Write8(servolink.RegADMode, 0x55)
	assert.Zero(t, b.Mode())
	b.Write8(servolink.RegPage, servolink.PageADControl)
	b.Write8(servolink.RegADMode, 0x55)
	assert.Equal(t, uint8(0x55), b.Mode())
	assert.Equal(t, uint8(0x55), b.Read8(servolink.RegADMode))
}

func TestDirections(t *testing.T) {
	b := sim.NewBoard()
	servolink.SetDirections(b, servolink.Input, servolink.Output)
	a, bb := b.Directions()
	assert.Equal(t, servolink.Input, a)
	assert.Equal(t, servolink.Output, bb)
	// port B reads the latch while output
	b.Write8(servolink.RegDIOB, 0x81)
	assert.Equal(t, uint8(0x81), b.Read8(servolink.RegDIOB))
	// and the peer, or nothing, while input
	servolink.SetDirections(b, servolink.Output, servolink.Input)
	assert.Zero(t, b.Read8(servolink.RegDIOB))
}

func TestPeerAck(t *testing.T) {
	b := sim.NewBoard()
	p := sim.NewPeer()
	var got []uint8
	p.OnAngle = func(a uint8) { got = append(got, a) }
	b.Peer = p
	clk := servolink.NewPin(b, servolink.PortA, link.ClockBit)
	data := servolink.NewPin(b, servolink.PortB, link.DataBit)
	levels := link.LoadFrame(42).Levels()
	for i, l := range levels {
		data.Write(l)
		clk.Low()
		if i == len(levels)-1 {
			assert.Empty(t, got)
			assert.False(t, p.Acking())
			// release
			servolink.SetDirections(b, servolink.Output, servolink.Input)
		}
		clk.High()
	}
	assert.Equal(t, []uint8{42}, got)
	assert.True(t, p.Acking())
	assert.Equal(t, uint8(1), data.ReadPort())
	// reclaim
	servolink.SetDirections(b, servolink.Output, servolink.Output)
	assert.False(t, p.Acking())
}
