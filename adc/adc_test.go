// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package adc_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/adc"
	"github.com/warthog618/servolink/sim"
)

func TestGainLevel(t *testing.T) {
	assert.Equal(t, 1, adc.Gain1.Level())
	assert.Equal(t, 2, adc.Gain2.Level())
	assert.Equal(t, 4, adc.Gain4.Level())
	assert.Equal(t, 8, adc.Gain8.Level())
}

func TestNew(t *testing.T) {
	b := sim.NewBoard()
	c := adc.New(b)
	assert.Equal(t, uint8(adc.DefaultChannel), c.Channel())
	assert.Equal(t, adc.DefaultGain, c.Gain())
	// untouched until configured
	assert.Empty(t, b.Writes())

	c = adc.New(b, adc.WithChannel(0x15), adc.WithGain(adc.Gain8))
	assert.Equal(t, uint8(5), c.Channel())
	assert.Equal(t, adc.Gain8, c.Gain())
}

func TestConfigure(t *testing.T) {
	b := sim.NewBoard()
	b.SettlePolls = 3
	c := adc.New(b)
	require.Nil(t, c.Configure())
	expected := []sim.Access{
		{Offset: servolink.RegADChannel, Value: 0x22},
		{Offset: servolink.RegIntCtrl, Value: 0x00},
		{Offset: servolink.RegGainScan, Value: 0x01},
		{Offset: servolink.RegPage, Value: 0x02},
		{Offset: servolink.RegADMode, Value: 0x00},
	}
	assert.Equal(t, expected, b.Writes())
	assert.Equal(t, uint8(0x22), b.Channel())
	assert.Equal(t, uint8(0x01), b.Gain())
	assert.Equal(t, servolink.PageADControl, b.Page())
	assert.Equal(t, servolink.ModeSingleEndedBipolar, b.Mode())
	assert.Zero(t, b.IntCtrl()&servolink.IntCtrlAINTE)
	// settled
	assert.Zero(t, b.Read8(servolink.RegInputStatus)&servolink.StatusSettling)
}

func TestConfigurePreservesIntCtrl(t *testing.T) {
	b := sim.NewBoard()
	b.Write8(servolink.RegIntCtrl, 0xf3)
	c := adc.New(b, adc.WithChannel(7), adc.WithGain(adc.Gain4))
	require.Nil(t, c.Configure())
	assert.Equal(t, uint8(0xf2), b.IntCtrl())
	assert.Equal(t, uint8(0x77), b.Channel())
	assert.Equal(t, uint8(0x02), b.Gain())
}

func TestConfigureTimeout(t *testing.T) {
	b := sim.NewBoard()
	b.StuckSettling = true
	c := adc.New(b, adc.WithWaitPolicy(adc.WaitPolicy{MaxPolls: 5}))
	err := c.Configure()
	assert.Equal(t, adc.ErrTimeout, errors.Cause(err))
	assert.Contains(t, err.Error(), "settle")
}

func TestRead(t *testing.T) {
	b := sim.NewBoard(0, 1, -1, 0x1234, -32768, 32767)
	b.BusyPolls = 2
	c := adc.New(b)
	require.Nil(t, c.Configure())
	for _, expected := range []adc.Sample{0, 1, -1, 0x1234, -32768, 32767} {
		b.ResetWrites()
		s, err := c.Read()
		require.Nil(t, err)
		assert.Equal(t, expected, s)
		assert.Equal(t, []sim.Access{{Offset: servolink.RegCommand, Value: servolink.CmdStartConversion}}, b.Writes())
	}
	assert.Equal(t, 6, b.Conversions())
}

func TestReadTimeout(t *testing.T) {
	b := sim.NewBoard(100)
	b.StuckBusy = true
	c := adc.New(b, adc.WithWaitPolicy(adc.WaitPolicy{MaxPolls: 3}))
	s, err := c.Read()
	assert.Equal(t, adc.Sample(0), s)
	assert.Equal(t, adc.ErrTimeout, errors.Cause(err))
	assert.Contains(t, err.Error(), "conversion after 3 polls")
}

func TestReadBoundedCompletes(t *testing.T) {
	b := sim.NewBoard(100)
	b.BusyPolls = 2
	// third status read sees busy clear
	c := adc.New(b, adc.WithWaitPolicy(adc.WaitPolicy{MaxPolls: 3}))
	s, err := c.Read()
	require.Nil(t, err)
	assert.Equal(t, adc.Sample(100), s)
}

func TestFIFO(t *testing.T) {
	b := sim.NewBoard(1)
	c := adc.New(b)
	assert.Equal(t, uint8(0), c.FIFODepth())
	_, err := c.Read()
	require.Nil(t, err)
	_, err = c.Read()
	require.Nil(t, err)
	assert.Equal(t, uint8(2), c.FIFODepth())
	c.ResetFIFO()
	assert.Equal(t, uint8(0), c.FIFODepth())
}

func TestWaitPolicyBounded(t *testing.T) {
	assert.False(t, adc.WaitPolicy{}.Bounded())
	assert.True(t, adc.WaitPolicy{MaxPolls: 1}.Bounded())
}
