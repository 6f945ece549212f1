// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package sim

import (
	"github.com/golang/glog"
	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/link"
)

// Peer simulates the servo controller at the far end of the link.
//
// A frame starts with the first write to the data line after the previous
// acknowledgement.  The data line is sampled on each rising clock edge, and
// the frame ends when the data line is released.  The frame is then decoded
// and, unless muted, acknowledged by driving the data line high until it is
// reclaimed by the board.
type Peer struct {
	// Mute suppresses acknowledgements.
	Mute bool
	// OnAngle, if set, is called with each decoded angle.
	OnAngle func(uint8)

	levels     []servolink.Level
	collecting bool
	acking     bool
	angles     []uint8
	errors     int
	edges      int
}

// NewPeer creates a Peer.
func NewPeer() *Peer {
	return &Peer{}
}

// Angles returns the angles decoded so far.
func (p *Peer) Angles() []uint8 {
	return p.angles
}

// Errors returns the number of frames that failed to decode.
func (p *Peer) Errors() int {
	return p.errors
}

// Edges returns the number of rising clock edges seen.
func (p *Peer) Edges() int {
	return p.edges
}

// Acking returns true while the peer is driving the acknowledgement.
func (p *Peer) Acking() bool {
	return p.acking
}

func (p *Peer) drive() uint8 {
	if p.acking {
		return 1 << link.DataBit
	}
	return 0
}

func (p *Peer) dataWrite() {
	if !p.collecting && !p.acking {
		p.collecting = true
		p.levels = p.levels[:0]
	}
}

func (p *Peer) release() {
	p.acking = false
}

func (p *Peer) clockWrite(old, cur uint8, b *Board) {
	const clkMask = 1 << link.ClockBit
	if old&clkMask != 0 || cur&clkMask == 0 {
		return
	}
	p.edges++
	if !p.collecting {
		return
	}
	p.levels = append(p.levels, b.dioB&(1<<link.DataBit) != 0)
	if !b.portBInput() && len(p.levels) <= link.FrameBits {
		return
	}
	p.collecting = false
	angle, err := link.DecodeLevels(p.levels)
	if err != nil {
		glog.Warningf("peer: %v", err)
		p.errors++
		return
	}
	p.angles = append(p.angles, angle)
	if p.OnAngle != nil {
		p.OnAngle(angle)
	}
	if !p.Mute {
		p.acking = true
	}
}
