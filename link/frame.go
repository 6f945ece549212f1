// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package link

import (
	"math/bits"

	"github.com/pkg/errors"
	"github.com/warthog618/servolink"
)

// FrameBits is the width of a Frame.
const FrameBits = 9

const frameMask = 0x1ff

// Frame is the shift register holding an angle being transmitted.
//
// Bit 0 is the framing bit and is always set.  Bits 1-8 hold the complement
// of the angle.  The frame is shifted out LSB first and the transmission is
// complete once the frame is zero.
type Frame uint16

// LoadFrame creates the Frame used to transmit angle.
func LoadFrame(angle uint8) Frame {
	return Frame(frameMask &^ (uint16(angle) << 1))
}

// Level returns the line level for the next bit to be shifted out.
//
// The line carries the complement of the frame, so the framing bit is sent
// low and the angle bits are sent at their true level.
func (f Frame) Level() servolink.Level {
	line := ^uint8(f & 0xff)
	return line&0x01 != 0
}

// Shift drops the bit most recently sent.
func (f *Frame) Shift() {
	*f >>= 1
}

// Exhausted returns true once all set bits have been shifted out.
func (f Frame) Exhausted() bool {
	return f == 0
}

// Len returns the number of bits sent before the frame is exhausted.
//
// This is FrameBits for angles below 128, and fewer for larger angles as
// the set high bits of the angle leave the top of the frame clear.
func (f Frame) Len() int {
	return bits.Len16(uint16(f))
}

// Levels returns the line levels of all FrameBits bits of the frame,
// including any not sent due to the frame being exhausted early.
func (f Frame) Levels() [FrameBits]servolink.Level {
	var ll [FrameBits]servolink.Level
	for i := range ll {
		ll[i] = f.Level()
		f.Shift()
	}
	return ll
}

// DecodeLevels recovers the angle from the line levels of a frame, as
// sampled by the receiver.
//
// Frames may be truncated, in which case the missing trailing levels are
// high.
func DecodeLevels(levels []servolink.Level) (uint8, error) {
	if len(levels) == 0 || len(levels) > FrameBits {
		return 0, errors.Wrapf(ErrFraming, "frame of %d bits", len(levels))
	}
	if levels[0] != servolink.Low {
		return 0, errors.Wrap(ErrFraming, "framing bit high")
	}
	var angle uint8
	for i := uint(0); i < FrameBits-1; i++ {
		l := servolink.High
		if int(i)+1 < len(levels) {
			l = levels[i+1]
		}
		if l == servolink.High {
			angle |= 1 << i
		}
	}
	return angle, nil
}
