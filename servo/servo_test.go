// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package servo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/servolink/servo"
)

func TestVoltage(t *testing.T) {
	assert.Equal(t, 0.0, servo.Voltage(0))
	assert.InDelta(t, 5.0, servo.Voltage(32767), 0.001)
	assert.Equal(t, -5.0, servo.Voltage(-32768))
	assert.Equal(t, 2.5, servo.Voltage(16384))
	assert.Equal(t, -2.5, servo.Voltage(-16384))
	// linear
	for _, raw := range []int16{-30000, -1234, 1, 77, 20000} {
		assert.InDelta(t, float64(raw)*servo.Voltage(1), servo.Voltage(raw), 1e-12)
		assert.InDelta(t, servo.Voltage(raw)+servo.Voltage(1), servo.Voltage(raw+1), 1e-12)
	}
}

func TestAngle(t *testing.T) {
	patterns := []struct {
		name  string
		v     float64
		angle uint8
	}{
		{"min", -5.0, 150},
		{"max", 5.0, 0},
		{"zero", 0.0, 75},
		{"truncate", 0.01, 74},      // 74.85
		{"truncate neg", -0.05, 75}, // 75.75
		{"quarter", 2.5, 37},        // 37.5
		{"below range", -10.0, 225},
		{"above range", 10.0, 181}, // -75 wraps
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.angle, servo.Angle(p.v))
		}
		t.Run(p.name, tf)
	}
}

func TestAngleOf(t *testing.T) {
	v, a := servo.AngleOf(0)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, uint8(75), a)

	v, a = servo.AngleOf(1)
	assert.Equal(t, 5.0/32768, v)
	assert.Equal(t, uint8(74), a)

	v, a = servo.AngleOf(math.MinInt16)
	assert.Equal(t, -5.0, v)
	assert.Equal(t, uint8(150), a)

	_, a = servo.AngleOf(math.MaxInt16)
	assert.Equal(t, uint8(0), a)
}

func TestAngleMonotonic(t *testing.T) {
	last := servo.Angle(servo.Voltage(math.MinInt16))
	for raw := int32(math.MinInt16); raw <= math.MaxInt16; raw += 97 {
		a := servo.Angle(servo.Voltage(int16(raw)))
		assert.LessOrEqual(t, a, last)
		assert.LessOrEqual(t, a, uint8(servo.MaxAngle))
		last = a
	}
}
