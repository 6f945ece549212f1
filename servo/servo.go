// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package servo maps raw converter samples to servo angles.
//
// The converter range of +-5V maps linearly onto 150 degrees of servo
// travel, with -5V at 150 and +5V at 0.  Voltages outside that range are not
// clamped and produce angles outside 0-150, wrapped into a byte.
package servo

// Scaling constants.
const (
	FullScale      = 32768.0
	VoltRange      = 5.0
	MaxAngle       = 150.0
	DegreesPerVolt = 15.0
)

// Voltage converts a raw sample to volts.
func Voltage(raw int16) float64 {
	return float64(raw) / FullScale * VoltRange
}

// Angle converts volts to servo degrees, truncating toward zero.
func Angle(v float64) uint8 {
	// via int64 so negative angles wrap rather than saturate
	return uint8(int64(MaxAngle - (v+VoltRange)*DegreesPerVolt))
}

// AngleOf returns both the voltage and angle corresponding to raw.
func AngleOf(raw int16) (float64, uint8) {
	v := Voltage(raw)
	return v, Angle(v)
}
