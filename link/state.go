// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package link

import "fmt"

// State is the phase of the link protocol.
type State uint8

// Link states.
const (
	// Idle waits for the next sample period, driving the data line.
	Idle State = iota
	// Transmit shifts the frame out on the data line.
	Transmit
	// Acknowledge releases the data line and waits for the peer to raise it.
	Acknowledge
)

var stateNames = map[State]string{
	Idle:        "idle",
	Transmit:    "transmit",
	Acknowledge: "acknowledge",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Valid returns true if s is one of the link states.
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}
