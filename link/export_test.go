// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package link

// SetState forces the state of m, bypassing the protocol.
func SetState(m *Machine, s State) {
	m.state = s
}
