// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux && (386 || amd64)
// +build linux
// +build 386 amd64

package servolink

import "golang.org/x/sys/unix"

// ioperm grants the process access to the port range.
// Only the first 0x400 ports can be granted this way.
func ioperm(base int64, length int) error {
	return unix.Ioperm(int(base), length, 1)
}
