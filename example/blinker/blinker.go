// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/link"
)

// This example drives the link clock line, bit 3 of DIO port A, on a board
// at the default base address.
// The pin is toggled high and low at 1Hz with a 50% duty cycle.
// Do not run this with the servo controller connected.
func main() {
	b, err := servolink.Open()
	if err != nil {
		panic(err)
	}
	defer b.Close()
	servolink.SetDirections(b, servolink.Output, servolink.Output)
	pin := servolink.NewPin(b, servolink.PortA, link.ClockBit)
	defer pin.Low()
	// capture exit signals to ensure pin is left low on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	for {
		select {
		case <-time.After(500 * time.Millisecond):
			pin.Toggle()
			fmt.Println("Toggled", pin.Read())
		case <-quit:
			return
		}
	}
}
