// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strings"

	"github.com/warthog618/servolink"
)

// pinID identifies a DIO pin by port and bit, e.g. A3.
type pinID struct {
	Port servolink.Port
	Bit  int
}

func (p pinID) String() string {
	return fmt.Sprintf("%s%d", p.Port, p.Bit)
}

func parsePins(args []string) ([]pinID, error) {
	pp := []pinID(nil)
	for _, arg := range args {
		p, err := parsePin(arg)
		if err != nil {
			return nil, err
		}
		pp = append(pp, p)
	}
	return pp, nil
}

func parsePin(arg string) (pinID, error) {
	a := strings.ToUpper(arg)
	if len(a) != 2 || a[1] < '0' || a[1] > '7' {
		return pinID{}, fmt.Errorf("can't parse pin '%s'", arg)
	}
	bit := int(a[1] - '0')
	switch a[0] {
	case 'A':
		return pinID{servolink.PortA, bit}, nil
	case 'B':
		return pinID{servolink.PortB, bit}, nil
	}
	return pinID{}, fmt.Errorf("unknown port in pin '%s'", arg)
}

// parsePinLevel parses a <pin>=<level> assignment.
func parsePinLevel(arg string) (pinID, servolink.Level, error) {
	aa := strings.Split(arg, "=")
	if len(aa) != 2 {
		return pinID{}, servolink.Low, fmt.Errorf("invalid pin<->level mapping: %s", arg)
	}
	p, err := parsePin(aa[0])
	if err != nil {
		return pinID{}, servolink.Low, err
	}
	switch strings.ToLower(aa[1]) {
	case "high", "hi", "1":
		return p, servolink.High, nil
	case "low", "lo", "0":
		return p, servolink.Low, nil
	}
	return pinID{}, servolink.Low, fmt.Errorf("can't parse level '%s'", aa[1])
}

func level2Int(l servolink.Level) int {
	if l == servolink.Low {
		return 0
	}
	return 1
}

func formatLevels(ll []servolink.Level) string {
	b := make([]byte, 0, 2*len(ll))
	for i, l := range ll {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, byte('0'+level2Int(l)))
	}
	return string(b)
}
