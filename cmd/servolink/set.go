// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"github.com/spf13/cobra"
	"github.com/warthog618/servolink"
)

func init() {
	setCmd.SetHelpTemplate(setCmd.HelpTemplate() + extendedSetHelp)
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:     "set <pin1>=<level1>...",
	Short:   "Set the level of a pin or pins",
	Args:    cobra.MinimumNArgs(1),
	RunE:    set,
	Example: "  servolink set A3=high b0=0",
}

var extendedSetHelp = `
Pins:
  Pins are identified by port and bit, A0-A7 and B0-B7, case insensitive.

Levels:
  Levels may be [high|hi|1|low|lo|0] and are case insensitive.

The direction register is write-only, so setting a pin forces both ports
into output mode.  Each port is written once, so pins within a port change
together.
`

// portMask collects the bits to set and clear in a port.
type portMask struct {
	set   uint8
	clear uint8
}

func set(cmd *cobra.Command, args []string) error {
	masks, err := parseAssignments(args)
	if err != nil {
		return err
	}
	regs, closer, err := openBoard(loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closer()
	servolink.SetDirections(regs, servolink.Output, servolink.Output)
	writePorts(regs, masks)
	return nil
}

// parseAssignments collects <pin>=<level> assignments into per-port masks.
// Later assignments to a pin override earlier ones.
func parseAssignments(args []string) (map[servolink.Port]*portMask, error) {
	masks := map[servolink.Port]*portMask{}
	for _, arg := range args {
		p, v, err := parsePinLevel(arg)
		if err != nil {
			return nil, err
		}
		pm := masks[p.Port]
		if pm == nil {
			pm = &portMask{}
			masks[p.Port] = pm
		}
		bit := uint8(1) << uint(p.Bit)
		if v == servolink.High {
			pm.set |= bit
			pm.clear &^= bit
		} else {
			pm.clear |= bit
			pm.set &^= bit
		}
	}
	return masks, nil
}

// writePorts applies the masks to the port latches, preserving the other
// bits of each port.
func writePorts(regs servolink.Registers, masks map[servolink.Port]*portMask) {
	for _, port := range []servolink.Port{servolink.PortA, servolink.PortB} {
		pm := masks[port]
		if pm == nil {
			continue
		}
		v := regs.Read8(uint8(port))
		regs.Write8(uint8(port), v&^pm.clear|pm.set)
	}
}
