// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/servolink"
)

func init() {
	getCmd.Flags().BoolVarP(&getOpts.All, "all", "a", false, "get the levels of all pins")
	getCmd.Flags().BoolVarP(&getOpts.Input, "input", "i", false, "set both ports to input before reading")
	getCmd.Flags().BoolVarP(&getOpts.Short, "short", "s", false, "single line output format")
	getCmd.SetHelpTemplate(getCmd.HelpTemplate() + extendedGetHelp)
	rootCmd.AddCommand(getCmd)
}

var (
	getCmd = &cobra.Command{
		Use:     "get <pin1>...",
		Short:   "Read the level of a pin or pins",
		Example: "  servolink get A3 b0",
		PreRunE: preget,
		RunE:    get,
	}
	getOpts = struct {
		Input bool
		Short bool
		All   bool
	}{}
)

var extendedGetHelp = `
Pins:
  Pins are identified by port and bit, A0-A7 and B0-B7, case insensitive.

Reading an output pin returns the level last written to it.
The direction register is write-only, so --input sets both ports to input.
`

func preget(cmd *cobra.Command, args []string) error {
	if !getOpts.All {
		return cobra.MinimumNArgs(1)(cmd, args)
	}
	return nil
}

func get(cmd *cobra.Command, args []string) (err error) {
	var pp []pinID
	if getOpts.All {
		for _, port := range []servolink.Port{servolink.PortA, servolink.PortB} {
			for bit := 0; bit < 8; bit++ {
				pp = append(pp, pinID{port, bit})
			}
		}
	} else {
		pp, err = parsePins(args)
		if err != nil {
			return err
		}
	}
	regs, closer, err := openBoard(loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closer()
	if getOpts.Input {
		servolink.SetDirections(regs, servolink.Input, servolink.Input)
	}
	vv := make([]servolink.Level, len(pp))
	for i, p := range pp {
		vv[i] = servolink.NewPin(regs, p.Port, p.Bit).Read()
	}
	if getOpts.Short {
		printValuesShort(vv)
	} else {
		printValues(pp, vv)
	}
	return nil
}

func printValues(pp []pinID, vv []servolink.Level) {
	for i, p := range pp {
		fmt.Printf("pin %s: %t\n", p, vv[i])
	}
}

func printValuesShort(vv []servolink.Level) {
	fmt.Println(formatLevels(vv))
}
