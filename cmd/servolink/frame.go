// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warthog618/servolink/link"
)

func init() {
	rootCmd.AddCommand(frameCmd)
}

var frameCmd = &cobra.Command{
	Use:     "frame <angle>",
	Short:   "Print the frame and line levels sent for an angle",
	Args:    cobra.ExactArgs(1),
	RunE:    frame,
	Example: "  servolink frame 75",
}

func frame(cmd *cobra.Command, args []string) error {
	a, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return fmt.Errorf("can't parse angle '%s'", args[0])
	}
	f := link.LoadFrame(uint8(a))
	fmt.Printf("angle %d: frame 0x%03x, %d bits\n", a, uint16(f), f.Len())
	ll := f.Levels()
	fmt.Println(formatLevels(ll[:f.Len()]))
	return nil
}
