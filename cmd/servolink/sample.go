// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/servolink/servo"
)

func init() {
	sampleCmd.Flags().UintVarP(&sampleOpts.Count, "count", "n", 1, "number of samples to take")
	sampleCmd.Flags().BoolVarP(&sampleOpts.Short, "short", "s", false, "print only the angles")
	rootCmd.AddCommand(sampleCmd)
}

var (
	sampleCmd = &cobra.Command{
		Use:   "sample",
		Short: "Read the input and print the raw value, voltage and angle",
		Args:  cobra.NoArgs,
		RunE:  sample,
	}
	sampleOpts = struct {
		Count uint
		Short bool
	}{}
)

func sample(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	regs, closer, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer closer()
	a := newController(regs, cfg)
	if err = a.Configure(); err != nil {
		return err
	}
	for i := uint(0); i < sampleOpts.Count; i++ {
		raw, err := a.Read()
		if err != nil {
			return err
		}
		v, angle := servo.AngleOf(int16(raw))
		if sampleOpts.Short {
			fmt.Println(angle)
			continue
		}
		fmt.Printf("raw %6d: %9.6fV %3d\n", raw, v, angle)
	}
	return nil
}
