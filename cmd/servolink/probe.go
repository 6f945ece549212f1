// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warthog618/servolink/adc"
	"github.com/warthog618/servolink/servo"
)

func init() {
	probeCmd.Flags().UintVarP(&probeOpts.Polls, "polls", "p", 10000, "maximum status polls before giving up")
	rootCmd.AddCommand(probeCmd)
}

var (
	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Check the converter responds",
		Args:  cobra.NoArgs,
		RunE:  probe,
	}
	probeOpts = struct {
		Polls uint
	}{}
)

func probe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	regs, closer, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer closer()
	a := adc.New(regs,
		adc.WithChannel(uint8(cfg.MustGet("channel").Uint())),
		adc.WithGain(adc.Gain(cfg.MustGet("gain").Uint())),
		adc.WithWaitPolicy(adc.WaitPolicy{MaxPolls: probeOpts.Polls}))
	if err = a.Configure(); err != nil {
		if errors.Cause(err) == adc.ErrTimeout {
			fmt.Println("converter not settling")
		}
		return err
	}
	a.ResetFIFO()
	raw, err := a.Read()
	if err != nil {
		if errors.Cause(err) == adc.ErrTimeout {
			fmt.Println("converter stuck busy")
		}
		return err
	}
	v, angle := servo.AngleOf(int16(raw))
	fmt.Printf("converter ok: channel %d, gain x%d, fifo %d\n",
		a.Channel(), a.Gain().Level(), a.FIFODepth())
	fmt.Printf("raw %d: %fV %d\n", raw, v, angle)
	return nil
}
