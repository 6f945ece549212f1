// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/servolink"
)

func init() {
	monCmd.Flags().DurationVarP(&monOpts.Period, "poll-interval", "p", time.Millisecond, "pause between polls")
	monCmd.Flags().UintVarP(&monOpts.NumEvents, "num-events", "n", 0, "exit after n edges")
	monCmd.Flags().BoolVarP(&monOpts.Quiet, "quiet", "q", false, "don't display event details")
	monCmd.SetHelpTemplate(monCmd.HelpTemplate() + extendedMonHelp)
	rootCmd.AddCommand(monCmd)
}

var extendedMonHelp = `
The board provides no edge interrupts, so pins are polled and edges
shorter than the polling period may be missed.
`

var (
	monCmd = &cobra.Command{
		Use:   "mon <pin1>...",
		Short: "Monitor the level of a pin or pins",
		Long:  `Poll DIO pins for level changes and print them to standard output.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  mon,
	}
	monOpts = struct {
		Period    time.Duration
		Quiet     bool
		NumEvents uint
	}{}
)

func mon(cmd *cobra.Command, args []string) error {
	pp, err := parsePins(args)
	if err != nil {
		return err
	}
	regs, closer, err := openBoard(loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closer()
	pins := make([]*servolink.Pin, len(pp))
	for i, p := range pp {
		pins[i] = servolink.NewPin(regs, p.Port, p.Bit)
		pins[i].Read()
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ticker := time.NewTicker(monOpts.Period)
	defer ticker.Stop()
	count := uint(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			for i, pin := range pins {
				last := pin.Shadow()
				level := pin.Read()
				if level == last {
					continue
				}
				if !monOpts.Quiet {
					edge := "rising"
					if level == servolink.Low {
						edge = "falling"
					}
					fmt.Printf("event: %s %-7s %s\n", pp[i], edge, t.Format(time.RFC3339Nano))
				}
				count++
				if monOpts.NumEvents > 0 && count >= monOpts.NumEvents {
					return nil
				}
			}
		}
	}
}
