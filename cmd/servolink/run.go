// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/warthog618/config"
	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/link"
	"github.com/warthog618/servolink/telemetry"
)

func init() {
	runCmd.Flags().String("interval", "", "pause between ticks (default 1us)")
	runCmd.Flags().Uint("period", 0, "ticks between samples (default 50)")
	runCmd.Flags().Uint("ack-timeout", 0, "ticks to wait for an acknowledgement (default forever)")
	runCmd.Flags().String("mqtt-url", "", "publish readings to the MQTT broker at this URL")
	runCmd.Flags().String("serial-port", "", "write readings to this serial port")
	runCmd.Flags().Uint("serial-baud", 0, "serial port baud rate (default 115200)")
	runCmd.SetHelpTemplate(runCmd.HelpTemplate() + extendedRunHelp)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Sample the input and send the servo angle over the link",
	Args:    cobra.NoArgs,
	RunE:    run,
	Example: "  servolink run --simulate --mqtt-url mqtt://localhost/bench/",
}

var extendedRunHelp = `
Configuration:
  Settings are taken from flags, then the environment (SERVOLINK_ prefix,
  e.g. SERVOLINK_ACK_TIMEOUT), then the config file, then the defaults.

The link runs until interrupted or the link fails.
`

func run(cmd *cobra.Command, args []string) error {
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
	glog.Infof("converter configured: channel %d, gain x%d", a.Channel(), a.Gain().Level())
	servolink.SetDirections(regs, servolink.Output, servolink.Output)
	regs.Write8(servolink.RegDIOA, 0)

	rep, closeReporters, err := newReporter(cfg)
	if err != nil {
		return err
	}
	defer closeReporters()

	m := link.New(regs, a,
		link.WithSamplePeriod(uint(cfg.MustGet("period").Uint())),
		link.WithAckTimeout(uint(cfg.MustGet("ack.timeout").Uint())),
		link.WithReporter(rep))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err = link.Run(ctx, m, cfg.MustGet("interval").Duration())
	glog.Infof("link stopped at tick %d after %d samples", m.Tick(), m.Samples())
	if err == context.Canceled {
		return nil
	}
	return err
}

// newReporter returns the reporters selected by cfg, and a function to
// close them.
func newReporter(cfg *config.Config) (telemetry.Reporter, func(), error) {
	rr := telemetry.Multi{telemetry.LogReporter{}}
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				glog.Warning(err)
			}
		}
	}
	if u := cfg.MustGet("mqtt.url").String(); u != "" {
		mr, err := telemetry.NewMQTTReporter(u)
		if err != nil {
			return nil, nil, err
		}
		if err = mr.Connect(); err != nil {
			return nil, nil, err
		}
		glog.Infof("publishing readings to %s", mr.Topic())
		closers = append(closers, mr.Close)
		rr = append(rr, mr)
	}
	if port := cfg.MustGet("serial.port").String(); port != "" {
		sr, err := telemetry.NewSerialReporter(port, int(cfg.MustGet("serial.baud").Int()))
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, sr.Close)
		rr = append(rr, sr)
	}
	return rr, closeAll, nil
}
