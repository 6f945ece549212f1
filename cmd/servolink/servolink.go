// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	goflag "flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/servolink"
	"github.com/warthog618/servolink/adc"
	"github.com/warthog618/servolink/sim"
)

var version = "undefined"

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config-file", "c", "", "configuration file (default servolink.json)")
	pf.Bool("simulate", false, "use a simulated board and servo controller")
	pf.String("base", "", "I/O base address of the board")
	pf.String("device", "", "device providing access to the board registers")
	pf.Uint("channel", 0, "converter input channel")
	pf.Uint("gain", 0, "converter gain code (0-3)")
	pf.Uint("wait-polls", 0, "maximum status polls before a converter wait fails (0 waits forever)")
	pf.AddGoFlagSet(goflag.CommandLine)
}

var rootCmd = &cobra.Command{
	Use:   "servolink",
	Short: "servolink drives a servo controller from an analog input",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog insists on the go flags being parsed.
		goflag.CommandLine.Parse(nil)
	},
	Version: version,
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		glog.Flush()
		os.Exit(1)
	}
}

var defaultConfig = map[string]interface{}{
	"base":         "0x280",
	"length":       servolink.DefaultLength,
	"device":       servolink.PortDevice,
	"channel":      adc.DefaultChannel,
	"gain":         int(adc.DefaultGain),
	"wait.polls":   0,
	"interval":     "1us",
	"period":       50,
	"ack.timeout":  0,
	"settle.polls": 4,
	"busy.polls":   4,
	"simulate":     false,
	"mqtt.url":     "",
	"serial.port":  "",
	"serial.baud":  115200,
}

// loadConfig layers the flags explicitly set on the command line over the
// environment, the config file and the defaults.
func loadConfig(cmd *cobra.Command) *config.Config {
	def := dict.New(dict.WithMap(defaultConfig))
	// highest priority sources first - flags override environment
	cfg := config.New(
		dict.New(dict.WithMap(flagConfig(cmd.Flags()))),
		env.New(env.WithEnvPrefix("SERVOLINK_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "servolink.json", json.NewDecoder()))
	return cfg.GetConfig("", config.WithMust)
}

// flagConfig maps the flags set on the command line to config keys, with
// dashes in flag names separating key path elements.
// Flags that do not correspond to a config key are command options and
// are ignored.
func flagConfig(fs *pflag.FlagSet) map[string]interface{} {
	m := map[string]interface{}{}
	fs.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", ".")
		if _, ok := defaultConfig[key]; ok || key == "config.file" {
			m[key] = f.Value.String()
		}
	})
	return m
}

// openBoard returns the board registers, and a function to release them.
func openBoard(cfg *config.Config) (servolink.Registers, func() error, error) {
	if cfg.MustGet("simulate").Bool() {
		glog.Info("using simulated board")
		return newSimBoard(cfg), func() error { return nil }, nil
	}
	base, err := strconv.ParseInt(cfg.MustGet("base").String(), 0, 64)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid base")
	}
	b, err := servolink.Open(
		servolink.WithBase(base),
		servolink.WithLength(int(cfg.MustGet("length").Int())),
		servolink.WithDevice(cfg.MustGet("device").String()))
	if err != nil {
		return nil, nil, err
	}
	glog.Infof("opened board at 0x%x via %s", b.Base(), cfg.MustGet("device").String())
	return b, b.Close, nil
}

// newSimBoard returns a board with a peer attached, sweeping the input
// through the full bipolar range.
func newSimBoard(cfg *config.Config) *sim.Board {
	b := sim.NewBoard()
	b.SettlePolls = uint(cfg.MustGet("settle.polls").Uint())
	b.BusyPolls = uint(cfg.MustGet("busy.polls").Uint())
	b.Source = func(n int) int16 {
		return int16(math.MaxInt16 * math.Sin(float64(n)/16))
	}
	p := sim.NewPeer()
	p.OnAngle = func(a uint8) {
		glog.V(1).Infof("peer received angle %d", a)
	}
	b.Peer = p
	return b
}

// newController returns a converter controller configured from cfg.
func newController(regs servolink.Registers, cfg *config.Config) *adc.Controller {
	return adc.New(regs,
		adc.WithChannel(uint8(cfg.MustGet("channel").Uint())),
		adc.WithGain(adc.Gain(cfg.MustGet("gain").Uint())),
		adc.WithWaitPolicy(adc.WaitPolicy{
			MaxPolls: uint(cfg.MustGet("wait.polls").Uint()),
		}))
}
