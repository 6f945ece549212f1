// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package telemetry reports the readings transmitted over the link.
//
// Reports are advisory only and a failing Reporter never stalls the link.
package telemetry

import (
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// Reading is a single sample as transmitted to the servo controller.
type Reading struct {
	Index   uint64  `json:"index"`
	Tick    uint64  `json:"tick"`
	Raw     int16   `json:"raw"`
	Voltage float64 `json:"voltage"`
	Angle   uint8   `json:"angle"`
}

func (r Reading) String() string {
	return fmt.Sprintf("sample #%d:\ttick %d\t%d\t%f\t%d\t0x%02x",
		r.Index, r.Tick, r.Raw, r.Voltage, r.Angle, r.Angle)
}

// Reporter receives each Reading as it is taken.
type Reporter interface {
	Report(Reading) error
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(Reading) error

// Report calls f(r).
func (f ReporterFunc) Report(r Reading) error {
	return f(r)
}

// Multi reports to each of its Reporters in turn.
// All Reporters are called, and the first error is returned.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(r Reading) error {
	var first error
	for _, rep := range m {
		if err := rep.Report(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogReporter logs readings at info level.
type LogReporter struct{}

// Report implements Reporter.
func (LogReporter) Report(r Reading) error {
	glog.Info(r)
	return nil
}

// WriterReporter writes readings, one per line, to a Writer.
type WriterReporter struct {
	w   io.Writer
	eol string
}

// NewWriterReporter creates a WriterReporter terminating each line with eol.
func NewWriterReporter(w io.Writer, eol string) *WriterReporter {
	return &WriterReporter{w: w, eol: eol}
}

// Report implements Reporter.
func (wr *WriterReporter) Report(r Reading) error {
	_, err := io.WriteString(wr.w, r.String()+wr.eol)
	return err
}

// SerialReporter writes readings to a serial console.
type SerialReporter struct {
	WriterReporter
	port *serial.Port
}

// NewSerialReporter opens the named serial port.
func NewSerialReporter(name string, baud int) (*SerialReporter, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	return &SerialReporter{
		WriterReporter: WriterReporter{w: port, eol: "\r\n"},
		port:           port,
	}, nil
}

// Close closes the serial port.
func (sr *SerialReporter) Close() error {
	return sr.port.Close()
}
