// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package link

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the pause between ticks.
const DefaultInterval = time.Microsecond

// Run steps the Machine, pausing for interval between ticks, until either
// the Machine returns an error or the ctx is done.
func Run(ctx context.Context, m *Machine, interval time.Duration) error {
	glog.Infof("link running from tick %d, interval %v", m.Tick(), interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := m.Step(); err != nil {
			return err
		}
		if interval > 0 {
			time.Sleep(interval)
		}
	}
}
