// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"net"
	"strconv"
	"time"

	"github.com/q191201771/dvbsi/pkg/base"
)

// hostClock logs what TdtProcessor asked for instead of actually touching
// the OS clock: doing that for real needs a privileged syscall outside
// anything the teacher repo or the rest of the retrieved examples touch, so
// epgfilterd's demo ClockSetter only demonstrates the call pattern.
type hostClock struct{}

func (hostClock) SetClock(t time.Time) error {
	base.Log.Infof("epgfilterd: would set system clock to %v", t)
	return nil
}

func (hostClock) AdjustClock(delta time.Duration) error {
	base.Log.Infof("epgfilterd: would adjust system clock by %v", delta)
	return nil
}

func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, err
	}
	return host, uint16(port), nil
}
