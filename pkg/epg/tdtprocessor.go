// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import (
	"sync"
	"time"

	"github.com/q191201771/dvbsi/pkg/base"
)

// ClockSetter is the external collaborator that actually moves the host
// wall clock. A hard set replaces it outright; a smooth adjustment nudges
// it by delta without a discontinuity.
type ClockSetter interface {
	SetClock(t time.Time) error
	AdjustClock(delta time.Duration) error
}

// TdtProcessor disciplines the host clock against DVB TDT sections using a
// two-sample agreement check plus hysteresis, so a single broadcaster
// glitch never moves the clock. Per spec §5, the filter-level mutex
// already serializes calls into Process, making the inner mutex here
// redundant; it is kept anyway since TdtProcessor is usable standalone.
type TdtProcessor struct {
	Clock ClockSetter
	Now   func() time.Time

	mu      sync.Mutex
	oldTime time.Time
	oldDiff time.Duration
	lastAdj time.Time
}

func NewTdtProcessor(clock ClockSetter) *TdtProcessor {
	return &TdtProcessor{Clock: clock, Now: time.Now}
}

// Process ingests one parsed DVB time reading and applies the hysteresis
// state machine described in spec §4.5.
func (p *TdtProcessor) Process(dvbTime time.Time) {
	now := p.now()
	diff := dvbTime.Sub(now)

	maxTimeDiff := time.Duration(base.MaxTimeDiffSec) * time.Second
	if abs(diff) <= maxTimeDiff {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	agree := !p.oldTime.Equal(dvbTime) && p.oldDiff == diff
	if agree {
		maxAdjDiff := time.Duration(base.MaxAdjDiffSec) * time.Second
		adjDelta := time.Duration(base.AdjDeltaSec) * time.Second

		if abs(diff) > maxAdjDiff {
			if err := p.Clock.SetClock(dvbTime); err != nil {
				base.Log.Errorf("epg: failed to set system clock. err=%v", err)
			} else {
				base.Log.Infof("epg: set system clock to %v (diff=%v)", dvbTime, diff)
				p.lastAdj = now
			}
		} else if now.Sub(p.lastAdj) >= adjDelta {
			if err := p.Clock.AdjustClock(diff); err != nil {
				base.Log.Errorf("epg: failed to adjust system clock. err=%v", err)
			} else {
				base.Log.Infof("epg: adjusted system clock by %v", diff)
				p.lastAdj = now
			}
		}
	}

	p.oldTime = dvbTime
	p.oldDiff = diff
}

func (p *TdtProcessor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
