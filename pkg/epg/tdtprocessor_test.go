// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg_test

import (
	"testing"
	"time"

	"github.com/q191201771/naza/pkg/assert"

	"github.com/q191201771/dvbsi/pkg/epg"
)

type fakeClock struct {
	sets     []time.Time
	adjusts  []time.Duration
	setErr   error
	adjErr   error
}

func (f *fakeClock) SetClock(t time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, t)
	return nil
}

func (f *fakeClock) AdjustClock(d time.Duration) error {
	if f.adjErr != nil {
		return f.adjErr
	}
	f.adjusts = append(f.adjusts, d)
	return nil
}

func TestTdtProcessorNoAgreementNoAction(t *testing.T) {
	clock := &fakeClock{}
	p := epg.NewTdtProcessor(clock)
	base := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	tick := 0
	p.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	p.Process(base.Add(61 * time.Second)) // first reading, diff ~60s, no agreement yet
	assert.Equal(t, 0, len(clock.sets))
	assert.Equal(t, 0, len(clock.adjusts))
}

func TestTdtProcessorHardSetOnSecondAgreement(t *testing.T) {
	clock := &fakeClock{}
	p := epg.NewTdtProcessor(clock)
	base := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	now1 := base
	p.Now = func() time.Time { return now1 }
	p.Process(base.Add(60 * time.Second)) // diff=60s, first sample

	now2 := base.Add(5 * time.Second)
	p.Now = func() time.Time { return now2 }
	p.Process(now2.Add(60 * time.Second)) // diff still 60s, agrees -> hard set (|60|>10)

	assert.Equal(t, 1, len(clock.sets))
	assert.Equal(t, 0, len(clock.adjusts))
}

func TestTdtProcessorSmoothAdjustWithinThreshold(t *testing.T) {
	clock := &fakeClock{}
	p := epg.NewTdtProcessor(clock)
	base := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	now1 := base
	p.Now = func() time.Time { return now1 }
	p.Process(base.Add(5 * time.Second)) // diff=5s, first sample (> MaxTimeDiffSec=1s, but <= MaxAdjDiffSec=10s)

	now2 := base.Add(400 * time.Second) // past AdjDeltaSec (300s) since lastAdj zero value
	p.Now = func() time.Time { return now2 }
	p.Process(now2.Add(5 * time.Second)) // diff still 5s, agrees -> smooth adjust

	assert.Equal(t, 0, len(clock.sets))
	assert.Equal(t, 1, len(clock.adjusts))
}

func TestTdtProcessorWithinToleranceDoesNothing(t *testing.T) {
	clock := &fakeClock{}
	p := epg.NewTdtProcessor(clock)
	base := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	p.Now = func() time.Time { return base }

	p.Process(base.Add(500 * time.Millisecond)) // within MaxTimeDiffSec
	assert.Equal(t, 0, len(clock.sets))
	assert.Equal(t, 0, len(clock.adjusts))
}
