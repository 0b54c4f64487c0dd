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

	"github.com/q191201771/dvbsi/pkg/mpegts"
)

// Mask is a (pid, tableId, mask) demux filter registration triple: a
// transport adapter programs its section filter to deliver PID pid,
// sections whose table_id & mask == tableId.
type Mask struct {
	Pid     uint16
	TableId uint8
	Mask    uint8
}

const (
	pidEit = 0x12
	pidTdt = 0x14
)

// Filter is the top-level entry point a transport adapter calls once per
// demuxed SI section. It serializes all processing (EIT and TDT alike)
// behind one mutex, owns the EitTablesHash lifetime, and supports the
// on/off + disable-until suspension spec §5 describes.
type Filter struct {
	eit *EitProcessor
	tdt *TdtProcessor

	mu           sync.Mutex
	active       bool
	disableUntil time.Time
	now          func() time.Time
}

func NewFilter(eit *EitProcessor, tdt *TdtProcessor) *Filter {
	return &Filter{
		eit:    eit,
		tdt:    tdt,
		active: true,
		now:    time.Now,
	}
}

// acceptsTdt applies the SetSystemTime/TimeSource gating spec.md §6 lists
// among the config knobs TdtProcessor consumes: only one configured feed is
// allowed to discipline the host clock, identified by the source id a
// transport adapter tags its calls with. TimeTransponder has no carrier in
// Process's (source, pid, data) signature — TDT (table 0x70) itself has no
// tsid field — so it is accepted by Config but not checked here.
func (f *Filter) acceptsTdt(source uint8) bool {
	cfg := f.eit.Config
	if !cfg.SetSystemTime {
		return false
	}
	return cfg.TimeSource == 0 || uint16(source) == cfg.TimeSource
}

// Masks returns the two registrations the core needs from a real demux: PID
// 0x12 with mask (0x40, 0xC0) (table ids 0x40-0x7F, covering the whole EIT
// range) and PID 0x14 with mask (0x70, 0xFF) (TDT only).
func (f *Filter) Masks() []Mask {
	return []Mask{
		{Pid: pidEit, TableId: 0x40, Mask: 0xC0},
		{Pid: pidTdt, TableId: 0x70, Mask: 0xFF},
	}
}

// Process dispatches one raw SI section by PID. Unknown PIDs are ignored.
func (f *Filter) Process(source uint8, pid uint16, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		return
	}
	if now := f.clock(); !f.disableUntil.IsZero() && !now.After(f.disableUntil) {
		return
	}

	switch pid {
	case pidEit:
		eit, ok := mpegts.ParseEit(data)
		if !ok {
			return
		}
		f.eit.Process(source, eit)
	case pidTdt:
		if !f.acceptsTdt(source) {
			return
		}
		tdt, ok := mpegts.ParseTdt(data)
		if !ok {
			return
		}
		f.tdt.Process(tdt.Time)
	}
}

// SetStatus toggles the filter on/off. Turning it off clears all
// accumulated per-service EIT state so a later re-activation starts clean.
func (f *Filter) SetStatus(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
	if !active {
		f.eit.Hash.Clear()
	}
}

// SetDisableUntil suppresses all processing until now is after t.
func (f *Filter) SetDisableUntil(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disableUntil = t
}

func (f *Filter) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}
