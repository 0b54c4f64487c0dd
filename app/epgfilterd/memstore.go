// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"sort"
	"sync"
	"time"

	"github.com/q191201771/dvbsi/pkg/base"
	"github.com/q191201771/dvbsi/pkg/epg"
)

// memChannelStore and memScheduleStore are the demo daemon's external
// collaborators: spec.md §1 calls the channel database and schedule store
// out of scope, referenced only through epg's store interfaces, so
// epgfilterd carries the simplest implementation that satisfies them
// rather than a real persistence layer.
type memChannelStore struct {
	mu   sync.Mutex
	byId map[epg.ChannelId]*epg.Channel
}

func newMemChannelStore() *memChannelStore {
	return &memChannelStore{byId: make(map[epg.ChannelId]*epg.Channel)}
}

func (s *memChannelStore) Lock(wait time.Duration) (epg.ChannelsLock, bool) {
	s.mu.Lock()
	return &memChannelsLock{store: s}, true
}

type memChannelsLock struct {
	store *memChannelStore
}

func (l *memChannelsLock) Unlock() {
	l.store.mu.Unlock()
}

func (l *memChannelsLock) GetByChannelId(id epg.ChannelId) (*epg.Channel, bool) {
	ch, ok := l.store.byId[id]
	return ch, ok
}

func (l *memChannelsLock) GetByTransponderId(onid, tsid uint16) (*epg.Channel, bool) {
	for _, ch := range l.store.byId {
		if ch.Id.Onid == onid && ch.Id.Tsid == tsid {
			return ch, true
		}
	}
	return nil, false
}

func (l *memChannelsLock) NewChannel(id epg.ChannelId) *epg.Channel {
	ch := &epg.Channel{Id: id}
	l.store.byId[id] = ch
	return ch
}

func (l *memChannelsLock) Rename(ch *epg.Channel, name string) {
	ch.Name = name
}

func (l *memChannelsLock) SetPortalName(ch *epg.Channel, name string) {
	ch.PortalName = name
}

type memSchedule struct {
	mu          sync.Mutex
	events      []*epg.Event
	presentSeen bool
	actualTp5x  bool
}

func (s *memSchedule) GetEventById(eventId uint16) (*epg.Event, bool) {
	for _, e := range s.events {
		if e.EventId == eventId {
			return e, true
		}
	}
	return nil, false
}

func (s *memSchedule) GetEventByTime(t time.Time) (*epg.Event, bool) {
	for _, e := range s.events {
		if e.StartTime.Equal(t) {
			return e, true
		}
	}
	return nil, false
}

func (s *memSchedule) AddEvent(e *epg.Event) {
	s.events = append(s.events, e)
}

func (s *memSchedule) SetRunningStatus(e *epg.Event, status epg.RunningStatus) {
	e.RunningStatus = status
}

func (s *memSchedule) ClrRunningStatus() {
	for _, e := range s.events {
		e.RunningStatus = epg.RunningStatusUndefined
	}
}

func (s *memSchedule) SetPresentSeen() {
	s.presentSeen = true
}

func (s *memSchedule) OnActualTp(tableId uint8) bool {
	if (tableId & 0xf0) == 0x50 {
		s.actualTp5x = true
	}
	return s.actualTp5x
}

func (s *memSchedule) sortSchedule() {
	sort.Slice(s.events, func(i, j int) bool {
		return s.events[i].StartTime.Before(s.events[j].StartTime)
	})
}

func (s *memSchedule) dropOutdated(segmentStart, segmentEnd time.Time) {
	if segmentStart.IsZero() && segmentEnd.IsZero() {
		return
	}
	kept := s.events[:0]
	for _, e := range s.events {
		if e.EndTime().Before(segmentStart) || e.StartTime.After(segmentEnd) {
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
}

type memScheduleStore struct {
	mu        sync.Mutex
	byChannel map[epg.ChannelId]*memSchedule
}

func newMemScheduleStore() *memScheduleStore {
	return &memScheduleStore{byChannel: make(map[epg.ChannelId]*memSchedule)}
}

func (s *memScheduleStore) Lock(wait time.Duration) (epg.SchedulesLock, bool) {
	s.mu.Lock()
	return &memSchedulesLock{store: s}, true
}

type memSchedulesLock struct {
	store *memScheduleStore
}

func (l *memSchedulesLock) Unlock(modified bool) {
	l.store.mu.Unlock()
}

func (l *memSchedulesLock) GetSchedule(id epg.ChannelId, create bool) epg.Schedule {
	sched, ok := l.store.byChannel[id]
	if !ok {
		if !create {
			return nil
		}
		sched = &memSchedule{}
		l.store.byChannel[id] = sched
	}
	return sched
}

// loggingHandler is the demo daemon's whole handler chain: it accepts every
// default mutation BaseHandler provides and additionally logs each fully
// resolved event, standing in for spec.md's "external EPG-handler plugin
// chain" (also out of scope per spec.md §1).
type loggingHandler struct {
	epg.BaseHandler
}

func (loggingHandler) HandleEvent(ch *epg.Channel, ev *epg.Event) {
	base.Log.Infof("epg: event resolved. channel=%s event=%d title=%q start=%v dur=%v",
		ch.Name, ev.EventId, ev.Title, ev.StartTime, ev.Duration)
}

// scheduleMaintainer runs memSchedule's own sort/prune logic as handler-chain
// calls rather than direct Schedule methods, since the store interface only
// exposes reads and writes, not maintenance.
type scheduleMaintainer struct {
	epg.BaseHandler
}

func (scheduleMaintainer) SortSchedule(sched epg.Schedule) {
	if s, ok := sched.(*memSchedule); ok {
		s.sortSchedule()
	}
}

func (scheduleMaintainer) DropOutdated(sched epg.Schedule, segmentStart, segmentEnd time.Time, tableId uint8, version uint8) {
	if s, ok := sched.(*memSchedule); ok {
		s.dropOutdated(segmentStart, segmentEnd)
	}
}
