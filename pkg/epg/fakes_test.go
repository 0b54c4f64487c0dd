// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg_test

import (
	"time"

	"github.com/q191201771/dvbsi/pkg/epg"
)

// fakeSchedule is an in-memory Schedule backing one channel, used by tests
// to observe the mutations EitProcessor drives through the handler chain.
type fakeSchedule struct {
	events          []*epg.Event
	presentSeen     bool
	clrRunningCalls int
	actualTp5x      bool
}

func newFakeSchedule() *fakeSchedule {
	return &fakeSchedule{}
}

func (s *fakeSchedule) GetEventById(eventId uint16) (*epg.Event, bool) {
	for _, e := range s.events {
		if e.EventId == eventId {
			return e, true
		}
	}
	return nil, false
}

func (s *fakeSchedule) GetEventByTime(t time.Time) (*epg.Event, bool) {
	for _, e := range s.events {
		if e.StartTime.Equal(t) {
			return e, true
		}
	}
	return nil, false
}

func (s *fakeSchedule) AddEvent(e *epg.Event) {
	s.events = append(s.events, e)
}

func (s *fakeSchedule) SetRunningStatus(e *epg.Event, status epg.RunningStatus) {
	e.RunningStatus = status
}

func (s *fakeSchedule) ClrRunningStatus() {
	s.clrRunningCalls++
	for _, e := range s.events {
		e.RunningStatus = epg.RunningStatusUndefined
	}
}

func (s *fakeSchedule) SetPresentSeen() {
	s.presentSeen = true
}

func (s *fakeSchedule) OnActualTp(tableId uint8) bool {
	return s.actualTp5x
}

// fakeSchedulesLock hands out one fakeSchedule per ChannelId, lazily.
type fakeSchedulesLock struct {
	byChannel map[epg.ChannelId]*fakeSchedule
	modified  *bool
}

func (l *fakeSchedulesLock) GetSchedule(id epg.ChannelId, create bool) epg.Schedule {
	sched, exist := l.byChannel[id]
	if !exist {
		if !create {
			return nil
		}
		sched = newFakeSchedule()
		l.byChannel[id] = sched
	}
	return sched
}

func (l *fakeSchedulesLock) Unlock(modified bool) {
	*l.modified = modified
}

type fakeScheduleStore struct {
	byChannel    map[epg.ChannelId]*fakeSchedule
	lastModified bool
	lockFails    bool
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{byChannel: make(map[epg.ChannelId]*fakeSchedule)}
}

func (s *fakeScheduleStore) Lock(wait time.Duration) (epg.SchedulesLock, bool) {
	if s.lockFails {
		return nil, false
	}
	return &fakeSchedulesLock{byChannel: s.byChannel, modified: &s.lastModified}, true
}

// fakeChannelsLock is the writable channel-store state key.
type fakeChannelsLock struct {
	byId map[epg.ChannelId]*epg.Channel
}

func (l *fakeChannelsLock) Unlock() {}

func (l *fakeChannelsLock) GetByChannelId(id epg.ChannelId) (*epg.Channel, bool) {
	ch, ok := l.byId[id]
	return ch, ok
}

func (l *fakeChannelsLock) GetByTransponderId(onid, tsid uint16) (*epg.Channel, bool) {
	for _, ch := range l.byId {
		if ch.Id.Onid == onid && ch.Id.Tsid == tsid {
			return ch, true
		}
	}
	return nil, false
}

func (l *fakeChannelsLock) NewChannel(id epg.ChannelId) *epg.Channel {
	ch := &epg.Channel{Id: id}
	l.byId[id] = ch
	return ch
}

func (l *fakeChannelsLock) Rename(ch *epg.Channel, name string) {
	ch.Name = name
}

func (l *fakeChannelsLock) SetPortalName(ch *epg.Channel, name string) {
	ch.PortalName = name
}

type fakeChannelStore struct {
	byId      map[epg.ChannelId]*epg.Channel
	lockFails bool
}

func newFakeChannelStore() *fakeChannelStore {
	return &fakeChannelStore{byId: make(map[epg.ChannelId]*epg.Channel)}
}

func (s *fakeChannelStore) Lock(wait time.Duration) (epg.ChannelsLock, bool) {
	if s.lockFails {
		return nil, false
	}
	return &fakeChannelsLock{byId: s.byId}, true
}

func (s *fakeChannelStore) addChannel(id epg.ChannelId) *epg.Channel {
	ch := &epg.Channel{Id: id}
	s.byId[id] = ch
	return ch
}

// recordingHandler embeds BaseHandler and additionally tracks calls tests
// want to assert on.
type recordingHandler struct {
	epg.BaseHandler
	handledEventIds map[uint16]bool
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{handledEventIds: make(map[uint16]bool)}
}

func (h *recordingHandler) HandleEvent(ch *epg.Channel, ev *epg.Event) {
	h.handledEventIds[ev.EventId] = true
}
