// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import "time"

// Schedule is the writable view over one channel's events, obtained from
// ScheduleStore while its state key is held, <spec §6 Schedule store
// interface>.
type Schedule interface {
	GetEventById(eventId uint16) (*Event, bool)
	GetEventByTime(startTime time.Time) (*Event, bool)
	AddEvent(e *Event)
	SetRunningStatus(e *Event, status RunningStatus)
	ClrRunningStatus()
	SetPresentSeen()
	// OnActualTp reports whether an event sourced from a 0x5X section has
	// already been recorded on this schedule.
	OnActualTp(tableId uint8) bool
}

// SchedulesLock is the bounded-wait writable state key over the schedule
// store. Unlock reports whether anything was mutated while held, matching
// EndSegmentTransfer's "modified" hint.
type SchedulesLock interface {
	Unlock(modified bool)
	GetSchedule(id ChannelId, create bool) Schedule
}

type ScheduleStore interface {
	Lock(wait time.Duration) (SchedulesLock, bool)
}

// ChannelsLock is the bounded-wait writable state key over the channel
// store.
type ChannelsLock interface {
	Unlock()
	GetByChannelId(id ChannelId) (ch *Channel, ok bool)
	GetByTransponderId(onid, tsid uint16) (ch *Channel, ok bool)
	NewChannel(id ChannelId) *Channel
	Rename(ch *Channel, name string)
	SetPortalName(ch *Channel, name string)
}

type ChannelStore interface {
	Lock(wait time.Duration) (ChannelsLock, bool)
}

// Handler is the EPG handler chain's capability set, <spec §6 Handler
// chain>. EitProcessor holds an ordered slice of Handlers: HandleEitEvent
// uses first-match-stops semantics (a true return means "fully handled,
// skip"), every other method is called on all handlers in order
// (accumulate semantics).
//
// BaseHandler embeds as a no-op default so a plugin only overrides the
// methods it cares about.
type Handler interface {
	IgnoreChannel(ch *Channel) bool
	BeginSegmentTransfer(ch *Channel) bool
	EndSegmentTransfer(modified bool)
	HandleEitEvent(ch *Channel, sched Schedule, tableId uint8, eventId uint16) bool
	IsUpdate(ch *Channel, ev *Event) bool
	HandledExternally(ch *Channel) bool

	SetEventId(ev *Event, id uint16)
	SetStartTime(ev *Event, t time.Time)
	SetDuration(ev *Event, d time.Duration)
	SetTitle(ev *Event, title string)
	SetShortText(ev *Event, text string)
	SetDescription(ev *Event, desc string)
	SetContents(ev *Event, contents []byte)
	SetParentalRating(ev *Event, rating uint8)
	SetVps(ev *Event, vps time.Time)
	SetComponents(ev *Event, components []Component)

	FixEpgBugs(ev *Event)
	SortSchedule(sched Schedule)
	DropOutdated(sched Schedule, segmentStart, segmentEnd time.Time, tableId uint8, version uint8)
	HandleEvent(ch *Channel, ev *Event)
}

// BaseHandler implements Handler with the identity/no-op behavior: every
// Set* writes straight onto the event, gates return false/true in the
// sense that lets processing proceed, and segment transfer is always
// permitted. Embed it in a concrete handler and override only what needs
// to differ.
type BaseHandler struct{}

func (BaseHandler) IgnoreChannel(*Channel) bool        { return false }
func (BaseHandler) BeginSegmentTransfer(*Channel) bool { return true }
func (BaseHandler) EndSegmentTransfer(bool)             {}
func (BaseHandler) HandleEitEvent(*Channel, Schedule, uint8, uint16) bool { return false }
func (BaseHandler) IsUpdate(*Channel, *Event) bool      { return false }
func (BaseHandler) HandledExternally(*Channel) bool     { return false }

func (BaseHandler) SetEventId(ev *Event, id uint16)           { ev.EventId = id }
func (BaseHandler) SetStartTime(ev *Event, t time.Time)       { ev.StartTime = t }
func (BaseHandler) SetDuration(ev *Event, d time.Duration)    { ev.Duration = d }
func (BaseHandler) SetTitle(ev *Event, title string)          { ev.Title = title }
func (BaseHandler) SetShortText(ev *Event, text string)       { ev.ShortText = text }
func (BaseHandler) SetDescription(ev *Event, desc string)     { ev.Description = desc }
func (BaseHandler) SetContents(ev *Event, contents []byte)    { ev.Contents = contents }
func (BaseHandler) SetParentalRating(ev *Event, rating uint8) { ev.ParentalRating = rating }
func (BaseHandler) SetVps(ev *Event, vps time.Time)           { ev.Vps = vps }
func (BaseHandler) SetComponents(ev *Event, components []Component) { ev.Components = components }

func (BaseHandler) FixEpgBugs(*Event)    {}
func (BaseHandler) SortSchedule(Schedule) {}
func (BaseHandler) DropOutdated(Schedule, time.Time, time.Time, uint8, uint8) {}
func (BaseHandler) HandleEvent(*Channel, *Event) {}
