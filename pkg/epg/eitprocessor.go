// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import (
	"strings"
	"time"

	"github.com/q191201771/dvbsi/pkg/base"
	"github.com/q191201771/dvbsi/pkg/mpegts"
)

// linkageTypePremiere is the unstandardized "Premiere World" linkage_type
// convention: a linkage descriptor of this type names a sibling channel
// carrying a time-shifted repeat of the current one.
const linkageTypePremiere = 0xB0

// EitProcessor is the heart of the engine: it is invoked once per parsed
// EIT section and drives all schedule/channel mutation through Handlers.
type EitProcessor struct {
	Config    Config
	Hash      *EitTablesHash
	Channels  ChannelStore
	Schedules ScheduleStore
	Handlers  []Handler

	// Now returns the wall clock; overridable in tests. Defaults to
	// time.Now if left nil, set via NewEitProcessor.
	Now func() time.Time
}

func NewEitProcessor(channels ChannelStore, schedules ScheduleStore, config Config) *EitProcessor {
	return &EitProcessor{
		Config:    config,
		Hash:      NewEitTablesHash(),
		Channels:  channels,
		Schedules: schedules,
		Now:       time.Now,
	}
}

// eventScratch holds the per-event accumulation state threaded through one
// event's descriptor loop; released when the loop body returns.
type eventScratch struct {
	haveShort  bool
	shortLang  string
	shortEvent mpegts.DescriptorShortEvent

	haveExtended bool
	extLang      string
	extendedText strings.Builder

	contents []byte

	haveRating bool
	ratingLang string
	rating     uint8

	havePdc bool
	vps     time.Time

	timeShifted bool

	linkChannels map[uint16]struct{}

	components []Component
}

const maxExtendedTextLen = 4096

// Process parses one already-decoded EIT section (source identifies the
// satellite/cable/terrestrial origin carrying it) and mutates the schedule
// and channel stores through the handler chain. It never returns an error:
// every failure mode in spec is a silent drop.
func (p *EitProcessor) Process(source uint8, eit mpegts.Eit) {
	tableId := eit.TableId
	if tableId == mpegts.TsPsiIdEitPfOther {
		return
	}

	now := p.now()

	tables := p.Hash.GetOrCreate(eit.ServiceId)
	process := tables.Check(tableId, eit.VersionNumber, eit.SectionNumber)
	if tableId != mpegts.TsPsiIdEitPf && !process {
		return
	}

	if now.Before(base.ValidTime) {
		return
	}

	channelsLock, ok := p.Channels.Lock(base.StateLockWait)
	if !ok {
		return
	}
	defer channelsLock.Unlock()

	schedulesLock, ok := p.Schedules.Lock(base.StateLockWait)
	if !ok {
		return
	}
	modified := false
	defer func() { schedulesLock.Unlock(modified) }()

	channelId := ChannelId{Source: source, Onid: eit.OriginalNetworkId, Tsid: eit.TransportStreamId, ServiceId: eit.ServiceId}
	channel, ok := channelsLock.GetByChannelId(channelId)
	if !ok || p.handlerIgnoreChannel(channel) {
		return
	}

	schedule := schedulesLock.GetSchedule(channelId, true)

	if schedule.OnActualTp(tableId) && (tableId&0xF0) == 0x60 {
		return
	}

	if !p.handlerBeginSegmentTransfer(channel) {
		return
	}

	handledExternally := p.handlerHandledExternally(channel)

	var segmentStart, segmentEnd time.Time
	linger := time.Duration(base.EpgLingerTimeSec) * time.Second

	for _, ev := range eit.Events {
		if p.handlerHandleEitEvent(channel, schedule, tableId, ev.EventId) {
			continue
		}

		if !ev.StartTimeAllOnes {
			if ev.StartTime.IsZero() {
				continue
			}
			if ev.Duration == 0 {
				continue
			}
			if ev.StartTime.Add(ev.Duration).Before(now.Add(-linger)) {
				continue
			}

			if segmentStart.IsZero() || ev.StartTime.Before(segmentStart) {
				segmentStart = ev.StartTime
			}
			if end := ev.StartTime.Add(ev.Duration); end.After(segmentEnd) {
				segmentEnd = end
			}
			if tableId == mpegts.TsPsiIdEitPf {
				if eit.SectionNumber == 0 {
					tables.SetTableStart(segmentStart)
				} else {
					tables.SetTableEnd(segmentEnd)
				}
			}
		}

		event, found := p.resolveEvent(channel, schedule, handledExternally, tableId, ev)
		if found {
			event.Seen = true
			floor := event.TableId
			if floor < eitTableIdBase {
				floor = eitTableIdBase
			}
			if floor == eitTableIdBase && tableId != eitTableIdBase {
				continue
			}

			oldStart, oldDuration := event.StartTime, event.Duration
			p.setEventId(event, ev.EventId)
			p.setStartTime(event, ev.StartTime)
			p.setDuration(event, ev.Duration)
			modified = true
			if event.HasTimer && (!oldStart.Equal(event.StartTime) || oldDuration != event.Duration) {
				base.Log.Infof("epg: event %d start/duration changed while a timer is active", event.EventId)
			}

			if event.TableId > eitTableIdBase {
				event.TableId = tableId
			}
		} else if !handledExternally {
			modified = true
		}

		if tableId == eitTableIdBase {
			modified = p.applyRunningStatus(schedule, event, eit.SectionNumber, ev.RunningStatus) || modified
			if !process {
				continue
			}
		}

		event.Version = eit.VersionNumber

		scratch := p.runDescriptors(now, channelsLock, schedulesLock, channel, event, ev, tableId)
		p.finalizeEvent(channel, event, scratch)
		if !handledExternally {
			modified = true
		}
	}

	if tableId == eitTableIdBase && len(eit.Events) == 0 && eit.SectionNumber == 0 {
		schedule.ClrRunningStatus()
		schedule.SetPresentSeen()
		modified = true
	}

	processed := tables.Processed(tableId, eit.LastTableId, eit.SectionNumber, eit.LastSectionNumber, eit.SegmentLastSectionNumber)
	if processed && (tableId >= mpegts.TsPsiIdEitScheduleMin || tables.Complete()) && modified {
		if tableId == eitTableIdBase && tables.Complete() {
			segmentStart = tables.TableStart()
			segmentEnd = tables.TableEnd()
		}
		p.handlerSortSchedule(schedule)
		p.handlerDropOutdated(schedule, segmentStart, segmentEnd, tableId, eit.VersionNumber)
	}

	p.handlerEndSegmentTransfer(modified)
}

func (p *EitProcessor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// resolveEvent finds the existing event this section row refers to, or
// constructs a fresh one. For a handled-externally channel the real
// schedule is never searched or written to; instead the handler chain's
// IsUpdate decides whether the freshly-built transient event should be
// treated as an update to an object the external handler already owns.
func (p *EitProcessor) resolveEvent(channel *Channel, schedule Schedule, handledExternally bool, tableId uint8, ev mpegts.EitEvent) (event *Event, found bool) {
	if !handledExternally {
		if tableId == eitTableIdBase || (tableId&0xF0) == 0x50 {
			event, found = schedule.GetEventById(ev.EventId)
		} else {
			event, found = schedule.GetEventByTime(ev.StartTime)
		}
	}

	if found {
		return event, true
	}

	event = &Event{
		EventId:          ev.EventId,
		StartTime:        ev.StartTime,
		StartTimeAllOnes: ev.StartTimeAllOnes,
		Duration:         ev.Duration,
		TableId:          tableId,
	}
	if !handledExternally {
		schedule.AddEvent(event)
		return event, false
	}

	return event, p.handlerIsUpdate(channel, event)
}

// applyRunningStatus implements the present/following running-status
// glitch correction: a broadcaster-reported transition to NotRunning is
// treated as bogus and overridden: in section 0 a Pausing event stays
// Pausing, in section 1 the status falls back to Undefined.
func (p *EitProcessor) applyRunningStatus(schedule Schedule, event *Event, sectionNumber uint8, raw uint8) (modified bool) {
	rs := RunningStatus(raw)
	if rs < RunningStatusNotRunning {
		return false
	}

	if rs != event.RunningStatus && rs == RunningStatusNotRunning {
		switch sectionNumber {
		case 0:
			if event.RunningStatus == RunningStatusPausing {
				rs = RunningStatusPausing
			}
		case 1:
			rs = RunningStatusUndefined
		}
	}

	schedule.SetRunningStatus(event, rs)
	event.RunningStatus = rs
	return true
}

func (p *EitProcessor) runDescriptors(now time.Time, channelsLock ChannelsLock, schedulesLock SchedulesLock, channel *Channel, event *Event, ev mpegts.EitEvent, tableId uint8) *eventScratch {
	scratch := &eventScratch{}

	for _, d := range ev.Descriptors {
		switch d.Tag {
		case mpegts.DescriptorTagShortEvent:
			rank := languageRank(p.Config.EPGLanguages, d.ShortEvent.LanguageCode)
			if !scratch.haveShort || rank < languageRank(p.Config.EPGLanguages, scratch.shortLang) {
				scratch.haveShort = true
				scratch.shortLang = d.ShortEvent.LanguageCode
				scratch.shortEvent = d.ShortEvent
			}

		case mpegts.DescriptorTagExtendedEvent:
			rank := languageRank(p.Config.EPGLanguages, d.ExtendedEvent.LanguageCode)
			if scratch.haveExtended {
				curRank := languageRank(p.Config.EPGLanguages, scratch.extLang)
				if rank > curRank {
					continue
				}
				if rank < curRank {
					scratch.extLang = d.ExtendedEvent.LanguageCode
					scratch.extendedText.Reset()
				}
			} else {
				scratch.haveExtended = true
				scratch.extLang = d.ExtendedEvent.LanguageCode
			}
			appendExtendedEventText(&scratch.extendedText, d.ExtendedEvent)

		case mpegts.DescriptorTagContent:
			for _, e := range d.Content.Entries {
				if len(scratch.contents) >= base.MaxEventContents {
					break
				}
				scratch.contents = append(scratch.contents, e.Nibble1<<4|e.Nibble2)
			}

		case mpegts.DescriptorTagParentalRating:
			for _, e := range d.ParentalRating.Entries {
				rank := languageRank(p.Config.EPGLanguages, e.CountryCode)
				if !scratch.haveRating || rank < languageRank(p.Config.EPGLanguages, scratch.ratingLang) {
					scratch.haveRating = true
					scratch.ratingLang = e.CountryCode
					scratch.rating = mapParentalRating(e.Rating)
				}
			}

		case mpegts.DescriptorTagPdc:
			scratch.havePdc = true
			scratch.vps = computeVps(now, d.Pdc.Day, d.Pdc.Month, d.Pdc.Hour, d.Pdc.Minute)

		case mpegts.DescriptorTagTimeShiftedEvent:
			if p.applyTimeShiftedEvent(schedulesLock, channel, event, d.TimeShiftedEvent) {
				scratch.timeShifted = true
			}

		case mpegts.DescriptorTagLinkage:
			p.handleLinkage(now, channelsLock, channel, ev, d.Linkage, scratch)

		case mpegts.DescriptorTagComponent:
			if comp, ok := normalizeComponent(d.Component); ok {
				scratch.components = append(scratch.components, comp)
			}

		default:
			// unrecognized tags are ignored, per spec
		}
	}

	return scratch
}

func (p *EitProcessor) finalizeEvent(channel *Channel, event *Event, scratch *eventScratch) {
	if !scratch.timeShifted {
		if scratch.haveShort {
			p.setTitle(event, string(scratch.shortEvent.EventName))
			p.setShortText(event, string(scratch.shortEvent.Text))
		} else {
			p.setTitle(event, "")
			p.setShortText(event, "")
		}
		if scratch.haveExtended {
			p.setDescription(event, scratch.extendedText.String())
		} else {
			p.setDescription(event, "")
		}
	}

	p.setComponents(event, scratch.components)

	if scratch.haveRating {
		p.setParentalRating(event, scratch.rating)
	}
	if scratch.havePdc {
		p.setVps(event, scratch.vps)
	}
	if len(scratch.contents) > 0 {
		p.setContents(event, scratch.contents)
	}

	p.fixEpgBugs(event)

	if len(scratch.linkChannels) > 0 {
		if channel.LinkChannels == nil {
			channel.LinkChannels = make(map[uint16]struct{})
		}
		for id := range scratch.linkChannels {
			channel.LinkChannels[id] = struct{}{}
		}
	}

	p.handleEvent(channel, event)
}

func (p *EitProcessor) applyTimeShiftedEvent(schedulesLock SchedulesLock, channel *Channel, event *Event, ts mpegts.DescriptorTimeShiftedEvent) bool {
	refId := ChannelId{Source: channel.Id.Source, Onid: channel.Id.Onid, Tsid: channel.Id.Tsid, ServiceId: ts.ReferenceServiceId}
	refSchedule := schedulesLock.GetSchedule(refId, false)
	if refSchedule == nil {
		return false
	}
	ref, ok := refSchedule.GetEventById(ts.ReferenceEventId)
	if !ok {
		return false
	}
	p.setTitle(event, ref.Title)
	p.setShortText(event, ref.ShortText)
	p.setDescription(event, ref.Description)
	return true
}

func (p *EitProcessor) handleLinkage(now time.Time, channelsLock ChannelsLock, channel *Channel, ev mpegts.EitEvent, l mpegts.DescriptorLinkage, scratch *eventScratch) {
	if l.LinkageType != linkageTypePremiere {
		return
	}
	if now.Before(ev.StartTime) || now.After(ev.StartTime.Add(ev.Duration)) {
		return
	}

	name := decodeLinkName(l.PrivateData)
	linkedId := ChannelId{Source: channel.Id.Source, Onid: l.OriginalNetworkId, Tsid: l.TransportStreamId, ServiceId: l.ServiceId}

	linked, exists := channelsLock.GetByChannelId(linkedId)
	if exists {
		if linked.Id == channel.Id {
			channelsLock.SetPortalName(linked, name)
		} else if p.Config.UpdateChannels >= 1 && p.Config.UpdateChannels != 2 {
			channelsLock.Rename(linked, name)
		}
		if scratch.linkChannels == nil {
			scratch.linkChannels = make(map[uint16]struct{})
		}
		scratch.linkChannels[l.ServiceId] = struct{}{}
		return
	}

	if p.Config.UpdateChannels >= 4 {
		if _, ok := channelsLock.GetByTransponderId(l.OriginalNetworkId, l.TransportStreamId); ok {
			linked = channelsLock.NewChannel(linkedId)
			channelsLock.Rename(linked, name)
			if scratch.linkChannels == nil {
				scratch.linkChannels = make(map[uint16]struct{})
			}
			scratch.linkChannels[l.ServiceId] = struct{}{}
		}
	}
}

// decodeLinkName passes the Premiere linkage private_data bytes through
// unchanged: the character encoding is not standardized, spec.md's Open
// Question says callers normalize it.
func decodeLinkName(b []byte) string {
	return string(b)
}

func normalizeComponent(c mpegts.DescriptorComponent) (Component, bool) {
	switch {
	case c.StreamContent >= 1 && c.StreamContent <= 6 && c.ComponentType != 0:
		return Component{
			StreamContent: c.StreamContent,
			ComponentType: c.ComponentType,
			LanguageCode:  normalizeLanguage(c.LanguageCode),
			Description:   string(c.Text),
		}, true
	case c.StreamContent == 9 && c.StreamContentExt < 2:
		return Component{
			StreamContent: c.StreamContentExt<<4 | c.StreamContent,
			ComponentType: c.ComponentType,
			LanguageCode:  normalizeLanguage(c.LanguageCode),
			Description:   string(c.Text),
		}, true
	default:
		return Component{}, false
	}
}

func normalizeLanguage(code string) string {
	return strings.ToLower(code)
}

// languageRank returns how preferred lang is (lower is better); a language
// absent from prefs ranks worst.
func languageRank(prefs []string, lang string) int {
	for i, p := range prefs {
		if strings.EqualFold(p, lang) {
			return i
		}
	}
	return len(prefs)
}

func appendExtendedEventText(b *strings.Builder, ext mpegts.DescriptorExtendedEvent) {
	for _, item := range ext.Items {
		if b.Len() >= maxExtendedTextLen {
			return
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(item.Description))
		b.WriteString(": ")
		b.WriteString(string(item.Item))
	}
	if len(ext.Text) > 0 && b.Len() < maxExtendedTextLen {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(ext.Text))
	}
}

// ----- handler chain fan-out --------------------------------------------------------------------------------------

func (p *EitProcessor) handlerIgnoreChannel(ch *Channel) bool {
	for _, h := range p.Handlers {
		if h.IgnoreChannel(ch) {
			return true
		}
	}
	return false
}

func (p *EitProcessor) handlerBeginSegmentTransfer(ch *Channel) bool {
	for _, h := range p.Handlers {
		if !h.BeginSegmentTransfer(ch) {
			return false
		}
	}
	return true
}

func (p *EitProcessor) handlerEndSegmentTransfer(modified bool) {
	for _, h := range p.Handlers {
		h.EndSegmentTransfer(modified)
	}
}

func (p *EitProcessor) handlerHandleEitEvent(ch *Channel, sched Schedule, tableId uint8, eventId uint16) bool {
	for _, h := range p.Handlers {
		if h.HandleEitEvent(ch, sched, tableId, eventId) {
			return true
		}
	}
	return false
}

func (p *EitProcessor) handlerHandledExternally(ch *Channel) bool {
	for _, h := range p.Handlers {
		if h.HandledExternally(ch) {
			return true
		}
	}
	return false
}

func (p *EitProcessor) handlerIsUpdate(ch *Channel, ev *Event) bool {
	for _, h := range p.Handlers {
		if h.IsUpdate(ch, ev) {
			return true
		}
	}
	return false
}

func (p *EitProcessor) handlerSortSchedule(sched Schedule) {
	for _, h := range p.Handlers {
		h.SortSchedule(sched)
	}
}

func (p *EitProcessor) handlerDropOutdated(sched Schedule, segmentStart, segmentEnd time.Time, tableId uint8, version uint8) {
	for _, h := range p.Handlers {
		h.DropOutdated(sched, segmentStart, segmentEnd, tableId, version)
	}
}

func (p *EitProcessor) setEventId(ev *Event, id uint16) {
	for _, h := range p.Handlers {
		h.SetEventId(ev, id)
	}
}

func (p *EitProcessor) setStartTime(ev *Event, t time.Time) {
	for _, h := range p.Handlers {
		h.SetStartTime(ev, t)
	}
}

func (p *EitProcessor) setDuration(ev *Event, d time.Duration) {
	for _, h := range p.Handlers {
		h.SetDuration(ev, d)
	}
}

func (p *EitProcessor) setTitle(ev *Event, title string) {
	for _, h := range p.Handlers {
		h.SetTitle(ev, title)
	}
}

func (p *EitProcessor) setShortText(ev *Event, text string) {
	for _, h := range p.Handlers {
		h.SetShortText(ev, text)
	}
}

func (p *EitProcessor) setDescription(ev *Event, desc string) {
	for _, h := range p.Handlers {
		h.SetDescription(ev, desc)
	}
}

func (p *EitProcessor) setContents(ev *Event, contents []byte) {
	for _, h := range p.Handlers {
		h.SetContents(ev, contents)
	}
}

func (p *EitProcessor) setParentalRating(ev *Event, rating uint8) {
	for _, h := range p.Handlers {
		h.SetParentalRating(ev, rating)
	}
}

func (p *EitProcessor) setVps(ev *Event, vps time.Time) {
	for _, h := range p.Handlers {
		h.SetVps(ev, vps)
	}
}

func (p *EitProcessor) setComponents(ev *Event, components []Component) {
	for _, h := range p.Handlers {
		h.SetComponents(ev, components)
	}
}

func (p *EitProcessor) fixEpgBugs(ev *Event) {
	for _, h := range p.Handlers {
		h.FixEpgBugs(ev)
	}
}

func (p *EitProcessor) handleEvent(ch *Channel, ev *Event) {
	for _, h := range p.Handlers {
		h.HandleEvent(ch, ev)
	}
}
