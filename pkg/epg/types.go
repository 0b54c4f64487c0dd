// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import "time"

// RunningStatus mirrors the DVB running_status field, <ETSI EN 300 468>
// <table 6>.
type RunningStatus uint8

const (
	RunningStatusUndefined     RunningStatus = 0
	RunningStatusNotRunning    RunningStatus = 1
	RunningStatusStartsShortly RunningStatus = 2
	RunningStatusPausing       RunningStatus = 3
	RunningStatusRunning       RunningStatus = 4
	RunningStatusServiceOffAir RunningStatus = 5
)

// ChannelId identifies a service across a satellite/cable/terrestrial
// origin: (source, original network id, transport stream id, service id).
type ChannelId struct {
	Source    uint8
	Onid      uint16
	Tsid      uint16
	ServiceId uint16
}

// Channel is the schedule owner the core resolves channelId against. It is
// owned by the channel store; the core only reads and mutates it through
// ChannelsLock/Handler calls.
type Channel struct {
	Id           ChannelId
	Name         string
	PortalName   string
	Ignored      bool
	LinkChannels map[uint16]struct{}
}

// Component is one entry of an event's stream component list, populated
// from component descriptors.
type Component struct {
	StreamContent uint8
	ComponentType uint8
	LanguageCode  string
	Description   string
}

// Event is the external schedule entity the core reads and writes through
// handler calls, <spec §3 Event>.
type Event struct {
	EventId          uint16
	StartTime        time.Time
	StartTimeAllOnes bool // NVOD reference event
	Duration         time.Duration
	TableId          uint8
	RunningStatus    RunningStatus
	Version          uint8
	Seen             bool
	HasTimer         bool

	Title          string
	ShortText      string
	Description    string
	Components     []Component
	ParentalRating uint8
	Vps            time.Time
	LinkChannels   map[uint16]struct{}
	Contents       []byte
}

// EndTime is StartTime + Duration, used throughout segment-span and
// outdated-event computations.
func (e *Event) EndTime() time.Time {
	return e.StartTime.Add(e.Duration)
}
