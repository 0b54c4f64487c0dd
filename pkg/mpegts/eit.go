// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"time"

	"github.com/q191201771/naza/pkg/nazabits"
)

// Eit is one event_information_section, <ETSI EN 300 468> <section 5.2.4>.
//
// table_id                    [8b]  *
// section_syntax_indicator    [1b]
// reserved_future_use         [1b]
// reserved                    [2b]
// section_length              [12b] **
// service_id                  [16b] **
// reserved                    [2b]
// version_number              [5b]  *
// current_next_indicator      [1b]
// section_number              [8b]  *
// last_section_number         [8b]  *
// transport_stream_id         [16b] **
// original_network_id         [16b] **
// segment_last_section_number [8b]  *
// last_table_id                [8b]  *
// -----event loop-----
// event_id                     [16b] *
// start_time                   [40b] ** MJD + BCD hour/minute/second
// duration                     [24b] ** BCD hour/minute/second
// running_status                [3b] *
// free_CA_mode                  [1b]
// descriptors_loop_length       [12b] **
// --------------
// CRC_32                        [32b] ****
type Eit struct {
	TableId                  uint8
	VersionNumber            uint8
	CurrentNextIndicator     uint8
	SectionNumber            uint8
	LastSectionNumber        uint8
	ServiceId                uint16
	TransportStreamId        uint16
	OriginalNetworkId        uint16
	SegmentLastSectionNumber uint8
	LastTableId              uint8
	Events                   []EitEvent
}

type EitEvent struct {
	EventId          uint16
	StartTime        time.Time
	StartTimeAllOnes bool // NVOD reference event: start_time field is all-ones
	Duration         time.Duration
	RunningStatus    uint8
	FreeCAMode       bool
	Descriptors      []Descriptor
}

// ParseEit checks the section's CRC_32 and, only if it matches, parses the
// header and event loop. CRC failures are reported through ok so callers
// can drop the section silently, per spec.
func ParseEit(b []byte) (eit Eit, ok bool) {
	if len(b) < 14+4 {
		return Eit{}, false
	}
	if !checkSiCrc32(b) {
		return Eit{}, false
	}

	br := nazabits.NewBitReader(b)
	eit.TableId, _ = br.ReadBits8(8)
	_, _ = br.ReadBits8(1) // section_syntax_indicator
	_, _ = br.ReadBits8(1) // reserved_future_use
	_, _ = br.ReadBits8(2) // reserved
	sectionLength, _ := br.ReadBits16(12)
	eit.ServiceId, _ = br.ReadBits16(16)
	_, _ = br.ReadBits8(2) // reserved
	eit.VersionNumber, _ = br.ReadBits8(5)
	eit.CurrentNextIndicator, _ = br.ReadBits8(1)
	eit.SectionNumber, _ = br.ReadBits8(8)
	eit.LastSectionNumber, _ = br.ReadBits8(8)
	eit.TransportStreamId, _ = br.ReadBits16(16)
	eit.OriginalNetworkId, _ = br.ReadBits16(16)
	eit.SegmentLastSectionNumber, _ = br.ReadBits8(8)
	eit.LastTableId, _ = br.ReadBits8(8)

	// section_length counts everything after itself, including the trailing
	// CRC_32; the event loop is what's left once the fixed header fields
	// (everything from service_id through last_table_id, 11 bytes) and the
	// CRC_32 (4 bytes) are subtracted.
	if int(sectionLength) < 11+4 {
		return Eit{}, false
	}
	loopLen := int(sectionLength) - 11 - 4

	for loopLen >= 12 {
		var ev EitEvent
		ev.EventId, _ = br.ReadBits16(16)
		startRaw, _ := br.ReadBytes(5)
		ev.StartTime, ev.StartTimeAllOnes = ParseMjdUtc(startRaw)
		durRaw, _ := br.ReadBytes(3)
		ev.Duration = ParseBcdDuration(durRaw)
		ev.RunningStatus, _ = br.ReadBits8(3)
		freeCa, _ := br.ReadBits8(1)
		ev.FreeCAMode = freeCa == 1
		descLoopLen, _ := br.ReadBits16(12)

		descBytes, _ := br.ReadBytes(uint(descLoopLen))
		ev.Descriptors = ParseDescriptorLoop(descBytes)

		eit.Events = append(eit.Events, ev)
		loopLen -= 12 + int(descLoopLen)
	}

	return eit, true
}

func checkSiCrc32(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	want := uint32(b[len(b)-4])<<24 | uint32(b[len(b)-3])<<16 | uint32(b[len(b)-2])<<8 | uint32(b[len(b)-1])
	got := CalcCrc32Mpeg2(b[:len(b)-4])
	return want == got
}
