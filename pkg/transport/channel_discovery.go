// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package transport

import (
	"github.com/q191201771/dvbsi/pkg/base"
	"github.com/q191201771/dvbsi/pkg/epg"
	"github.com/q191201771/dvbsi/pkg/mpegts"
)

const pidPat = 0x00

// ChannelDiscovery watches PAT sections (PID 0x00) and auto-registers any
// previously-unseen service as a channel, so a transponder's EIT/TDT feed
// never stalls at EitProcessor's "unknown channel" drop gate waiting for a
// channel database to be populated by hand.
//
// Onid is fixed per instance: PAT alone carries no original_network_id
// (that's SDT/NIT territory, outside this spec's scope same as PAT/PMT
// were for the teacher), so the network a ChannelDiscovery watches has to
// be supplied out of band, one instance per transponder.
type ChannelDiscovery struct {
	Onid     uint16
	Channels epg.ChannelStore
}

func NewChannelDiscovery(onid uint16, channels epg.ChannelStore) *ChannelDiscovery {
	return &ChannelDiscovery{Onid: onid, Channels: channels}
}

// Process is Sink-shaped so a transport source can fan PID 0x00 sections
// into it the same way it fans PID 0x12/0x14 into an epg.Filter.
func (d *ChannelDiscovery) Process(source uint8, pid uint16, data []byte) {
	if pid != pidPat {
		return
	}

	pat := mpegts.ParsePat(data)
	tsid := pat.TransportStreamId()

	lock, ok := d.Channels.Lock(base.StateLockWait)
	if !ok {
		return
	}
	defer lock.Unlock()

	for _, ppe := range pat.Programs() {
		if ppe.ProgramNumber() == 0 {
			continue
		}
		id := epg.ChannelId{Source: source, Onid: d.Onid, Tsid: tsid, ServiceId: ppe.ProgramNumber()}
		if _, exists := lock.GetByChannelId(id); exists {
			continue
		}
		ch := lock.NewChannel(id)
		base.Log.Infof("transport: discovered channel. id=%+v", ch.Id)
	}
}
