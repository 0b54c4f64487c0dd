// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package transport

import (
	"context"
	"errors"
	"io"

	astits "github.com/asticode/go-astits"

	"github.com/q191201771/dvbsi/pkg/base"
)

// AstitsSource demuxes a live, noisy MPEG-TS byte stream (typically an SRT
// socket) using go-astits for packet synchronization, then feeds the raw
// per-packet payload of every watched PID through our own PSI section
// reassembly, the same as FileSource does for an offline capture.
//
// go-astits is already a dependency of the teacher's SRT demo (there it
// decodes PAT/PMT/PES for A/V); here it is used at the lower, packet level
// since EIT/TDT are private sections outside any PMT-declared stream and
// go-astits's higher-level data API never surfaces them.
type AstitsSource struct {
	Source uint8
	Sink   Sink

	pids map[uint16]*sectionReader
}

func NewAstitsSource(source uint8, sink Sink, pids []uint16) *AstitsSource {
	s := &AstitsSource{
		Source: source,
		Sink:   sink,
		pids:   make(map[uint16]*sectionReader, len(pids)),
	}
	for _, pid := range pids {
		s.pids[pid] = &sectionReader{}
	}
	return s
}

// Run drains r through a go-astits demuxer until it reports end of stream,
// the connection drops, or ctx is cancelled.
func (s *AstitsSource) Run(ctx context.Context, r io.Reader) error {
	dmx := astits.NewDemuxer(ctx, r, astits.DemuxerOptPacketSize(astits.MpegTsPacketSize))

	for {
		pkt, err := dmx.NextPacket()
		if err != nil {
			if errors.Is(err, astits.ErrNoMorePackets) || errors.Is(err, context.Canceled) {
				return nil
			}
			base.Log.Errorf("transport: astits demux error. err=%v", err)
			return err
		}

		reader, ok := s.pids[pkt.Header.PID]
		if !ok {
			continue
		}

		s.feed(reader, pkt)
	}
}

func (s *AstitsSource) feed(reader *sectionReader, pkt *astits.Packet) {
	for _, section := range reader.feed(pkt.Header.PayloadUnitStartIndicator, pkt.Payload) {
		s.Sink.Process(s.Source, pkt.Header.PID, section)
	}
}
