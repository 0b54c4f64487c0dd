// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/q191201771/dvbsi/pkg/base"
	"github.com/q191201771/dvbsi/pkg/mpegts"
)

const tsPacketSize = 188

// Sink is what a transport source feeds demuxed SI sections into.
// epg.Filter satisfies it.
type Sink interface {
	Process(source uint8, pid uint16, data []byte)
}

// FileSource reads a raw, already-multiplexed MPEG-TS byte stream (a .ts
// capture file, or a named pipe/FIFO fed by some other tool) packet by
// packet, itself doing the 188-byte sync and PSI-section reassembly via
// pkg/mpegts, with no third-party demuxer involved. It exists for the
// config.Transport.TSFile path: replaying a capture without an SRT feed.
type FileSource struct {
	Source uint8
	Sink   Sink

	pids map[uint16]*sectionReader
}

func NewFileSource(source uint8, sink Sink, pids []uint16) *FileSource {
	s := &FileSource{
		Source: source,
		Sink:   sink,
		pids:   make(map[uint16]*sectionReader, len(pids)),
	}
	for _, pid := range pids {
		s.pids[pid] = &sectionReader{}
	}
	return s
}

// Run reads r until EOF or ctx is cancelled, dispatching every complete
// section seen on a watched PID to Sink.Process.
func (s *FileSource) Run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReaderSize(r, tsPacketSize*64)
	packet := make([]byte, tsPacketSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := io.ReadFull(br, packet); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		if packet[0] != 0x47 {
			base.Log.Warnf("transport: TS sync byte lost, resyncing")
			i := bytes.IndexByte(packet[1:], 0x47)
			if i < 0 {
				continue
			}
			n := copy(packet, packet[1+i:])
			if _, err := io.ReadFull(br, packet[n:]); err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					return nil
				}
				return err
			}
		}

		h := mpegts.ParseTsPacketHeader(packet[:4])
		reader, ok := s.pids[h.Pid]
		if !ok {
			continue
		}

		payload := stripAdaptation(h, packet[4:])
		for _, section := range reader.feed(h.PayloadUnitStart == 1, payload) {
			s.Sink.Process(s.Source, h.Pid, section)
		}
	}
}
