// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package transport

import (
	"github.com/q191201771/dvbsi/pkg/mpegts"
)

// sectionReader reassembles PSI/SI sections carried in the TS packets of one
// PID. It mirrors the bit-level discipline of pkg/mpegts/ts_packet_header.go:
// one TsPacketHeader per 188-byte packet, payload_unit_start_indicator
// marking where a new section's pointer_field begins, section_length
// (bytes 1-2 of the section, 12 bits) bounding how many more payload bytes
// to accumulate before a complete section is ready.
type sectionReader struct {
	buf      []byte
	want     int
	have     bool
}

// feed appends one TS packet's payload bytes (with the 4-byte header already
// stripped, and any adaptation field skipped by the caller) to the
// in-progress section. payloadUnitStart means the payload begins with a
// pointer_field, per <iso13818-1.pdf> <2.4.4.1>.
//
// feed returns every complete section finished by this packet: ordinarily at
// most one, but a short section can leave enough trailing bytes in the same
// packet to start and finish a second one.
func (r *sectionReader) feed(payloadUnitStart bool, payload []byte) [][]byte {
	if len(payload) == 0 {
		return nil
	}

	if payloadUnitStart {
		pointer := int(payload[0])
		if 1+pointer > len(payload) {
			r.reset()
			return nil
		}
		// bytes before the pointed-to offset complete whatever section was
		// already in flight; discarded here since per spec §7 a truncated
		// or desynced section is simply dropped rather than repaired.
		payload = payload[1+pointer:]
		r.reset()
	} else if r.buf == nil {
		// mid-section continuation arriving before we ever saw a unit
		// start: nothing to append to, drop it until the next start.
		return nil
	}

	var out [][]byte
	for len(payload) > 0 {
		r.buf = append(r.buf, payload...)
		payload = nil

		if !r.have {
			if len(r.buf) < 3 {
				break
			}
			sectionLength := int(r.buf[1]&0x0f)<<8 | int(r.buf[2])
			r.want = 3 + sectionLength
			r.have = true
		}

		if len(r.buf) < r.want {
			break
		}

		section := make([]byte, r.want)
		copy(section, r.buf[:r.want])
		out = append(out, section)

		leftover := r.buf[r.want:]
		r.reset()
		if len(leftover) > 0 {
			payload = leftover
		}
	}

	return out
}

func (r *sectionReader) reset() {
	r.buf = r.buf[:0]
	r.want = 0
	r.have = false
}

// stripAdaptation drops a TS packet's adaptation field, if present, leaving
// only the payload bytes. b is the packet body following the 4-byte header.
func stripAdaptation(h mpegts.TsPacketHeader, b []byte) []byte {
	if h.Adaptation&0x2 == 0 {
		return b
	}
	if len(b) == 0 {
		return b
	}
	adaptationLen := int(b[0])
	if 1+adaptationLen > len(b) {
		return nil
	}
	if h.Adaptation&0x1 == 0 {
		return nil
	}
	return b[1+adaptationLen:]
}
