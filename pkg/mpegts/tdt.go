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

// Tdt is one time_date_section, <ETSI EN 300 468> <section 5.2.5>.
//
// table_id                 [8b] * always 0x70
// section_syntax_indicator [1b] * always 0
// reserved_future_use      [1b]
// reserved                 [2b]
// section_length           [12b] ** always 5
// UTC_time                 [40b] ** MJD + BCD hour/minute/second
//
// Unlike EIT/PAT/PMT, TDT carries no version_number/section_number and no
// CRC_32: it is not a "table" with versioned sections, just a single
// fire-and-forget timestamp.
type Tdt struct {
	Time time.Time
}

func ParseTdt(b []byte) (tdt Tdt, ok bool) {
	if len(b) < 8 {
		return Tdt{}, false
	}
	br := nazabits.NewBitReader(b)
	tableId, _ := br.ReadBits8(8)
	if tableId != TsPsiIdTdt {
		return Tdt{}, false
	}
	_, _ = br.ReadBits8(2) // section_syntax_indicator + reserved_future_use
	_, _ = br.ReadBits8(2) // reserved
	_, _ = br.ReadBits16(12) // section_length

	raw, _ := br.ReadBytes(5)
	t, allOnes := ParseMjdUtc(raw)
	if allOnes {
		return Tdt{}, false
	}
	tdt.Time = t
	return tdt, true
}
