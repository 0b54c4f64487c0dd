// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"math"
	"time"
)

// bcd8 decodes one byte of packed binary coded decimal, e.g. 0x23 -> 23.
func bcd8(b uint8) int {
	return int(b>>4)*10 + int(b&0x0f)
}

// ParseMjdUtc decodes a 5-byte DVB start_time field: a 16-bit Modified
// Julian Date followed by 3 BCD-encoded hour/minute/second bytes.
// <ETSI EN 300 468> <annex C>
//
// All-ones across the 5 bytes is the NVOD reference-event sentinel: every
// start-time bit set, which read as a signed 40-bit integer is negative.
// ParseMjdUtc reports it by returning allOnes=true (with a zero time.Time)
// so callers can special case it instead of using a bogus time.Time.
func ParseMjdUtc(b []byte) (t time.Time, allOnes bool) {
	allOnes = true
	for _, v := range b[:5] {
		if v != 0xff {
			allOnes = false
			break
		}
	}
	if allOnes {
		return time.Time{}, true
	}

	mjd := int(b[0])<<8 | int(b[1])
	yp := int((float64(mjd) - 15078.2) / 365.25)
	mp := int((float64(mjd) - 14956.1 - math.Floor(float64(yp)*365.25)) / 30.6001)
	d := mjd - 14956 - int(math.Floor(float64(yp)*365.25)) - int(math.Floor(float64(mp)*30.6001))
	k := 0
	if mp == 14 || mp == 15 {
		k = 1
	}
	year := yp + k + 1900
	month := mp - 1 - k*12

	hour := bcd8(b[2])
	minute := bcd8(b[3])
	second := bcd8(b[4])

	return time.Date(year, time.Month(month), d, hour, minute, second, 0, time.UTC), false
}

// ParseBcdDuration decodes a 3-byte BCD-encoded HHMMSS duration field.
func ParseBcdDuration(b []byte) time.Duration {
	h := bcd8(b[0])
	m := bcd8(b[1])
	s := bcd8(b[2])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}
