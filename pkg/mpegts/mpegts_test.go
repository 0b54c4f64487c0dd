// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts_test

import (
	"testing"
	"time"

	"github.com/q191201771/naza/pkg/assert"

	"github.com/q191201771/dvbsi/pkg/mpegts"
)

func TestParseTsPacketHeader(t *testing.T) {
	// sync=0x47, err=0, pusi=1, prio=0, pid=0x0012, scrambling=0, adaptation=0b01 (payload only), cc=3
	b := []byte{0x47, 0x40, 0x12, 0x13}
	h := mpegts.ParseTsPacketHeader(b)
	assert.Equal(t, uint8(0x47), h.Sync)
	assert.Equal(t, uint8(1), h.PayloadUnitStart)
	assert.Equal(t, uint16(0x0012), h.Pid)
	assert.Equal(t, uint8(1), h.Adaptation)
	assert.Equal(t, uint8(3), h.Cc)
}

func bcdByte(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}

// mjdFor packs a calendar date into the 16-bit Modified Julian Date
// encoding ParseMjdUtc expects, inverting the formula in mjd.go.
func mjdFor(year, month, day int) uint16 {
	y := year
	m := month
	if m <= 2 {
		y--
		m += 12
	}
	mjd := 14956 + day + int(float64(y-1900)*365.25) + int(float64(m+1)*30.6001)
	return uint16(mjd)
}

func TestParseMjdUtc(t *testing.T) {
	mjd := mjdFor(2026, 8, 6)
	b := []byte{byte(mjd >> 8), byte(mjd), bcdByte(20), bcdByte(15), bcdByte(0)}
	tm, allOnes := mpegts.ParseMjdUtc(b)
	assert.Equal(t, false, allOnes)
	assert.Equal(t, 2026, tm.Year())
	assert.Equal(t, time.August, tm.Month())
	assert.Equal(t, 6, tm.Day())
	assert.Equal(t, 20, tm.Hour())
	assert.Equal(t, 15, tm.Minute())
}

func TestParseMjdUtcAllOnes(t *testing.T) {
	b := []byte{0xff, 0xff, 0xff, 0xff, 0xff}
	_, allOnes := mpegts.ParseMjdUtc(b)
	assert.Equal(t, true, allOnes)
}

func TestParseBcdDuration(t *testing.T) {
	b := []byte{bcdByte(1), bcdByte(30), bcdByte(0)}
	d := mpegts.ParseBcdDuration(b)
	assert.Equal(t, 90*time.Minute, d)
}
