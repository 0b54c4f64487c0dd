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

	"github.com/q191201771/naza/pkg/assert"

	"github.com/q191201771/dvbsi/pkg/mpegts"
)

func TestParseDescriptorLoopShortEvent(t *testing.T) {
	payload := append([]byte("eng"), 5, 'H', 'e', 'l', 'l', 'o', 3, 'y', 'e', 's')
	loop := append([]byte{mpegts.DescriptorTagShortEvent, byte(len(payload))}, payload...)

	ds := mpegts.ParseDescriptorLoop(loop)
	assert.Equal(t, 1, len(ds))
	assert.Equal(t, "eng", ds[0].ShortEvent.LanguageCode)
	assert.Equal(t, "Hello", string(ds[0].ShortEvent.EventName))
	assert.Equal(t, "yes", string(ds[0].ShortEvent.Text))
}

func TestParseDescriptorLoopContentPacking(t *testing.T) {
	for n1 := uint8(0); n1 < 16; n1++ {
		for n2 := uint8(0); n2 < 16; n2++ {
			payload := []byte{n1<<4 | n2, 0x00}
			loop := append([]byte{mpegts.DescriptorTagContent, byte(len(payload))}, payload...)
			ds := mpegts.ParseDescriptorLoop(loop)
			assert.Equal(t, 1, len(ds[0].Content.Entries))
			packed := ds[0].Content.Entries[0].Nibble1<<4 | ds[0].Content.Entries[0].Nibble2
			assert.Equal(t, n1<<4|n2, packed)
		}
	}
}

func TestParseDescriptorLoopComponent(t *testing.T) {
	// streamContentExt=0, streamContent=9 (high nibble 0, low nibble 9), ext<2 case
	payload := []byte{0x09, 0x10, 0x01}
	payload = append(payload, []byte("eng")...)
	payload = append(payload, []byte("HD")...)
	loop := append([]byte{mpegts.DescriptorTagComponent, byte(len(payload))}, payload...)

	ds := mpegts.ParseDescriptorLoop(loop)
	assert.Equal(t, uint8(9), ds[0].Component.StreamContent)
	assert.Equal(t, uint8(0x10), ds[0].Component.ComponentType)
	assert.Equal(t, "eng", ds[0].Component.LanguageCode)
	assert.Equal(t, "HD", string(ds[0].Component.Text))
}

func TestParseDescriptorLoopPdc(t *testing.T) {
	// day=6, month=8, hour=20, minute=15 packed into 20 bits after 4 reserved bits
	label := uint32(6)<<15 | uint32(8)<<11 | uint32(20)<<6 | uint32(15)
	payload := []byte{
		byte(label >> 16 & 0x0f),
		byte(label >> 8 & 0xff),
		byte(label & 0xff),
	}
	loop := append([]byte{mpegts.DescriptorTagPdc, byte(len(payload))}, payload...)

	ds := mpegts.ParseDescriptorLoop(loop)
	assert.Equal(t, uint8(6), ds[0].Pdc.Day)
	assert.Equal(t, uint8(8), ds[0].Pdc.Month)
	assert.Equal(t, uint8(20), ds[0].Pdc.Hour)
	assert.Equal(t, uint8(15), ds[0].Pdc.Minute)
}
