// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package transport

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

// section builds a minimal table_id/section_length/body/crc-shaped buffer;
// the reader only looks at byte 0 (table_id, unexamined) and the 12-bit
// section_length in bytes 1-2, so crc correctness doesn't matter here.
func section(bodyLen int) []byte {
	b := make([]byte, 3+bodyLen)
	b[0] = 0x4e
	sectionLength := bodyLen
	b[1] = byte(sectionLength >> 8 & 0x0f)
	b[2] = byte(sectionLength)
	for i := 0; i < bodyLen; i++ {
		b[3+i] = byte(i)
	}
	return b
}

func TestSectionReaderSinglePacket(t *testing.T) {
	r := &sectionReader{}
	sec := section(10)
	payload := append([]byte{0x00}, sec...) // pointer_field=0
	out := r.feed(true, payload)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, sec, out[0])
}

func TestSectionReaderSplitAcrossPackets(t *testing.T) {
	r := &sectionReader{}
	sec := section(20)
	payload := append([]byte{0x00}, sec...)

	first := payload[:10]
	second := payload[10:]

	out := r.feed(true, first)
	assert.Equal(t, 0, len(out))

	out = r.feed(false, second)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, sec, out[0])
}

func TestSectionReaderTwoSectionsOnePacket(t *testing.T) {
	r := &sectionReader{}
	sec1 := section(5)
	sec2 := section(5)
	payload := append([]byte{0x00}, append(append([]byte{}, sec1...), sec2...)...)

	out := r.feed(true, payload)
	assert.Equal(t, 2, len(out))
	assert.Equal(t, sec1, out[0])
	assert.Equal(t, sec2, out[1])
}

func TestSectionReaderContinuationBeforeStartDropped(t *testing.T) {
	r := &sectionReader{}
	out := r.feed(false, []byte{1, 2, 3})
	assert.Equal(t, 0, len(out))
}
