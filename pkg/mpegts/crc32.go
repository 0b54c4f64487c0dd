// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// crc32Mpeg2Table is the non-reflected CRC-32/MPEG-2 table DVB SI sections
// use for their trailing CRC_32 field, <ISO_IEC 13818-1> <annex B>. DVB SI
// sections are checked against broadcaster bytes using the standard's
// actual (unreflected) polynomial, not hash/crc32's reflected IEEE table.
var crc32Mpeg2Table = func() (t [256]uint32) {
	const poly = 0x04C11DB7
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return
}()

// CalcCrc32Mpeg2 computes the CRC-32/MPEG-2 checksum DVB SI sections carry
// over every byte from table_id up to (not including) the CRC_32 field.
func CalcCrc32Mpeg2(buffer []byte) uint32 {
	crc := uint32(0xffffffff)
	for _, b := range buffer {
		crc = (crc << 8) ^ crc32Mpeg2Table[byte(crc>>24)^b]
	}
	return crc
}
