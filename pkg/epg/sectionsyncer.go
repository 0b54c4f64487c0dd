// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

// SectionSyncer tracks, for one (service, tableId) pair, which section
// numbers of the current version have already been seen, and whether the
// table is now fully received.
//
// The seen-bitmap is fixed at 256 bits since section_number is an 8-bit
// field; no allocation is needed per version.
type SectionSyncer struct {
	version                  int16 // -1 means "no version seen yet"
	seen                     [4]uint64
	lastSectionNumber        uint8
	segmentLastSectionNumber uint8
}

func NewSectionSyncer() *SectionSyncer {
	return &SectionSyncer{version: -1}
}

// Check reports whether (version, sectionNumber) is new information. If
// version differs from the syncer's current version, the bitmap is reset
// and the new version adopted before comparing — a version bump from a
// newer broadcaster cycle always wins over whatever was seen before.
func (s *SectionSyncer) Check(version uint8, sectionNumber uint8) bool {
	if s.version != int16(version) {
		s.version = int16(version)
		s.seen = [4]uint64{}
	}
	return !s.bitSet(sectionNumber)
}

// Processed records sectionNumber as seen and reports whether the table is
// now fully received, i.e. every section 0..lastSectionNumber has its bit
// set.
func (s *SectionSyncer) Processed(sectionNumber, lastSectionNumber, segmentLastSectionNumber uint8) bool {
	s.setBit(sectionNumber)
	s.lastSectionNumber = lastSectionNumber
	s.segmentLastSectionNumber = segmentLastSectionNumber
	return s.Complete()
}

// Complete reports whether every section up to lastSectionNumber has been
// seen under the current version. Before any section has arrived,
// lastSectionNumber is 0 and no bit is set, so Complete is false.
func (s *SectionSyncer) Complete() bool {
	for i := 0; i <= int(s.lastSectionNumber); i++ {
		if !s.bitSet(uint8(i)) {
			return false
		}
	}
	return true
}

func (s *SectionSyncer) bitSet(n uint8) bool {
	return s.seen[n/64]&(uint64(1)<<(n%64)) != 0
}

func (s *SectionSyncer) setBit(n uint8) {
	s.seen[n/64] |= uint64(1) << (n % 64)
}
