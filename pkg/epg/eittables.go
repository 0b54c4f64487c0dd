// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import "time"

// eitTableIdBase is the lowest EIT table id, present/following.
const eitTableIdBase = 0x4E

// eitTableIdCount spans the whole DVB EIT range 0x4E..0x6F inclusive.
const eitTableIdCount = 0x6F - eitTableIdBase + 1

// EitTables aggregates the SectionSyncers for all EIT table ids of a single
// service, plus the earliest-start/latest-end time span observed across
// table 0x4E sections this cycle.
type EitTables struct {
	syncers    [eitTableIdCount]*SectionSyncer
	complete   bool
	tableStart time.Time
	tableEnd   time.Time
}

func NewEitTables() *EitTables {
	t := &EitTables{}
	for i := range t.syncers {
		t.syncers[i] = NewSectionSyncer()
	}
	return t
}

func (t *EitTables) syncerIndex(tableId uint8) int {
	idx := int(tableId) - eitTableIdBase
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Check delegates to the syncer indexed by tableId.
func (t *EitTables) Check(tableId, version, sectionNumber uint8) bool {
	return t.syncers[t.syncerIndex(tableId)].Check(version, sectionNumber)
}

// Processed delegates to the syncer indexed by tableId and, if that syncer
// just became complete, rescans syncers 0..lastTableId to decide whether
// the whole table set is now complete. The 0x4F syncer is skipped in the
// rescan, since 0x4F sections are never processed.
func (t *EitTables) Processed(tableId, lastTableId, sectionNumber, lastSectionNumber, segmentLastSectionNumber uint8) bool {
	idx := t.syncerIndex(tableId)
	tableComplete := t.syncers[idx].Processed(sectionNumber, lastSectionNumber, segmentLastSectionNumber)
	if tableComplete {
		all := true
		lastIdx := t.syncerIndex(lastTableId)
		for i := 0; i <= lastIdx && i < len(t.syncers); i++ {
			if i == 0x4F-eitTableIdBase {
				continue
			}
			if !t.syncers[i].Complete() {
				all = false
				break
			}
		}
		t.complete = all
	}
	return tableComplete
}

// Complete reports the aggregate completion flag last computed by
// Processed.
func (t *EitTables) Complete() bool {
	return t.complete
}

func (t *EitTables) SetTableStart(start time.Time) {
	if t.tableStart.IsZero() || start.Before(t.tableStart) {
		t.tableStart = start
	}
}

func (t *EitTables) SetTableEnd(end time.Time) {
	if end.After(t.tableEnd) {
		t.tableEnd = end
	}
}

func (t *EitTables) TableStart() time.Time {
	return t.tableStart
}

func (t *EitTables) TableEnd() time.Time {
	return t.tableEnd
}
