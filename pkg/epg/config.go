// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

// Config carries the knobs spec.md §6 lists as consumed by the EIT/TDT
// processors. app/epgfilterd loads this from JSON, backfilling defaults
// with naza/pkg/nazajson the way pkg/logic/config.go does for lal's own
// server config.
type Config struct {
	// EPGLanguages is the user's language preference order, most preferred
	// first, used to pick among redundant short/extended event and
	// parental-rating descriptors carrying the same information in
	// different languages. ISO 639 codes, case-insensitive.
	EPGLanguages []string `json:"epg_languages"`

	// UpdateChannels is the Premiere-linkage policy level, 0-4: 1, 3 and 4
	// rename existing linked channels (0 and 2 do not), 4 also synthesizes
	// channels that don't exist yet on the linked transponder. At every
	// level, a link to the channel itself sets its portal name and existing
	// linked channels are recorded in its link set.
	UpdateChannels int `json:"update_channels"`

	// SetSystemTime and TimeSource gate TdtProcessor: whether to discipline
	// the host clock at all, and from which source id's TDT (0 accepts any
	// source). TimeTransponder is loaded but not checked.
	SetSystemTime   bool   `json:"set_system_time"`
	TimeSource      uint16 `json:"time_source"`
	TimeTransponder uint16 `json:"time_transponder"`
}
