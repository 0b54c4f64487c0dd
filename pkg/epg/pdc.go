// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import "time"

// computeVps builds the PDC VPS time from a programme_identification_label
// (day/month/hour/minute, no year or seconds) anchored against now, so the
// event inherits now's zone/DST. PDC carries no year, so when the label's
// month and now's month straddle a year boundary (e.g. now is December,
// label is January) the year is bumped accordingly.
func computeVps(now time.Time, day, month, hour, minute uint8) time.Time {
	year := now.Year()
	nowMonth := int(now.Month())
	pdcMonth := int(month)

	switch {
	case nowMonth-pdcMonth > 6:
		year++
	case pdcMonth-nowMonth > 6:
		year--
	}

	return time.Date(year, time.Month(pdcMonth), int(day), int(hour), int(minute), 0, 0, now.Location())
}
