// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"time"

	"github.com/q191201771/naza/pkg/nazalog"
)

var Log = nazalog.GetGlobalLogger()

// ----- epg --------------------
var (
	// ValidTime is the clock-sanity threshold EitProcessor and TdtProcessor
	// gate on: a wall clock reading earlier than this means the clock hasn't
	// been set yet, so sections are dropped rather than acted upon.
	//
	// 2007-01-01T00:00:00Z.
	ValidTime = time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC)

	// StateLockWait is the bounded wait for acquiring a writable Channels or
	// Schedules state key.
	StateLockWait = 10 * time.Millisecond

	// EpgLingerTimeSec is how long after its end an incoming event is still
	// accepted: EitProcessor skips events that ended more than this long
	// before now.
	EpgLingerTimeSec int64 = 3600

	// MaxEventContents bounds how many packed (content_nibble_level_1,
	// content_nibble_level_2) bytes the content descriptors of one event
	// contribute to it.
	MaxEventContents = 16

	// MaxTimeDiffSec / MaxAdjDiffSec / AdjDeltaSec parameterize
	// TdtProcessor's clock-discipline hysteresis.
	MaxTimeDiffSec int64 = 1
	MaxAdjDiffSec  int64 = 10
	AdjDeltaSec    int64 = 300
)
