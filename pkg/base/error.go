// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var (
	ErrShortBuffer  = errors.New("dvbsi: buffer too short")
	ErrFileNotExist = errors.New("dvbsi: file not exist")
)

// ----- pkg/mpegts ----------------------------------------------------------------------------------------------------

var (
	ErrCrc32           = errors.New("dvbsi.mpegts: crc32 mismatch")
	ErrSectionTooShort = errors.New("dvbsi.mpegts: section too short")
	ErrBadTableId      = errors.New("dvbsi.mpegts: unexpected table id")
)

// ----- pkg/epg -------------------------------------------------------------------------------------------------------

var (
	ErrClockNotSet    = errors.New("dvbsi.epg: clock not set")
	ErrLockTimeout    = errors.New("dvbsi.epg: could not acquire state lock in time")
	ErrUnknownChannel = errors.New("dvbsi.epg: channel not found")
	ErrChannelIgnored = errors.New("dvbsi.epg: channel ignored by handler chain")
	ErrSegmentRefused = errors.New("dvbsi.epg: handler refused segment transfer")
)

func NewErrCrc32(want, got uint32) error {
	return fmt.Errorf("%w. want=%08x, got=%08x", ErrCrc32, want, got)
}
