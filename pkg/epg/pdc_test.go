// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

import (
	"testing"
	"time"

	"github.com/q191201771/naza/pkg/assert"
)

func TestComputeVpsYearBoundaryForward(t *testing.T) {
	now := time.Date(2026, time.December, 20, 10, 0, 0, 0, time.UTC)
	vps := computeVps(now, 2, 1, 20, 15)
	assert.Equal(t, 2027, vps.Year())
	assert.Equal(t, time.January, vps.Month())
	assert.Equal(t, 2, vps.Day())
}

func TestComputeVpsYearBoundaryBackward(t *testing.T) {
	now := time.Date(2026, time.January, 3, 10, 0, 0, 0, time.UTC)
	vps := computeVps(now, 20, 12, 22, 0)
	assert.Equal(t, 2025, vps.Year())
	assert.Equal(t, time.December, vps.Month())
}

func TestComputeVpsSameMonth(t *testing.T) {
	now := time.Date(2026, time.August, 6, 10, 0, 0, 0, time.UTC)
	vps := computeVps(now, 6, 8, 20, 15)
	assert.Equal(t, 2026, vps.Year())
}
