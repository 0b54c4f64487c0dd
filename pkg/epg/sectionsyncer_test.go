// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg_test

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"

	"github.com/q191201771/dvbsi/pkg/epg"
)

func TestSectionSyncerCheck(t *testing.T) {
	s := epg.NewSectionSyncer()
	assert.Equal(t, true, s.Check(1, 0))
	s.Processed(0, 1, 1)
	assert.Equal(t, false, s.Check(1, 0))
	assert.Equal(t, true, s.Check(1, 1))
}

func TestSectionSyncerComplete(t *testing.T) {
	s := epg.NewSectionSyncer()
	assert.Equal(t, false, s.Complete())
	s.Processed(0, 1, 1)
	assert.Equal(t, false, s.Complete())
	s.Processed(1, 1, 1)
	assert.Equal(t, true, s.Complete())
}

func TestSectionSyncerVersionBumpResetsBitmap(t *testing.T) {
	s := epg.NewSectionSyncer()
	s.Check(1, 0)
	s.Processed(0, 1, 1)
	s.Check(1, 1)
	s.Processed(1, 1, 1)
	assert.Equal(t, true, s.Complete())

	// new version mid-cycle: old bitmap is discarded, section 0 is new again
	assert.Equal(t, true, s.Check(2, 0))
	assert.Equal(t, false, s.Complete())
	s.Processed(0, 1, 1)
	assert.Equal(t, false, s.Complete())
	s.Processed(1, 1, 1)
	assert.Equal(t, true, s.Complete())
}
