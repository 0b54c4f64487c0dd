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

func TestEitTablesHashGetAdd(t *testing.T) {
	h := epg.NewEitTablesHash()
	assert.Equal(t, (*epg.EitTables)(nil), h.Get(100))

	entry := epg.NewEitTables()
	h.Add(100, entry)
	assert.Equal(t, entry, h.Get(100))
}

func TestEitTablesHashGetOrCreate(t *testing.T) {
	h := epg.NewEitTablesHash()
	a := h.GetOrCreate(200)
	b := h.GetOrCreate(200)
	assert.Equal(t, a, b)
}

func TestEitTablesHashClear(t *testing.T) {
	h := epg.NewEitTablesHash()
	h.Add(1, epg.NewEitTables())
	h.Clear()
	assert.Equal(t, (*epg.EitTables)(nil), h.Get(1))
}
