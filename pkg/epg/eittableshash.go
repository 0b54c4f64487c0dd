// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

// EitTablesHash maps a DVB service id to its EitTables. Callers are
// expected to serialize access themselves (Filter's section-processing
// mutex, per spec); this type adds no locking of its own.
type EitTablesHash struct {
	m map[uint16]*EitTables
}

func NewEitTablesHash() *EitTablesHash {
	return &EitTablesHash{m: make(map[uint16]*EitTables)}
}

// Get returns the existing entry for serviceId, or nil.
func (h *EitTablesHash) Get(serviceId uint16) *EitTables {
	return h.m[serviceId]
}

func (h *EitTablesHash) Add(serviceId uint16, entry *EitTables) {
	h.m[serviceId] = entry
}

// GetOrCreate returns the existing entry for serviceId, creating and
// storing a fresh one on first touch.
func (h *EitTablesHash) GetOrCreate(serviceId uint16) *EitTables {
	entry, exist := h.m[serviceId]
	if !exist {
		entry = NewEitTables()
		h.m[serviceId] = entry
	}
	return entry
}

func (h *EitTablesHash) Clear() {
	h.m = make(map[uint16]*EitTables)
}
