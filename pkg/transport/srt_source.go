// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package transport

import (
	"context"

	"github.com/haivision/srtgo"

	"github.com/q191201771/dvbsi/pkg/base"
)

// SRTConfig is the subset of an SRT caller connection the EPG feed needs:
// one transponder's SI stream arriving over IP instead of off-air.
type SRTConfig struct {
	Host       string
	Port       uint16
	StreamId   string
	Passphrase string
}

// DialSRT opens an SRT caller socket to host:port and hands the connected
// socket to an AstitsSource, the same way the teacher's SRT demo hands a
// connected socket to a go-astits demuxer (app/demo/srt/pub.go). DialSRT
// blocks until the source's Run returns or ctx is cancelled.
func DialSRT(ctx context.Context, cfg SRTConfig, source uint8, sink Sink, pids []uint16) error {
	options := map[string]string{"transtype": "live"}
	if cfg.StreamId != "" {
		options["streamid"] = cfg.StreamId
	}
	if cfg.Passphrase != "" {
		options["passphrase"] = cfg.Passphrase
	}

	socket := srtgo.NewSrtSocket(cfg.Host, cfg.Port, options)
	if err := socket.Connect(); err != nil {
		return err
	}
	defer socket.Close()

	base.Log.Infof("transport: SRT connected. host=%s port=%d", cfg.Host, cfg.Port)

	astitsSource := NewAstitsSource(source, sink, pids)
	return astitsSource.Run(ctx, socket)
}
