// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/q191201771/naza/pkg/bininfo"
	log "github.com/q191201771/naza/pkg/nazalog"

	"github.com/q191201771/dvbsi/pkg/base"
	"github.com/q191201771/dvbsi/pkg/epg"
	"github.com/q191201771/dvbsi/pkg/transport"
)

const demoSource uint8 = 1

func main() {
	confFile := parseFlag()
	config := loadConf(confFile)
	initLog(config.Log)
	log.Infof("bininfo: %s", bininfo.StringifySingleLine())

	channels := newMemChannelStore()
	schedules := newMemScheduleStore()

	eitProcessor := epg.NewEitProcessor(channels, schedules, config.Epg)
	eitProcessor.Handlers = []epg.Handler{loggingHandler{}, scheduleMaintainer{}}
	tdtProcessor := epg.NewTdtProcessor(&hostClock{})
	filter := epg.NewFilter(eitProcessor, tdtProcessor)
	discovery := transport.NewChannelDiscovery(1, channels)

	pids := []uint16{0x00} // PAT, for channel discovery
	for _, m := range filter.Masks() {
		pids = append(pids, m.Pid)
	}
	sink := multiSink{filter, discovery}

	ctx, cancel := context.WithCancel(context.Background())
	go runSignalHandler(cancel)

	if err := run(ctx, config.Transport, sink, pids); err != nil {
		log.Errorf("transport exited. err=%+v", err)
		base.OsExitAndWaitPressIfWindows(1)
	}
}

// multiSink fans every section out to each of its sinks in order: the
// epg.Filter handles PID 0x12/0x14, the ChannelDiscovery handles PID 0x00,
// each ignoring PIDs it doesn't care about.
type multiSink []transport.Sink

func (m multiSink) Process(source uint8, pid uint16, data []byte) {
	for _, sink := range m {
		sink.Process(source, pid, data)
	}
}

func run(ctx context.Context, cfg Transport, sink transport.Sink, pids []uint16) error {
	switch {
	case cfg.SRTAddr != "":
		host, port, err := splitHostPort(cfg.SRTAddr)
		if err != nil {
			return err
		}
		return transport.DialSRT(ctx, transport.SRTConfig{Host: host, Port: port}, demoSource, sink, pids)
	case cfg.TSFile != "":
		f, err := os.Open(cfg.TSFile)
		if err != nil {
			return err
		}
		defer f.Close()
		src := transport.NewFileSource(demoSource, sink, pids)
		return src.Run(ctx, f)
	default:
		return fmt.Errorf("epgfilterd: no transport configured, set transport.srt_addr or transport.ts_file")
	}
}

func parseFlag() string {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	cf := flag.String("c", "", "specify conf file")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		base.OsExitAndWaitPressIfWindows(0)
	}
	if *cf == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, "\nExample:\n  ./bin/epgfilterd -c ./conf/epgfilterd.conf.json\n")
		base.OsExitAndWaitPressIfWindows(1)
	}
	return *cf
}

func loadConf(confFile string) *Config {
	config, err := LoadConf(confFile)
	if err != nil {
		log.Errorf("load conf failed. file=%s err=%+v", confFile, err)
		base.OsExitAndWaitPressIfWindows(1)
	}
	log.Infof("load conf file succ. file=%s content=%+v", confFile, config)
	return config
}

func initLog(opt log.Option) {
	if err := log.Init(func(option *log.Option) {
		*option = opt
	}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "initial log failed. err=%+v\n", err)
		base.OsExitAndWaitPressIfWindows(1)
	}
	log.Info("initial log succ.")
}

func runSignalHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	s := <-c
	log.Infof("recv signal. s=%+v", s)
	cancel()
}
