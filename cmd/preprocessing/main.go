package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/kv"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/logger"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
)

var (
	networkFile = flag.String("f", "network.json", "lane network json file")
	storeKind   = flag.String("store", "badger", "kv backend for the compiled pathfinders: badger or pebble")
	dbDir       = flag.String("db", "./navigatorx-lanes.db", "kv database directory")
	logLevel    = flag.String("loglevel", "info", "log level")
	unpackCache = flag.Int("unpackcache", 0, "shortcut unpack cache entries per pathfinder, 0 disables it")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()

	log, err := logger.New(*logLevel, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if *cpuprofile != "" {
		// ./bin/navigatorx-preprocessing -cpuprofile=navigatorxcpu.prof -memprofile=navigatorxmem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("creating cpu profile", zap.Error(err))
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Info("reading lane network", zap.String("file", *networkFile))
	net, err := network.LoadJSONFile(*networkFile)
	if err != nil {
		log.Fatal("loading lane network", zap.Error(err))
	}
	log.Info("lane network loaded",
		zap.Int("lanes", net.NumLanes()),
		zap.Int("roads", len(net.AllRoads())))

	start := time.Now()
	pfs, err := pathfind.NewPathfinders(net,
		pathfind.WithLogger(log),
		pathfind.WithUnpackCacheSize(*unpackCache))
	if err != nil {
		log.Fatal("building pathfinders", zap.Error(err))
	}
	recordMemProfile(log, memprofile, "build_pathfinders")
	log.Info("pathfinders ready", zap.Duration("took", time.Since(start)))

	store, err := kv.Open(*storeKind, *dbDir, log)
	if err != nil {
		log.Fatal("opening kv store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := kv.SavePathfinders(ctx, store, pfs, net); err != nil {
		log.Fatal("saving pathfinders", zap.Error(err))
	}
	log.Info("pathfinders saved", zap.String("store", *storeKind), zap.String("db", *dbDir))
}

func recordMemProfile(log *zap.Logger, memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("creating memory profile", zap.Error(err))
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
