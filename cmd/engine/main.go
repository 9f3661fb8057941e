package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/lintang-b-s/navigatorx-lanes/docs"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/analysis"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/kv"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/logger"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/server/rest"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/server/rest/service"
)

var (
	listenAddr  = flag.String("listenaddr", ":5000", "server listen address")
	networkFile = flag.String("f", "network.json", "lane network json file")
	storeKind   = flag.String("store", "badger", "kv backend for the compiled pathfinders: badger or pebble")
	dbDir       = flag.String("db", "./navigatorx-lanes.db", "kv database directory")
	logLevel    = flag.String("loglevel", "info", "log level")
	devLog      = flag.Bool("devlog", false, "human readable logs")
	unpackCache = flag.Int("unpackcache", 4096, "shortcut unpack cache entries per pathfinder, 0 disables it")
	workers     = flag.Int("workers", 0, "trip evaluation workers, 0 uses GOMAXPROCS")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			navigatorx-lanes API
//	@version		1.0
//	@description	lane-level routing engine in go. Contraction Hierarchies per vehicle mode, bidirectional Dijkstra queries and a bike network gap analysis

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	log, err := logger.New(*logLevel, *devLog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	net, err := network.LoadJSONFile(*networkFile)
	if err != nil {
		log.Fatal("loading lane network", zap.Error(err))
	}

	store, err := kv.Open(*storeKind, *dbDir, log)
	if err != nil {
		log.Fatal("opening kv store", zap.Error(err))
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pm := metrics.NewMetric(reg)
	m := rest.NewMetrics(reg)

	opts := []pathfind.Option{
		pathfind.WithLogger(log),
		pathfind.WithMetrics(pm),
		pathfind.WithUnpackCacheSize(*unpackCache),
	}
	pfs, err := loadOrBuild(context.Background(), net, store, log, opts)
	if err != nil {
		log.Fatal("preparing pathfinders", zap.Error(err))
	}
	recordMemProfile(log, memprofile, "pathfinders_ready")

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	svc := service.NewPathfindingService(net, pfs, store, log, analysis.WithWorkers(*workers))
	rest.PathfindingRouter(r, svc)

	log.Info("server started", zap.String("addr", *listenAddr))
	if err := http.ListenAndServe(*listenAddr, r); err != nil {
		log.Fatal("serving http", zap.Error(err))
	}
}

// loadOrBuild reads the compiled pathfinders from store. They are rebuilt
// from net and saved back when missing or compiled for another network.
func loadOrBuild(ctx context.Context, net *network.Map, store kv.Store, log *zap.Logger,
	opts []pathfind.Option) (*pathfind.Pathfinders, error) {
	pfs, err := kv.LoadPathfinders(ctx, store, net, opts...)
	switch {
	case err == nil:
		log.Info("loaded compiled pathfinders")
		return pfs, nil
	case errors.Is(err, kv.ErrStaleNetwork):
		log.Warn("compiled pathfinders don't match the lane network, rebuilding", zap.Error(err))
	case errors.Is(err, kv.ErrKeyNotFound):
		log.Info("no compiled pathfinders found, building")
	default:
		return nil, err
	}

	pfs, err = pathfind.NewPathfinders(net, opts...)
	if err != nil {
		return nil, err
	}
	if err := kv.SavePathfinders(ctx, store, pfs, net); err != nil {
		return nil, err
	}
	return pfs, nil
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
