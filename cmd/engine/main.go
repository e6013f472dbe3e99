package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/httpapi"
	"jobscout-engine/internal/logx"
	"jobscout-engine/internal/poll"
	"jobscout-engine/internal/scheduler"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
	"jobscout-engine/internal/search"
	"jobscout-engine/internal/store"
)

const sweepTask = "sweep"

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("JOBSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	boot := logx.New("info", true)

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("config bootstrap failed")
	}

	// Load config and keep it reloadable
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		config.ApplyEnv(&cfg)
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		boot.Fatal().Err(err).Str("path", userCfgPath).Msg("config load failed")
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		boot.Warn().Msg(w)
	}
	if !vr.OK() {
		boot.Fatal().Strs("errors", vr.Errors).Str("path", userCfgPath).Msg("config invalid")
	}
	cfg.App.DataDir = dataDir

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	log := logx.New(cfg.Log.Level, cfg.Log.Console)

	lock, err := store.LockDir(dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("data dir lock failed")
	}
	defer func() { _ = lock.Unlock() }()

	var db *store.DB
	opts := store.Options{Capacity: cfg.Capacity(), Log: logx.Component(log, "store")}
	if cfg.Store.Persist {
		dbPath := filepath.Join(dataDir, "jobscout.db")
		db, err = store.Open(dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", dbPath).Msg("open db failed")
		}
		opts.Mirror = db
		log.Info().Str("db", dbPath).Msg("persistence on")
	}
	st := store.New(opts)
	if n, err := st.Restore(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("restore failed")
	} else if n > 0 {
		log.Info().Int("postings", n).Msg("restored")
	}

	hub := events.NewHub()

	limiter := util.NewHostLimiter(cfg.Scrape.RatePerSec, cfg.Scrape.Burst)
	build := func(c config.Config) []types.Adapter {
		client := util.NewClient(c.HTTPTimeout(), limiter, c.Scrape.UserAgent)
		return scrape.BuildAdapters(c, client, log)
	}

	svc := search.New(search.Options{
		CfgVal: &cfgVal,
		Build:  build,
		Store:  st,
		Hub:    hub,
		Log:    logx.Component(log, "search"),
	})

	sched := scheduler.New(logx.Component(log, "scheduler"))
	sweep := func(ctx context.Context) error {
		_, err := svc.Sweep(ctx)
		return err
	}
	sched.RunNow(sweepTask, sweep)

	poller := poll.New(svc, sched, logx.Component(log, "poll"))
	applySchedules := func(c config.Config) {
		if c.Store.SweepSchedule == "" {
			sched.Remove(sweepTask)
		} else if err := sched.Add(c.Store.SweepSchedule, sweepTask, sweep); err != nil {
			log.Error().Err(err).Msg("sweep schedule rejected")
		}
		if err := poller.Apply(c); err != nil {
			log.Error().Err(err).Msg("polling schedule rejected")
		}
	}
	applySchedules(cfg)
	sched.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onConfig := func(c config.Config) {
		config.ApplyEnv(&c)
		c.App.DataDir = dataDir
		cfgVal.Store(c)
		applySchedules(c)
		hub.Publish(events.MakeEvent("", events.TypeConfig, 1, nil))
		log.Info().Str("path", userCfgPath).Msg("config reloaded")
	}
	go func() {
		if err := config.Watch(ctx, userCfgPath, logx.Component(log, "config"), onConfig); err != nil {
			log.Warn().Err(err).Msg("config watch stopped")
		}
	}()

	deps := httpapi.Deps{
		Search:      svc,
		Hub:         hub,
		Log:         log,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		OnConfig:    func(c config.Config) { applySchedules(c) },
		StoreSize:   st.Len,
		Shutdown:    shutdownHandler(shutdownToken(log), stop),
	}
	if db != nil {
		deps.DB = db
	}

	ln, err := net.Listen("tcp", cfg.App.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.App.Addr).Msg("listen failed")
	}

	srv := &http.Server{
		Handler:           httpapi.NewHandler(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", "http://"+cfg.App.Addr).Str("data_dir", dataDir).Msg("engine listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("serve failed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(log, srv, sched, db)
}

func shutdown(log zerolog.Logger, srv *http.Server, sched *scheduler.Scheduler, db *store.DB) {
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if db != nil {
		if err := db.Checkpoint(ctx); err != nil {
			log.Warn().Err(err).Msg("final checkpoint")
		}
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("db close")
		}
	}
}
