package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"rtcalsync/internal/calendar"
	"rtcalsync/internal/config"
	"rtcalsync/internal/engine"
	"rtcalsync/internal/feed"
	appLog "rtcalsync/internal/log"
	"rtcalsync/internal/model"
	"rtcalsync/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	conf.ApplyEnv()

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Init(conf.Logs.Application, conf.Logs.Error)
	appLog.Info("rtcalsync starting",
		"version", "0.1.0",
		"api_url", conf.Feed.APIURL,
		"channel_calendars", len(conf.Calendars.Channels),
		"refresh", conf.RefreshCron,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		// Single-shot mode: one sync cycle, then exit. Per-item errors
		// are logged, not raised; only auth failure is fatal.
		if err := runSync(ctx, conf, nil); err != nil {
			appLog.Error("sync run aborted", err)
			os.Exit(1)
		}
		return
	}

	// Daemon mode: recurring runs on the configured cron schedule plus a
	// status endpoint.
	statusSrv := web.NewServer(conf)
	go func() {
		if err := statusSrv.Start(ctx); err != nil {
			appLog.Error("status server failed", err)
		}
	}()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := runSync(ctx, conf, statusSrv); err != nil {
			appLog.Error("sync run aborted", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()

	// Kick off one run immediately rather than waiting for the first tick.
	if err := runSync(ctx, conf, statusSrv); err != nil {
		appLog.Error("sync run aborted", err)
	}

	<-ctx.Done()
	c.Stop()
	appLog.Info("rtcalsync exiting")
}

// runSync executes one full sync cycle: authenticate, fetch both feeds,
// reconcile releases first and livestreams second (ordering is for log
// readability only), and record a summary. A feed fetch failure kills
// that feed's batch for this run but not the other's; the next scheduled
// run is the retry mechanism. Only destination-client construction
// failure is returned to the caller.
func runSync(ctx context.Context, conf *config.Config, statusSrv *web.Server) error {
	runID := uuid.NewString()
	started := time.Now()
	appLog.Info("sync run starting", "run_id", runID)

	client, err := calendar.NewClient(ctx, conf.Google.CredentialsFile)
	if err != nil {
		// Fatal: no destination client, nothing can proceed.
		return err
	}

	feedClient := feed.NewClient(conf.Feed.APIURL)
	eng := engine.New(client, conf.Calendars, conf.Feed.SiteURL)

	var outcomes []model.Outcome
	items := 0

	releases, err := feedClient.WeekSchedule(ctx)
	if err != nil {
		appLog.Error("schedule fetch failed; skipping release batch", err, "run_id", runID)
	} else {
		items += len(releases)
		outcomes = append(outcomes, eng.Run(ctx, releases)...)
	}

	livestreams, err := feedClient.Livestreams(ctx)
	if err != nil {
		appLog.Error("livestream fetch failed; skipping livestream batch", err, "run_id", runID)
	} else {
		items += len(livestreams)
		outcomes = append(outcomes, eng.Run(ctx, livestreams)...)
	}

	st := web.Summarize(runID, started, time.Now(), items, outcomes)
	appLog.Info("sync run finished",
		"run_id", runID,
		"items", st.Items,
		"created", st.Created,
		"skipped_existing", st.SkippedExisting,
		"failed", st.Failed,
		"elapsed", st.FinishedAt.Sub(st.StartedAt).Round(time.Millisecond),
	)

	if statusSrv != nil {
		statusSrv.SetStatus(st)
	}
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one sync cycle and exit")

	flag.Parse()

	return cfg
}
