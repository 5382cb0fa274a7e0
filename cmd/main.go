package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "syringe_rig/docs"
	"syringe_rig/internal/cancel"
	"syringe_rig/internal/config"
	"syringe_rig/internal/handlers"
	"syringe_rig/internal/logger"
	"syringe_rig/internal/metrics"
	"syringe_rig/internal/repository"
	"syringe_rig/internal/server"
	"syringe_rig/internal/service"
	"syringe_rig/internal/transport"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	exitOK     = 0
	exitFatal  = 1
	exitConfig = 2

	httpShutdownTimeout = 5 * time.Second
)

// @title                       Syringe Rig Monitoring API
// @version                     1.0
// @description                 Status, remote stop and event history of a running oscillation session.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := config.NewFlagSet("syringe-rig")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}
	if pw, _ := fs.GetString("hash-password"); pw != "" {
		return printPasswordHash(pw)
	}

	// Configuration errors exit before any I/O.
	cfg, err := config.Load(viper.New(), fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "syringe-rig:", err)
		return exitConfig
	}
	profile, err := service.NewMotionProfile(cfg.Device)
	if err != nil {
		fmt.Fprintln(os.Stderr, "syringe-rig:", err)
		return exitConfig
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	metrics.Init()

	tr, err := transport.Open(cfg.Device)
	if err != nil {
		log.Errorw("transport_open_failed", "port", cfg.Device.Port, "err", err)
		return exitFatal
	}
	log.Infow("transport_open", "port", tr.Name(), "baud", cfg.Device.BaudRate)

	stop := &cancel.Flag{}
	shutdown := service.NewShutdown(tr, profile.Origin(), cfg.Timing.ParkWait, nil, log)

	stopSignals := watchSignals(stop, log)
	defer stopSignals()

	reply, err := service.NewDeviceInitializer(tr, cfg.Device, cfg.Timing, nil, log).Run()
	if err != nil {
		log.Errorw("device_init_failed", "err", err)
		_ = shutdown.Run()
		return exitFatal
	}
	for _, line := range reply {
		fmt.Println(line)
	}

	events, err := openSessionLog(cfg, stop)
	if err != nil {
		log.Errorw("event_log_open_failed", "driver", cfg.EventLogDriver, "path", cfg.EventLogPath, "err", err)
		_ = shutdown.Run()
		return exitFatal
	}
	if events == nil {
		log.Infow("stopped_before_session", "reason", stop.Reason())
		if err := shutdown.Run(); err != nil {
			log.Errorw("session_shutdown_incomplete", "err", err)
			return exitFatal
		}
		return exitOK
	}
	shutdown.Own("event log", events)

	sessionID := uuid.NewString()
	if sq, ok := events.(*repository.EventSQLite); ok {
		sessionID = sq.SessionID()
	}

	if key := cfg.CancelRune(); key != 0 {
		startKeyWatcher(key, stop, shutdown, log)
	}

	status := service.NewMonitoringService()
	srv, err := startHTTP(cfg, status, stop, events, log)
	if err != nil {
		log.Errorw("http_listen_failed", "port", cfg.HTTPPort, "err", err)
		_ = shutdown.Run()
		return exitFatal
	}

	loop := service.NewMotionLoop(service.MotionDeps{
		Transport: tr,
		Events:    events,
		Profile:   profile,
		Watcher:   stop,
		Shutdown:  shutdown,
		Status:    status,
		SessionID: sessionID,
		Log:       log,
	})
	runErr := loop.Run(context.Background())
	shutdownErr := shutdown.Run()

	if srv != nil {
		ctx, cancelFn := context.WithTimeout(context.Background(), httpShutdownTimeout)
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnw("http_shutdown_failed", "err", err)
		}
		cancelFn()
	}

	switch {
	case runErr != nil:
		log.Errorw("session_failed", "session_id", sessionID, "err", runErr)
		return exitFatal
	case shutdownErr != nil:
		log.Errorw("session_shutdown_incomplete", "session_id", sessionID, "err", shutdownErr)
		return exitFatal
	}
	log.Infow("session_complete", "session_id", sessionID, "reason", stop.Reason(), "log", cfg.EventLogPath)
	return exitOK
}

// openSessionLog creates the event log unless a stop arrived while the device
// was initialising, in which case it returns a nil log and creates nothing.
func openSessionLog(cfg config.Config, stop cancel.Watcher) (repository.EventLog, error) {
	if stop.StopRequested() {
		return nil, nil
	}
	return repository.OpenEventLog(cfg.EventLogDriver, cfg.EventLogPath)
}

func printPasswordHash(pw string) int {
	hash, err := service.HashPassword(pw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "syringe-rig:", err)
		return exitConfig
	}
	fmt.Println(hash)
	return exitOK
}

// watchSignals turns SIGINT/SIGTERM into a cooperative stop request.
func watchSignals(stop *cancel.Flag, log *logger.Logger) func() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range quit {
			if stop.Request("signal " + sig.String()) {
				log.Infow("stop_requested", "signal", sig.String())
			}
		}
	}()
	return func() {
		signal.Stop(quit)
		close(quit)
	}
}

func startKeyWatcher(key rune, stop *cancel.Flag, shutdown *service.Shutdown, log *logger.Logger) {
	kw, err := cancel.WatchKey(os.Stdin, key, stop)
	switch {
	case err == nil:
		shutdown.Own("key watcher", kw)
		log.Infow("press_key_to_stop", "key", string(key))
	case errors.Is(err, cancel.ErrNotTerminal):
		log.Infow("key_watcher_disabled", "reason", "stdin is not a terminal")
	default:
		log.Warnw("key_watcher_failed", "err", err)
	}
}

// startHTTP serves the monitoring API when http.port is set. It returns a
// nil server when the API is disabled.
func startHTTP(cfg config.Config, status *service.MonitoringService, stop *cancel.Flag, events repository.EventLog, log *logger.Logger) (*server.Server, error) {
	if cfg.HTTPPort == "" {
		return nil, nil
	}
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	var history service.EventLog
	if r, ok := events.(repository.EventReader); ok {
		history = service.NewEventLogService(r)
	}
	services := service.NewService(status, stop, service.NewAuthService(cfg.PasswordHash, cfg.SigningKey), history)
	apiHandler := handlers.NewHandler(services, log)
	apiHandler.SetStatusInterval(cfg.StatusInterval)

	srv := &server.Server{}
	if err := srv.Listen(cfg.HTTPPort, apiHandler.InitRoutes()); err != nil {
		return nil, err
	}
	go func() {
		if err := srv.Serve(); err != nil {
			log.Errorw("http_serve_failed", "err", err)
		}
	}()
	log.Infow("http_listening", "addr", srv.Addr())
	return srv, nil
}
