package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/SocialGraph/internal/config"
	"github.com/Dias221467/SocialGraph/internal/handlers"
	"github.com/Dias221467/SocialGraph/internal/jobs"
	"github.com/Dias221467/SocialGraph/internal/repository"
	"github.com/Dias221467/SocialGraph/internal/scheduler"
	"github.com/Dias221467/SocialGraph/internal/server"
	"github.com/Dias221467/SocialGraph/internal/services"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Log.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Error("Storage connection error")
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close storage")
		}
	}()

	graph, err := services.NewSocialGraph(ctx, repo, services.WithBcryptCost(cfg.BcryptCost))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load social graph")
		return err
	}
	dispatcher := handlers.NewDispatcher(graph)

	opts := server.Options{
		Addr:            net.JoinHostPort(cfg.Host, cfg.Port),
		MaxMessageBytes: cfg.MaxMessageBytes,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
	}
	if cfg.TLSEnabled() {
		opts.TLS, err = server.LoadTLSConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return err
		}
	}
	tcpServer := server.NewTCPServer(opts, dispatcher)

	entries := []scheduler.Entry{
		{Name: "statistics-report", Schedule: cfg.StatsSchedule, Job: jobs.NewStatsReporter(graph)},
		{Name: "snapshot-flush", Schedule: cfg.FlushSchedule, Job: jobs.NewSnapshotFlusher(graph)},
	}
	if badgerRepo, ok := repo.(*repository.BadgerRepository); ok {
		entries = append(entries, scheduler.Entry{
			Name:     "badger-gc",
			Schedule: cfg.BadgerGCSchedule,
			Job: scheduler.JobFunc(func(context.Context) error {
				return badgerRepo.RunGC(0.5)
			}),
		})
	}
	sched, err := scheduler.New(ctx, entries...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           newRouter(cfg, graph, dispatcher),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tcpServer.ListenAndServe(gCtx)
	})
	g.Go(func() error {
		logger.Log.WithField("addr", cfg.AdminAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sched.Run(gCtx)
	})

	err = g.Wait()
	if flushErr := graph.Flush(context.Background()); flushErr != nil {
		logger.Log.WithError(flushErr).Error("Final snapshot flush failed")
	}
	if err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
		return err
	}
	logger.Log.Info("Server stopped")
	return nil
}
