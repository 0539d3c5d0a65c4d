package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/config"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/grpc/simserver"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/monitoring"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxSimulations := flag.Int("max-simulations", -1, "Maximum concurrent simulations (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	cfg := config.Get()
	grpcCfg := cfg.Server.GRPC

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = grpcCfg.Port
	}
	if *host == "" {
		*host = grpcCfg.Host
	}
	if *logLevel == "" {
		*logLevel = grpcCfg.LogLevel
	}
	if *maxSimulations == -1 {
		*maxSimulations = grpcCfg.MaxSimulations
	}
	// For enableReflection, use config if flag not explicitly set to true
	if !*enableReflection {
		*enableReflection = grpcCfg.EnableReflection
	}

	setupLogging(*logLevel)

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("max_simulations", *maxSimulations).
		Dur("tick_budget", grpcCfg.TickBudget()).
		Msg("Starting gRPC simulation server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	monitor := monitoring.NewTickMonitor(grpcCfg.TickBudget(), time.Minute, log.Logger)
	monitor.Start()
	defer monitor.Stop()

	defaults := cfg.Sim.GameConfig(cfg.Server.Sim.Players, 0)
	simService := simserver.NewServer(simserver.Options{
		MaxSimulations: *maxSimulations,
		Defaults:       defaults,
		Monitor:        monitor,
		Logger:         log.Logger,
	})
	grpcServer, healthServer := simserver.NewGRPCServer(simService, *enableReflection, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go simService.RunCleanup(ctx)

	// Config file edits change the log level of the running server
	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config) {
			setupLogging(c.Server.GRPC.LogLevel)
			log.Info().Str("log_level", c.Server.GRPC.LogLevel).Msg("Configuration reloaded")
		}, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid configuration change")
		})
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(simserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(grpcCfg.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Check if we're in production
	if os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
