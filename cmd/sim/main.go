package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/config"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/monitoring"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	ticks := flag.Int("ticks", -1, "Maximum ticks to run (-1 to use config default)")
	players := flag.Int("players", -1, "Number of bot players (-1 to use config default)")
	seed := flag.Int64("seed", -1, "Simulation seed (-1 to use config default, 0 for clock)")
	replayDB := flag.String("replay-db", "", "Record the run into this sqlite file (empty to use config default)")
	verify := flag.String("verify", "", "Replay and verify a recorded session id instead of running")
	render := flag.Bool("render", false, "Print the final map")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	run := cfg.Server.Sim

	if *ticks == -1 {
		*ticks = run.Ticks
	}
	if *players == -1 {
		*players = run.Players
	}
	if *seed == -1 {
		*seed = run.Seed
	}
	if *replayDB == "" {
		*replayDB = run.ReplayDB
	}

	logger := setupLogging(run.LogLevel, run.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *verify != "" {
		if err := verifySession(ctx, *replayDB, *verify, logger); err != nil {
			logger.Fatal().Err(err).Str("session", *verify).Msg("Replay verification failed")
		}
		return
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	gc := cfg.Sim.GameConfig(*players, *seed)
	gc.EventBus = events.NewEventBus()
	gc.Logger = logger

	monitor := monitoring.NewTickMonitor(cfg.Server.GRPC.TickBudget(), time.Minute, logger)
	gc.EventBus.Subscribe(monitor)
	eventLog := subscribers.NewLoggerSubscriber("event-log", logger, zerolog.InfoLevel)
	eventLog.SetEventFilter([]string{
		events.TypeSimulationStarted,
		events.TypeSimulationEnded,
		events.TypePlayerSpawned,
		events.TypePlayerEliminated,
		events.TypeStateTransition,
	})
	eventLog.SetDevMode(zerolog.GlobalLevel() <= zerolog.DebugLevel)
	gc.EventBus.Subscribe(eventLog)

	engine, err := game.NewEngine(ctx, gc)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create engine")
	}
	logger.Info().
		Str("game_id", engine.GameID()).
		Int64("seed", engine.Seed()).
		Int("width", engine.World().Terrain.W).
		Int("height", engine.World().Terrain.H).
		Int("players", *players).
		Msg("Starting simulation")

	step := engine.Step
	var recorder *replay.Recorder
	if *replayDB != "" {
		store, err := replay.Open(*replayDB, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open replay store")
		}
		defer store.Close()
		recorder, err = replay.NewRecorder(ctx, store, engine, cfg.Storage.SnapshotInterval, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to start recording")
		}
		step = recorder.Step
	}

	// bots draw from their own rng so the map seed alone fixes the terrain
	rng := rand.New(rand.NewSource(*seed + 1))
	for engine.Tick() < *ticks && !engine.IsGameOver() {
		actions := game.GenerateRandomActions(engine, rng)
		if err := step(ctx, actions); err != nil {
			logger.Error().Err(err).Msg("Simulation stopped")
			break
		}
	}

	if recorder != nil {
		if err := recorder.Close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to finish recording")
		} else {
			logger.Info().Str("session", recorder.Session().ID).Msg("Run recorded")
		}
	}
	report(engine, monitor, logger)
	if *render {
		fmt.Print(engine.Render(true))
	}
}

func report(engine *game.Engine, monitor *monitoring.TickMonitor, logger zerolog.Logger) {
	m := monitor.GetMetrics()
	logger.Info().
		Int("tick", engine.Tick()).
		Bool("game_over", engine.IsGameOver()).
		Int("winner", engine.GetWinner()).
		Dur("avg_tick", m.Average).
		Dur("peak_tick", m.Peak).
		Int("over_budget", m.OverBudget).
		Msg("Simulation finished")

	for _, s := range engine.PlayerStats() {
		logger.Info().
			Str("player", s.ID.String()).
			Bool("alive", s.Alive).
			Int("territory", s.Territory).
			Float64("troops", s.Troops).
			Int("boats", s.Boats).
			Msg("Player summary")
	}
}

func verifySession(ctx context.Context, path, id string, logger zerolog.Logger) error {
	if path == "" {
		return fmt.Errorf("verify needs -replay-db")
	}
	store, err := replay.Open(path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := replay.NewPlayer(store, logger).Verify(ctx, id)
	if err != nil {
		return err
	}
	logger.Info().
		Str("session", id).
		Int("ticks", res.Ticks).
		Int("actions", res.Actions).
		Int("snapshots", res.SnapshotsChecked).
		Msg("Replay matches recording")
	return nil
}

// setupLogging configures the global logger and returns it
func setupLogging(level, format string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	return log.Logger
}
