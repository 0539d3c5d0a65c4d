package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/attack"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/boat"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/mapgen"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/navigation"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/processor"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/rules"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/states"
)

// GameConfig describes one simulation. The serializable part is enough to
// rebuild an identical engine for replay verification.
type GameConfig struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Players int    `json:"players"`
	Seed    int64  `json:"seed"`
	Mode    string `json:"mode"`
	Teams   int    `json:"teams"`

	Map        mapgen.MapConfig  `json:"map"`
	Attack     attack.Params     `json:"attack"`
	Navigation navigation.Params `json:"navigation"`
	Boat       boat.Params       `json:"boat"`
	Economy    EconomyParams     `json:"economy"`
	Spawn      SpawnParams       `json:"spawn"`

	// Terrain replaces map generation when set
	Terrain  *core.Terrain    `json:"-"`
	GameID   string           `json:"-"`
	EventBus *events.EventBus `json:"-"`
	Logger   zerolog.Logger   `json:"-"`
}

// DefaultGameConfig returns a fully populated configuration
func DefaultGameConfig(w, h, players int, seed int64) GameConfig {
	return GameConfig{
		Width:      w,
		Height:     h,
		Players:    players,
		Seed:       seed,
		Mode:       "ffa",
		Map:        mapgen.DefaultMapConfig(w, h, players),
		Attack:     attack.DefaultParams(),
		Navigation: navigation.DefaultParams(),
		Boat:       boat.DefaultParams(),
		Economy:    DefaultEconomyParams(),
		Spawn:      DefaultSpawnParams(),
		Logger:     zerolog.Nop(),
	}
}

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "Engine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// NewEngine is shorthand for NewEngineInitializer(cfg).Initialize(ctx)
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(ei.config.Seed))

	terrain, err := ei.buildTerrain(rng)
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	engine, err := ei.createEngine(terrain, rng)
	if err != nil {
		return nil, err
	}

	if err := ei.initializeStateMachine(engine); err != nil {
		return nil, fmt.Errorf("state machine initialization failed: %w", err)
	}

	engine.eventBus.Publish(events.NewSimulationStartedEvent(
		engine.gameID,
		ei.config.Players,
		terrain.W,
		terrain.H,
		ei.config.Seed,
	))

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("width", terrain.W).
		Int("height", terrain.H).
		Int("players", ei.config.Players).
		Int64("seed", ei.config.Seed).
		Int("nav_nodes", engine.graph.NodeCount()).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills zero-valued sections and rejects unusable settings
func (ei *EngineInitializer) setupDefaults() error {
	cfg := &ei.config
	if cfg.Terrain != nil {
		cfg.Width, cfg.Height = cfg.Terrain.W, cfg.Terrain.H
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid map size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Players < 1 || cfg.Players >= int(core.OwnerUnclaimed) {
		return fmt.Errorf("invalid player count %d", cfg.Players)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		ei.logger.Debug().Int64("seed", cfg.Seed).Msg("No seed provided, using clock")
	}
	if cfg.GameID == "" {
		cfg.GameID = uuid.NewString()
	}
	if cfg.Map.Width == 0 {
		cfg.Map = mapgen.DefaultMapConfig(cfg.Width, cfg.Height, cfg.Players)
	}
	cfg.Map.Width, cfg.Map.Height, cfg.Map.PlayerCount = cfg.Width, cfg.Height, cfg.Players
	if cfg.Attack == (attack.Params{}) {
		cfg.Attack = attack.DefaultParams()
	}
	if cfg.Navigation == (navigation.Params{}) {
		cfg.Navigation = navigation.DefaultParams()
	}
	if cfg.Boat == (boat.Params{}) {
		cfg.Boat = boat.DefaultParams()
	}
	if cfg.Economy == (EconomyParams{}) {
		cfg.Economy = DefaultEconomyParams()
	}
	if cfg.Spawn == (SpawnParams{}) {
		cfg.Spawn = DefaultSpawnParams()
	}
	if cfg.Spawn.Ticks < 1 {
		cfg.Spawn.Ticks = 1
	}
	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBus()
	}
	return nil
}

// buildTerrain generates the map unless one was provided
func (ei *EngineInitializer) buildTerrain(rng *rand.Rand) (*core.Terrain, error) {
	if ei.config.Terrain != nil {
		return ei.config.Terrain, nil
	}
	terrain := mapgen.NewGenerator(ei.config.Map, rng).GenerateTerrain()
	if terrain.WaterCount() == terrain.Size() {
		return nil, mapgen.ErrNoLand
	}
	return terrain, nil
}

// createEngine wires the world and every subsystem. Hook registration order
// is part of the tick semantics: the scheduler sees a transaction before the
// shore index and the reporters.
func (ei *EngineInitializer) createEngine(terrain *core.Terrain, rng *rand.Rand) (*Engine, error) {
	cfg := ei.config
	mode, err := rules.ModeByName(cfg.Mode)
	if err != nil {
		return nil, err
	}

	world := core.NewWorld(terrain, cfg.Players)
	if cfg.Teams > 0 {
		rules.AssignTeams(world.Players.All(), cfg.Teams)
	}

	graph := navigation.BuildGraph(terrain, cfg.Navigation, ei.logger)
	pathfinder := navigation.NewPathfinder(graph, ei.logger)

	scheduler := attack.NewScheduler(world, cfg.Attack, rng, cfg.GameID, cfg.EventBus)
	shores := navigation.NewShoreIndex(graph, world)

	engine := &Engine{
		world:        world,
		rng:          rng,
		config:       cfg,
		gameID:       cfg.GameID,
		mode:         mode,
		graph:        graph,
		pathfinder:   pathfinder,
		shores:       shores,
		scheduler:    scheduler,
		eventBus:     cfg.EventBus,
		logger:       ei.logger.With().Str("game_id", cfg.GameID).Logger(),
		winner:       -1,
		winCondition: rules.NewWinConditionChecker(ei.logger, mode, cfg.Players),
		spawns:       make(map[core.Owner][]core.TileIndex),
		labels:       make(map[core.Owner]core.Coordinate),
	}
	engine.boats = boat.NewManager(boat.Deps{
		World:      world,
		Scheduler:  scheduler,
		Pathfinder: pathfinder,
		Shores:     shores,
		Policy:     mode,
		Attack:     cfg.Attack,
		GameID:     cfg.GameID,
		Publisher:  cfg.EventBus,
		Logger:     ei.logger,
	}, cfg.Boat)
	engine.actionProcessor = processor.NewActionProcessor(ei.logger, cfg.EventBus, cfg.GameID)
	engine.incomeManager = NewIncomeManager(cfg.Economy, cfg.EventBus, cfg.GameID, ei.logger)
	engine.tickProcessor = NewTickProcessor(engine)

	world.AddHook(&conquestReporter{engine: engine})
	world.AddDefendantObserver(engine)

	gameContext := states.NewGameContext(cfg.GameID, cfg.Players, cfg.Spawn.Ticks, ei.logger)
	engine.stateMachine = states.NewStateMachine(gameContext, cfg.EventBus)
	return engine, nil
}

// initializeStateMachine moves the new engine into the spawn phase
func (ei *EngineInitializer) initializeStateMachine(engine *Engine) error {
	if err := engine.stateMachine.TransitionTo(states.PhaseSpawning, "Engine initialized"); err != nil {
		ei.logger.Error().Err(err).Msg("Failed to transition to Spawning state")
		return err
	}
	return nil
}
