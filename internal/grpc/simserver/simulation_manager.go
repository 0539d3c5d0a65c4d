package simserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/monitoring"
)

const (
	// finishedSimulationTTL keeps ended simulations readable for a while
	finishedSimulationTTL = 10 * time.Minute
	// abandonedSimulationTimeout drops simulations nobody touched
	abandonedSimulationTimeout = 30 * time.Minute
	maxTiles                   = 1000 * 1000
	maxPlayers                 = 256
)

// ErrAtCapacity is returned when max simulations are already running
var ErrAtCapacity = errors.New("server at capacity")

// simulation is one engine plus the actions queued for its next tick.
// mu serializes every access to the engine.
type simulation struct {
	id       string
	mu       sync.Mutex
	engine   *game.Engine
	pending  []core.Action
	rejected []string

	idempotency  *IdempotencyManager
	createdAt    time.Time
	lastActivity time.Time
}

// touch records activity. Must be called with mu held.
func (s *simulation) touch(now time.Time) { s.lastActivity = now }

// SimulationManager owns every running simulation
type SimulationManager struct {
	mu             sync.RWMutex
	sims           map[string]*simulation
	maxSimulations int
	monitor        *monitoring.TickMonitor
	logger         zerolog.Logger
	now            func() time.Time
}

// NewSimulationManager creates a manager. maxSimulations <= 0 means unlimited;
// monitor may be nil.
func NewSimulationManager(maxSimulations int, monitor *monitoring.TickMonitor, logger zerolog.Logger) *SimulationManager {
	return &SimulationManager{
		sims:           make(map[string]*simulation),
		maxSimulations: maxSimulations,
		monitor:        monitor,
		logger:         logger.With().Str("component", "SimulationManager").Logger(),
		now:            time.Now,
	}
}

// Create builds an engine from cfg and registers it under a new uuid
func (sm *SimulationManager) Create(ctx context.Context, cfg game.GameConfig) (*simulation, error) {
	sm.mu.RLock()
	current := len(sm.sims)
	sm.mu.RUnlock()
	if sm.maxSimulations > 0 && current >= sm.maxSimulations {
		sm.logger.Warn().
			Int("current", current).
			Int("max", sm.maxSimulations).
			Msg("Rejecting simulation - server at capacity")
		return nil, fmt.Errorf("%w: %d/%d simulations active", ErrAtCapacity, current, sm.maxSimulations)
	}

	cfg.GameID = uuid.NewString()
	cfg.EventBus = events.NewEventBus()
	cfg.Logger = sm.logger
	sim := &simulation{id: cfg.GameID, idempotency: NewIdempotencyManager()}
	cfg.EventBus.SubscribeFunc(events.TypeActionRejected, func(ev events.Event) {
		if e, ok := ev.(*events.ActionRejectedEvent); ok {
			sim.rejected = append(sim.rejected, fmt.Sprintf("player %d %s: %s", e.PlayerID, e.ActionType, e.Reason))
		}
	})
	if sm.monitor != nil {
		cfg.EventBus.Subscribe(sm.monitor)
	}

	engine, err := game.NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sim.engine = engine
	sim.createdAt = sm.now()
	sim.lastActivity = sim.createdAt

	sm.mu.Lock()
	if sm.maxSimulations > 0 && len(sm.sims) >= sm.maxSimulations {
		sm.mu.Unlock()
		return nil, fmt.Errorf("%w: %d/%d simulations active", ErrAtCapacity, sm.maxSimulations, sm.maxSimulations)
	}
	sm.sims[sim.id] = sim
	count := len(sm.sims)
	sm.mu.Unlock()

	sm.logger.Info().
		Str("simulation_id", sim.id).
		Int("current", count).
		Int("width", engine.World().Terrain.W).
		Int("height", engine.World().Terrain.H).
		Int("players", cfg.Players).
		Msg("Created simulation")
	return sim, nil
}

// Get retrieves a simulation by id
func (sm *SimulationManager) Get(id string) (*simulation, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sim, ok := sm.sims[id]
	return sim, ok
}

// Delete removes a simulation and reports whether it existed
func (sm *SimulationManager) Delete(id string) bool {
	sm.mu.Lock()
	_, ok := sm.sims[id]
	delete(sm.sims, id)
	sm.mu.Unlock()
	if ok && sm.monitor != nil {
		sm.monitor.Forget(id)
	}
	return ok
}

// IDs returns the ids of all simulations in sorted order
func (sm *SimulationManager) IDs() []string {
	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sims))
	for id := range sm.sims {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// ActiveCount returns the number of simulations
func (sm *SimulationManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sims)
}

// RunCleanup removes finished and abandoned simulations every interval until
// ctx is done
func (sm *SimulationManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sm.Cleanup()
		case <-ctx.Done():
			return
		}
	}
}

// Cleanup removes finished simulations past their TTL and abandoned ones,
// returning how many were removed
func (sm *SimulationManager) Cleanup() int {
	// collect references first so no simulation lock is taken under sm.mu
	sm.mu.RLock()
	refs := make([]*simulation, 0, len(sm.sims))
	for _, sim := range sm.sims {
		refs = append(refs, sim)
	}
	sm.mu.RUnlock()

	now := sm.now()
	removed := 0
	for _, sim := range refs {
		sim.mu.Lock()
		idle := now.Sub(sim.lastActivity)
		reason := ""
		if sim.engine.IsGameOver() {
			if idle > finishedSimulationTTL {
				reason = "finished simulation TTL expired"
			}
		} else if idle > abandonedSimulationTimeout {
			reason = "simulation abandoned"
		}
		sim.mu.Unlock()

		if reason != "" && sm.Delete(sim.id) {
			removed++
			sm.logger.Info().
				Str("simulation_id", sim.id).
				Dur("idle", idle).
				Str("reason", reason).
				Msg("Cleaned up simulation")
		}
	}
	return removed
}
