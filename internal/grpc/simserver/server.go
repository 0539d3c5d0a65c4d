package simserver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/monitoring"
)

const (
	// cleanupInterval is how often finished and abandoned simulations are swept
	cleanupInterval = 5 * time.Minute
	// maxStepTicks bounds a single Step call
	maxStepTicks = 10000
)

// Options configures a Server
type Options struct {
	MaxSimulations int
	// Defaults is the base config every CreateSimulation request overrides
	Defaults game.GameConfig
	Monitor  *monitoring.TickMonitor
	Logger   zerolog.Logger
}

// Server implements SimulationServiceServer on top of SimulationManager
type Server struct {
	manager  *SimulationManager
	defaults game.GameConfig
	logger   zerolog.Logger
}

// NewServer creates a simulation server
func NewServer(opts Options) *Server {
	logger := opts.Logger.With().Str("component", "SimulationServer").Logger()
	return &Server{
		manager:  NewSimulationManager(opts.MaxSimulations, opts.Monitor, logger),
		defaults: opts.Defaults,
		logger:   logger,
	}
}

// Manager exposes the simulation manager
func (s *Server) Manager() *SimulationManager { return s.manager }

// RunCleanup sweeps stale simulations until ctx is done
func (s *Server) RunCleanup(ctx context.Context) {
	s.manager.RunCleanup(ctx, cleanupInterval)
}

// CreateSimulation builds a new engine from the defaults overridden by req
func (s *Server) CreateSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cfg := s.defaults
	cfg.Terrain = nil
	if err := applyCreateRequest(&cfg, req); err != nil {
		return nil, err
	}

	sim, err := s.manager.Create(ctx, cfg)
	if err != nil {
		return nil, toStatus(err)
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()
	t := sim.engine.World().Terrain
	return structpb.NewStruct(map[string]interface{}{
		"simulation_id": sim.id,
		"width":         t.W,
		"height":        t.H,
		"players":       sim.engine.World().Players.Len(),
		"phase":         sim.engine.Phase().String(),
	})
}

// SubmitActions queues actions for the next Step. A repeated
// idempotency_key returns the first response without queueing again.
func (s *Server) SubmitActions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sim, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	key := stringField(req, "idempotency_key", "")
	if cached := sim.idempotency.Check(key); cached != nil {
		s.logger.Debug().
			Str("simulation_id", sim.id).
			Str("idempotency_key", key).
			Msg("Returning cached SubmitActions response")
		return cached, nil
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()
	if sim.engine.IsGameOver() {
		return nil, status.Error(codes.FailedPrecondition, core.ErrGameOver.Error())
	}
	actions, err := actionsFromRequest(req, sim.engine.World())
	if err != nil {
		return nil, err
	}
	sim.pending = append(sim.pending, actions...)
	sim.touch(time.Now())

	resp, err := structpb.NewStruct(map[string]interface{}{
		"accepted": len(actions),
		"pending":  len(sim.pending),
		"tick":     sim.engine.Tick() + 1,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	sim.idempotency.Store(key, resp)
	return resp, nil
}

// Step advances a simulation by "ticks" ticks (default 1). Queued actions
// are applied on the first of them.
func (s *Server) Step(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sim, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	ticks, err := numberField(req, "ticks", 1)
	if err != nil {
		return nil, err
	}
	if ticks < 1 || ticks > maxStepTicks {
		return nil, status.Errorf(codes.InvalidArgument, "ticks must be between 1 and %d", maxStepTicks)
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()
	if sim.engine.IsGameOver() {
		return nil, status.Error(codes.FailedPrecondition, core.ErrGameOver.Error())
	}
	sim.touch(time.Now())
	sim.rejected = sim.rejected[:0]

	actions := sim.pending
	sim.pending = nil
	for i := 0; i < ticks && !sim.engine.IsGameOver(); i++ {
		if err := sim.engine.Step(ctx, actions); err != nil {
			return nil, toStatus(err)
		}
		actions = nil
	}

	e := sim.engine
	return structpb.NewStruct(map[string]interface{}{
		"tick":      e.Tick(),
		"phase":     e.Phase().String(),
		"game_over": e.IsGameOver(),
		"winner":    e.GetWinner(),
		"rejected":  stringList(sim.rejected),
	})
}

// GetSnapshot returns the encoded ownership grid of a simulation
func (s *Server) GetSnapshot(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	sim, ok := s.manager.Get(req.GetValue())
	if !ok {
		return nil, status.Errorf(codes.NotFound, "simulation %q not found", req.GetValue())
	}
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return wrapperspb.Bytes(sim.engine.Snapshot()), nil
}

// GetPlayer returns the stats of one player
func (s *Server) GetPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sim, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	id, err := numberField(req, "player", -1)
	if err != nil {
		return nil, err
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()
	if id < 0 || id >= sim.engine.World().Players.Len() {
		return nil, status.Errorf(codes.NotFound, "player %d not found", id)
	}
	stats, _ := sim.engine.Stats(core.Owner(id))
	return statsToStruct(stats)
}

// ListSimulations returns the ids of all simulations
func (s *Server) ListSimulations(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"simulation_ids": stringList(s.manager.IDs()),
	})
}

// DeleteSimulation removes a simulation
func (s *Server) DeleteSimulation(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if !s.manager.Delete(req.GetValue()) {
		return nil, status.Errorf(codes.NotFound, "simulation %q not found", req.GetValue())
	}
	s.logger.Info().Str("simulation_id", req.GetValue()).Msg("Deleted simulation")
	return &emptypb.Empty{}, nil
}

func (s *Server) lookup(req *structpb.Struct) (*simulation, error) {
	id := stringField(req, "simulation_id", "")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "simulation_id is required")
	}
	sim, ok := s.manager.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "simulation %q not found", id)
	}
	return sim, nil
}

// toStatus maps engine errors onto gRPC codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrAtCapacity):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, core.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.InvalidArgument, err.Error())
	}
}
