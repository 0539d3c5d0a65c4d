package simserver

import (
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/mapgen"
)

// numberField reads an integer field, returning def when it is absent
func numberField(s *structpb.Struct, key string, def int) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
	}
	return int(n.NumberValue), nil
}

func floatField(s *structpb.Struct, key string) (float64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
	return n.NumberValue, nil
}

func stringField(s *structpb.Struct, key, def string) string {
	if v, ok := s.GetFields()[key]; ok {
		if str, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			return str.StringValue
		}
	}
	return def
}

// applyCreateRequest overrides cfg with the fields present in req
func applyCreateRequest(cfg *game.GameConfig, req *structpb.Struct) error {
	var err error
	if cfg.Width, err = numberField(req, "width", cfg.Width); err != nil {
		return err
	}
	if cfg.Height, err = numberField(req, "height", cfg.Height); err != nil {
		return err
	}
	if cfg.Players, err = numberField(req, "players", cfg.Players); err != nil {
		return err
	}
	seed, err := numberField(req, "seed", int(cfg.Seed))
	if err != nil {
		return err
	}
	cfg.Seed = int64(seed)
	if cfg.Teams, err = numberField(req, "teams", cfg.Teams); err != nil {
		return err
	}
	if cfg.Spawn.Ticks, err = numberField(req, "spawn_ticks", cfg.Spawn.Ticks); err != nil {
		return err
	}
	if cfg.Spawn.Radius, err = numberField(req, "spawn_radius", cfg.Spawn.Radius); err != nil {
		return err
	}
	cfg.Mode = stringField(req, "mode", cfg.Mode)

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxTiles {
		return status.Errorf(codes.InvalidArgument, "map size %dx%d out of range", cfg.Width, cfg.Height)
	}
	if cfg.Players < 1 || cfg.Players > maxPlayers {
		return status.Errorf(codes.InvalidArgument, "players must be between 1 and %d", maxPlayers)
	}
	cfg.Map.MinSpawnSpacing = mapgen.DefaultMapConfig(cfg.Width, cfg.Height, cfg.Players).MinSpawnSpacing
	return nil
}

// actionFromStruct decodes one action. Tiles are given as x and y; an
// attack target is a player id or the string "unclaimed".
func actionFromStruct(s *structpb.Struct, w *core.World) (core.Action, error) {
	player, err := numberField(s, "player", -1)
	if err != nil {
		return nil, err
	}
	if player < 0 || player >= w.Players.Len() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown player %d", player)
	}
	owner := core.Owner(player)

	tile := func() (core.TileIndex, error) {
		x, err := numberField(s, "x", -1)
		if err != nil {
			return core.NoTile, err
		}
		y, err := numberField(s, "y", -1)
		if err != nil {
			return core.NoTile, err
		}
		if !w.Terrain.InBounds(x, y) {
			return core.NoTile, status.Errorf(codes.InvalidArgument, "tile (%d,%d) is outside the map", x, y)
		}
		return w.Terrain.Idx(x, y), nil
	}

	switch kind := stringField(s, "type", ""); kind {
	case "spawn":
		t, err := tile()
		if err != nil {
			return nil, err
		}
		return &core.SpawnAction{PlayerID: owner, Tile: t}, nil
	case "attack":
		troops, err := floatField(s, "troops")
		if err != nil {
			return nil, err
		}
		target := core.OwnerUnclaimed
		if stringField(s, "target", "") != "unclaimed" {
			id, err := numberField(s, "target", -1)
			if err != nil {
				return nil, err
			}
			if id < 0 || id >= w.Players.Len() {
				return nil, status.Errorf(codes.InvalidArgument, "unknown target %d", id)
			}
			target = core.Owner(id)
		}
		return &core.AttackAction{PlayerID: owner, Target: target, Troops: troops}, nil
	case "boat":
		t, err := tile()
		if err != nil {
			return nil, err
		}
		troops, err := floatField(s, "troops")
		if err != nil {
			return nil, err
		}
		return &core.BoatAction{PlayerID: owner, Target: t, Troops: troops}, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown action type %q", kind)
	}
}

// actionsFromRequest decodes the "actions" list of a SubmitActions request
func actionsFromRequest(req *structpb.Struct, w *core.World) ([]core.Action, error) {
	list := req.GetFields()["actions"].GetListValue()
	if list == nil {
		return nil, status.Error(codes.InvalidArgument, "actions must be a list")
	}
	actions := make([]core.Action, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, status.Errorf(codes.InvalidArgument, "action %d is not an object", i)
		}
		a, err := actionFromStruct(s, w)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func statsToStruct(s game.PlayerStats) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":               int(s.ID),
		"team":             s.Team,
		"alive":            s.Alive,
		"spawned":          s.Spawned,
		"territory":        s.Territory,
		"border_size":      s.BorderSize,
		"troops":           s.Troops,
		"troops_in_flight": s.TroopsInFlight,
		"troops_at_sea":    s.TroopsAtSea,
		"boats":            s.Boats,
	})
}

func stringList(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
