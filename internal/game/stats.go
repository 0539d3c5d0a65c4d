package game

import (
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

// PlayerStats is a read-only summary of one player
type PlayerStats struct {
	ID             core.Owner
	Team           int
	Alive          bool
	Spawned        bool
	Territory      int
	BorderSize     int
	Troops         float64
	TroopsInFlight float64
	TroopsAtSea    float64
	Boats          int
}

// PlayerStats returns a summary of every player in ID order
func (e *Engine) PlayerStats() []PlayerStats {
	players := e.world.Players.All()
	out := make([]PlayerStats, len(players))
	for i, p := range players {
		out[i] = e.statsOf(p)
	}
	return out
}

// Stats returns the summary of one player
func (e *Engine) Stats(id core.Owner) (PlayerStats, bool) {
	p := e.world.Player(id)
	if p == nil {
		return PlayerStats{}, false
	}
	return e.statsOf(p), true
}

func (e *Engine) statsOf(p *core.Player) PlayerStats {
	return PlayerStats{
		ID:             p.ID,
		Team:           p.Team,
		Alive:          p.IsAlive(),
		Spawned:        p.IsSpawned(),
		Territory:      p.TerritorySize(),
		BorderSize:     p.BorderSize(),
		Troops:         p.Troops(),
		TroopsInFlight: e.scheduler.TroopsInFlight(p.ID),
		TroopsAtSea:    e.boats.TroopsAtSea(p.ID),
		Boats:          e.boats.CountOf(p.ID),
	}
}

// updateEliminations removes spawned players that lost all their land
func (e *Engine) updateEliminations() {
	for _, p := range e.world.Players.All() {
		if p.IsAlive() && p.IsSpawned() && p.TerritorySize() == 0 {
			e.eliminate(p, "territory lost")
		}
	}
}

// eliminate ends a player: its attacks stop without refund and its boats
// land nothing. Rank is the number of players still alive before it fell.
func (e *Engine) eliminate(p *core.Player, reason string) {
	rank := e.world.Players.AliveCount()
	e.scheduler.CancelPlayer(p.ID)
	p.Eliminate()
	e.eliminated = append(e.eliminated, p.ID)

	e.eventBus.Publish(events.NewPlayerEliminatedEvent(e.gameID, int(p.ID), rank, e.tick))
	e.logger.Info().
		Int("tick", e.tick).
		Uint16("player_id", uint16(p.ID)).
		Int("rank", rank).
		Str("reason", reason).
		Msg("Player eliminated")
}
