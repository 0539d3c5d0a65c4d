package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/common"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

// IncomeManager grows every living player's troop pool with its territory
type IncomeManager struct {
	params    EconomyParams
	publisher events.Publisher
	gameID    string
	logger    zerolog.Logger
}

// NewIncomeManager creates a new income manager
func NewIncomeManager(params EconomyParams, publisher events.Publisher, gameID string, logger zerolog.Logger) *IncomeManager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &IncomeManager{
		params:    params,
		publisher: publisher,
		gameID:    gameID,
		logger:    logger.With().Str("component", "IncomeManager").Logger(),
	}
}

// Income returns what a player with the given troops and territory gains.
// Pools already above the cap (after refunds) are never reduced.
func (im *IncomeManager) Income(troops float64, territory int) float64 {
	if territory <= 0 {
		return 0
	}
	limit := im.params.MaxTroopsPerTile * float64(territory)
	return common.ClampFloat(limit-troops, 0, im.params.IncomeRate*float64(territory))
}

// ApplyIncome pays every alive player and returns the total paid
func (im *IncomeManager) ApplyIncome(w *core.World, tick int) float64 {
	total := 0.0
	paid := 0
	for _, p := range w.Players.All() {
		if !p.IsAlive() {
			continue
		}
		gain := im.Income(p.Troops(), p.TerritorySize())
		if gain <= 0 {
			continue
		}
		p.AddTroops(gain)
		total += gain
		paid++
	}

	im.logger.Debug().
		Int("tick", tick).
		Int("players", paid).
		Float64("total", total).
		Msg("Income applied")
	im.publisher.Publish(events.NewIncomeAppliedEvent(im.gameID, total, paid, tick))
	return total
}
